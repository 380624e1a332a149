package identity

import (
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/spec-kit/specify/internal/refname"
)

// Placeholder names understood in branch templates.
const (
	PlaceholderNumber      = "number"
	PlaceholderShortName   = "short_name"
	PlaceholderUsername    = "username"
	PlaceholderEmailPrefix = "email_prefix"
)

var knownPlaceholders = []string{
	PlaceholderNumber,
	PlaceholderShortName,
	PlaceholderUsername,
	PlaceholderEmailPrefix,
}

var placeholderRe = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// braceTokenRe matches any brace pair, well-formed name or not.
var braceTokenRe = regexp.MustCompile(`\{[^{}]*\}`)

// NumberWidth is the zero-padded width of {number}.
const NumberWidth = 3

// ResolvedIdentity is the outcome of a single resolution.
type ResolvedIdentity struct {
	Template   string
	Values     map[string]string // placeholder name to value, including number
	Scope      string
	Number     int
	Identifier string
}

// FeatureNum returns the zero-padded number.
func (r ResolvedIdentity) FeatureNum() string {
	return formatNumber(r.Number)
}

// ShortName returns the {short_name} value, which is also the input for
// repository routing.
func (r ResolvedIdentity) ShortName() string {
	return r.Values[PlaceholderShortName]
}

// Render re-renders the template with some values replaced.
func (r ResolvedIdentity) Render(overrides map[string]string) string {
	values := maps.Clone(r.Values)
	maps.Copy(values, overrides)
	return render(r.Template, values)
}

// Resolver produces identifiers from a template and a description.
type Resolver struct {
	Variables Variables
	Allocator *Allocator
}

// Resolve renders template for description and returns the identifier.
// It has no side effects, so calling it twice without creating a branch in
// between yields the same identifier.
func (r *Resolver) Resolve(ctx context.Context, template, description string) (ResolvedIdentity, error) {
	if !strings.Contains(template, "{"+PlaceholderNumber+"}") {
		return ResolvedIdentity{}, &InvalidTemplateError{
			Template: template,
			Reason:   "missing required {number} placeholder",
		}
	}
	used, err := placeholders(template)
	if err != nil {
		return ResolvedIdentity{}, err
	}

	values := make(map[string]string, len(used))
	// The short name drives routing even when the template omits it.
	if short, err := ShortName(description); err == nil {
		values[PlaceholderShortName] = short
	} else if slices.Contains(used, PlaceholderShortName) {
		return ResolvedIdentity{}, err
	}
	for _, name := range used {
		switch name {
		case PlaceholderUsername:
			v, err := r.Variables.Username(ctx)
			if err != nil {
				return ResolvedIdentity{}, err
			}
			values[name] = v
		case PlaceholderEmailPrefix:
			v, err := r.Variables.EmailPrefix(ctx)
			if err != nil {
				return ResolvedIdentity{}, err
			}
			values[name] = v
		}
	}

	scope := render(template[:strings.Index(template, "{"+PlaceholderNumber+"}")], values)
	n, err := r.Allocator.NextNumber(ctx, scope)
	if err != nil {
		return ResolvedIdentity{}, err
	}
	values[PlaceholderNumber] = formatNumber(n)

	id := ResolvedIdentity{
		Template:   template,
		Values:     values,
		Scope:      scope,
		Number:     n,
		Identifier: render(template, values),
	}
	if v := refname.Check(id.Identifier); v != nil {
		return ResolvedIdentity{}, &InvalidIdentifierError{Identifier: id.Identifier, Violation: v}
	}
	return id, nil
}

// ValidateTemplate checks a template without resolving it: {number} must be
// present, every placeholder must be known, and the literal text must not
// break a ref rule on its own.
func ValidateTemplate(template string) error {
	if !strings.Contains(template, "{"+PlaceholderNumber+"}") {
		return &InvalidTemplateError{Template: template, Reason: "missing required {number} placeholder"}
	}
	used, err := placeholders(template)
	if err != nil {
		return err
	}

	// Sample values contain no characters any ref rule cares about, so a
	// violation here comes from the literal text.
	sample := make(map[string]string, len(used))
	for _, name := range used {
		sample[name] = "x"
	}
	sample[PlaceholderNumber] = formatNumber(1)
	if v := refname.Check(render(template, sample)); v != nil {
		return &InvalidTemplateError{
			Template:  template,
			Reason:    "literal text is not allowed in branch names: " + v.Error(),
			Violation: v,
		}
	}
	return nil
}

// placeholders returns the distinct placeholder names in template, in order
// of first use. Every brace must belong to a well-formed placeholder with a
// known name; otherwise a TemplateVariableError names the first offending
// token, so a typo never survives into an identifier as literal text.
func placeholders(template string) ([]string, error) {
	var used []string
	prev := 0
	for _, loc := range braceTokenRe.FindAllStringIndex(template, -1) {
		if err := checkStrayBrace(template, template[prev:loc[0]]); err != nil {
			return nil, err
		}
		prev = loc[1]

		token := template[loc[0]:loc[1]]
		name := token[1 : len(token)-1]
		if !slices.Contains(knownPlaceholders, name) {
			return nil, &TemplateVariableError{Name: name, Token: token, Template: template}
		}
		if !slices.Contains(used, name) {
			used = append(used, name)
		}
	}
	if err := checkStrayBrace(template, template[prev:]); err != nil {
		return nil, err
	}
	return used, nil
}

// checkStrayBrace reports a brace in literal text, such as an unclosed
// "{short_name" or a lone "}".
func checkStrayBrace(template, literal string) error {
	i := strings.IndexAny(literal, "{}")
	if i < 0 {
		return nil
	}
	return &TemplateVariableError{Token: literal[i:], Template: template}
}

// render substitutes known placeholders. Placeholders without a value render
// as empty text.
func render(template string, values map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(m string) string {
		return values[m[1:len(m)-1]]
	})
}

func formatNumber(n int) string {
	return fmt.Sprintf("%0*d", NumberWidth, n)
}
