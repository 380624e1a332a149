package identity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spec-kit/specify/internal/refname"
)

// ErrEmptyDescription is returned when a description yields no usable
// characters for {short_name}.
var ErrEmptyDescription = errors.New("description must contain at least one letter or digit")

// InvalidTemplateError reports a branch template that can never produce a
// valid identifier.
type InvalidTemplateError struct {
	Template  string
	Reason    string
	Violation *refname.Violation // set when literal text breaks a ref rule
}

func (e *InvalidTemplateError) Error() string {
	return fmt.Sprintf("invalid branch template %q: %s", e.Template, e.Reason)
}

func (e *InvalidTemplateError) Unwrap() error {
	if e.Violation == nil {
		return nil
	}
	return e.Violation
}

// TemplateVariableError reports a placeholder with no known resolver, or a
// brace that does not form a placeholder at all.
type TemplateVariableError struct {
	Name     string // placeholder name, empty for an unbalanced brace
	Token    string // offending text as written in the template
	Template string
}

func (e *TemplateVariableError) Error() string {
	known := make([]string, len(knownPlaceholders))
	for i, p := range knownPlaceholders {
		known[i] = "{" + p + "}"
	}
	token := e.Token
	if token == "" {
		token = "{" + e.Name + "}"
	}
	if strings.HasPrefix(token, "{") && strings.HasSuffix(token, "}") {
		return fmt.Sprintf("unknown placeholder %s in branch template %q (known: %s)",
			token, e.Template, strings.Join(known, ", "))
	}
	return fmt.Sprintf("unbalanced brace at %q in branch template %q (known: %s)",
		token, e.Template, strings.Join(known, ", "))
}

// InvalidIdentifierError reports a rendered identifier rejected by the ref
// name rules.
type InvalidIdentifierError struct {
	Identifier string
	Violation  *refname.Violation
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid identifier %q: %s", e.Identifier, e.Violation.Error())
}

func (e *InvalidIdentifierError) Unwrap() error { return e.Violation }
