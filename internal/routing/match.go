package routing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spec-kit/specify/internal/workspace"
)

// Outcome says how a Decision was reached.
type Outcome int

const (
	// Override means the caller named the repositories explicitly.
	Override Outcome = iota + 1
	// Matched means at least one prefix or suffix rule applied.
	Matched
	// Defaulted means no rule applied and the default repository was used.
	Defaulted
	// NeedsSelection means no rule applied and the caller must choose.
	NeedsSelection
	// AllRepos means no rule applied and every repository is targeted.
	AllRepos
)

func (o Outcome) String() string {
	switch o {
	case Override:
		return "override"
	case Matched:
		return "matched"
	case Defaulted:
		return "default"
	case NeedsSelection:
		return "needs-selection"
	case AllRepos:
		return "all-repos"
	default:
		return "unknown"
	}
}

// Decision is the result of routing one name.
type Decision struct {
	Name    string
	Outcome Outcome
	// Repos are the targets, deduplicated in rule order. Empty when the
	// outcome is NeedsSelection.
	Repos []workspace.Repo
	// Candidates are offered for selection when Outcome is NeedsSelection.
	Candidates []workspace.Repo
	// StripPrefix is removed from the name before it becomes a branch,
	// set by a matching prefix rule with strip enabled.
	StripPrefix string
	// Rules describes the rules that applied, for display.
	Rules []string
}

// RepoNames returns the names of the decision's targets.
func (d Decision) RepoNames() []string {
	return names(d.Repos)
}

// Match routes name using conventions over repos. Non-empty override wins
// over every rule; each entry is a repository name or alias.
//
// Otherwise the first prefix rule whose prefix starts name contributes its
// repositories, then the first matching suffix rule adds its own; the union
// keeps first-seen order and holds each repository once. With no match the
// default repository is used if set, else the caller is asked to choose if
// AmbiguousPrompt is set, else all repositories are targeted.
func Match(name string, conventions workspace.Conventions, repos []workspace.Repo, override ...string) (Decision, error) {
	ws := &workspace.Workspace{Repos: repos}
	d := Decision{Name: name}

	if len(override) > 0 {
		targets, err := resolveAll(ws, override, "--repo")
		if err != nil {
			return Decision{}, err
		}
		d.Outcome = Override
		d.Repos = targets
		return d, nil
	}

	for _, rule := range conventions.PrefixRules {
		if !strings.HasPrefix(name, rule.Prefix) {
			continue
		}
		source := fmt.Sprintf("prefix rule %q", rule.Prefix)
		targets, err := resolveAll(ws, rule.Repos, source)
		if err != nil {
			return Decision{}, err
		}
		d.Repos = union(d.Repos, targets)
		d.Rules = append(d.Rules, source)
		if rule.Strip {
			d.StripPrefix = rule.Prefix
		}
		break
	}
	for _, rule := range conventions.SuffixRules {
		if !strings.HasSuffix(name, rule.Suffix) {
			continue
		}
		source := fmt.Sprintf("suffix rule %q", rule.Suffix)
		targets, err := resolveAll(ws, rule.Repos, source)
		if err != nil {
			return Decision{}, err
		}
		d.Repos = union(d.Repos, targets)
		d.Rules = append(d.Rules, source)
		break
	}
	if len(d.Rules) > 0 {
		d.Outcome = Matched
		return d, nil
	}

	switch {
	case conventions.DefaultRepo != "":
		target, err := resolve(ws, conventions.DefaultRepo, "default_repo")
		if err != nil {
			return Decision{}, err
		}
		d.Outcome = Defaulted
		d.Repos = []workspace.Repo{target}
	case conventions.AmbiguousPrompt:
		d.Outcome = NeedsSelection
		d.Candidates = append([]workspace.Repo(nil), repos...)
	default:
		d.Outcome = AllRepos
		d.Repos = append([]workspace.Repo(nil), repos...)
	}
	return d, nil
}

// StripFrom returns name without the decision's strip prefix. A name that
// is nothing but the prefix is returned unchanged.
func (d Decision) StripFrom(name string) string {
	if d.StripPrefix == "" {
		return name
	}
	if rest, ok := strings.CutPrefix(name, d.StripPrefix); ok && rest != "" {
		return rest
	}
	return name
}

func resolveAll(ws *workspace.Workspace, refs []string, source string) ([]workspace.Repo, error) {
	var out []workspace.Repo
	for _, ref := range refs {
		r, err := resolve(ws, ref, source)
		if err != nil {
			return nil, err
		}
		out = union(out, []workspace.Repo{r})
	}
	return out, nil
}

func resolve(ws *workspace.Workspace, ref, source string) (workspace.Repo, error) {
	r, err := ws.Lookup(ref)
	if errors.Is(err, workspace.ErrRepoNotFound) {
		return workspace.Repo{}, &UnknownRepoError{Ref: ref, Source: source, Suggestions: suggest(ref, ws.Refs())}
	}
	return r, err
}

// union appends the repos of b missing from a, by name.
func union(a, b []workspace.Repo) []workspace.Repo {
	for _, r := range b {
		seen := false
		for _, existing := range a {
			if existing.Name == r.Name {
				seen = true
				break
			}
		}
		if !seen {
			a = append(a, r)
		}
	}
	return a
}

func names(repos []workspace.Repo) []string {
	out := make([]string, len(repos))
	for i, r := range repos {
		out[i] = r.Name
	}
	return out
}
