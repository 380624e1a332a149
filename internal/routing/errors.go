package routing

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// UnknownRepoError reports a repository reference that matches no name or
// alias in the workspace.
type UnknownRepoError struct {
	Ref         string
	Source      string // where the reference came from, e.g. --repo or a rule
	Suggestions []string
}

func (e *UnknownRepoError) Error() string {
	msg := fmt.Sprintf("unknown repo %q in %s", e.Ref, e.Source)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// AmbiguousRoutingError reports a decision that needs a selection when no
// one can be asked.
type AmbiguousRoutingError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguousRoutingError) Error() string {
	return fmt.Sprintf("no convention matches %q and prompting is unavailable; choose with --repo from: %s",
		e.Name, strings.Join(e.Candidates, ", "))
}

// maxSuggestions caps "did you mean" lists.
const maxSuggestions = 3

// suggest ranks refs by fuzzy similarity to ref, then adds refs that ref
// contains (a typo after a correct prefix still finds the repo).
func suggest(ref string, refs []string) []string {
	var out []string
	add := func(s string) {
		for _, o := range out {
			if o == s {
				return
			}
		}
		out = append(out, s)
	}

	for _, m := range fuzzy.Find(strings.ToLower(ref), refs) {
		add(m.Str)
	}
	lower := strings.ToLower(ref)
	for _, r := range refs {
		if len(r) > 1 && strings.Contains(lower, strings.ToLower(r)) {
			add(r)
		}
	}
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}
