package routing

import (
	"errors"

	"github.com/spec-kit/specify/internal/workspace"
)

// ErrSelectionCancelled is returned when the user aborts a selection.
var ErrSelectionCancelled = errors.New("repository selection cancelled")

// Selector asks the user to choose among candidates. Returning every
// candidate is a valid answer.
type Selector interface {
	Select(name string, candidates []workspace.Repo) ([]workspace.Repo, error)
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc func(name string, candidates []workspace.Repo) ([]workspace.Repo, error)

func (f SelectorFunc) Select(name string, candidates []workspace.Repo) ([]workspace.Repo, error) {
	return f(name, candidates)
}

// Settle resolves a decision that needs a selection. Other decisions are
// returned unchanged. The outcome of a settled decision stays
// NeedsSelection so reports can tell the targets were chosen by hand. With a
// nil selector a NeedsSelection decision fails with AmbiguousRoutingError.
func Settle(d Decision, sel Selector) (Decision, error) {
	if d.Outcome != NeedsSelection {
		return d, nil
	}
	if sel == nil {
		return Decision{}, &AmbiguousRoutingError{Name: d.Name, Candidates: names(d.Candidates)}
	}
	chosen, err := sel.Select(d.Name, d.Candidates)
	if err != nil {
		return Decision{}, err
	}
	if len(chosen) == 0 {
		return Decision{}, ErrSelectionCancelled
	}
	d.Repos = union(nil, chosen)
	return d, nil
}
