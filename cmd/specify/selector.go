package main

import (
	"fmt"
	"strings"

	"github.com/spec-kit/specify/internal/routing"
	"github.com/spec-kit/specify/internal/ui/prompt"
	"github.com/spec-kit/specify/internal/workspace"
)

const allReposLabel = "All repositories"

// selectOptions lists "all repositories" first, then each candidate.
func selectOptions(candidates []workspace.Repo) []prompt.Option {
	names := make([]string, len(candidates))
	for i, r := range candidates {
		names[i] = r.Name
	}
	opts := []prompt.Option{{Label: allReposLabel, Detail: strings.Join(names, ", ")}}
	for _, r := range candidates {
		opts = append(opts, prompt.Option{Label: r.Name, Detail: r.Path})
	}
	return opts
}

// chosenRepos maps a selected option index back to repositories.
func chosenRepos(candidates []workspace.Repo, index int) []workspace.Repo {
	if index == 0 {
		return candidates
	}
	if index < 1 || index > len(candidates) {
		return nil
	}
	return []workspace.Repo{candidates[index-1]}
}

// promptSelector asks on the terminal which repositories a feature that
// matches no convention belongs to.
func promptSelector() routing.Selector {
	return routing.SelectorFunc(func(name string, candidates []workspace.Repo) ([]workspace.Repo, error) {
		res, err := prompt.Select(fmt.Sprintf("No convention matches %q. Create the branch in:", name), selectOptions(candidates))
		if err != nil {
			return nil, err
		}
		if res.Cancelled {
			return nil, routing.ErrSelectionCancelled
		}
		return chosenRepos(candidates, res.Index), nil
	})
}
