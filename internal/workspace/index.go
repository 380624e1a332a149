package workspace

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// ErrRepoNotFound is returned when a name or alias matches no repository.
var ErrRepoNotFound = errors.New("repo not found")

// AmbiguousAliasError reports an alias shared by several repositories.
type AmbiguousAliasError struct {
	Alias string
	Repos []string
}

func (e *AmbiguousAliasError) Error() string {
	return fmt.Sprintf("alias %q matches several repos: %s (use the full name)", e.Alias, strings.Join(e.Repos, ", "))
}

// Lookup resolves a repository name or alias. Names win over aliases; an
// alias must identify exactly one repository.
func (ws *Workspace) Lookup(ref string) (Repo, error) {
	for _, r := range ws.Repos {
		if r.Name == ref {
			return r, nil
		}
	}

	var matches []Repo
	for _, r := range ws.Repos {
		if slices.Contains(r.Aliases, ref) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 0:
		return Repo{}, fmt.Errorf("%w: %s", ErrRepoNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return Repo{}, &AmbiguousAliasError{Alias: ref, Repos: names}
	}
}

// Names returns all repository names in file order.
func (ws *Workspace) Names() []string {
	names := make([]string, len(ws.Repos))
	for i, r := range ws.Repos {
		names[i] = r.Name
	}
	return names
}

// Refs returns every name and alias, deduplicated, for suggestions.
func (ws *Workspace) Refs() []string {
	var refs []string
	for _, r := range ws.Repos {
		if !slices.Contains(refs, r.Name) {
			refs = append(refs, r.Name)
		}
		for _, a := range r.Aliases {
			if !slices.Contains(refs, a) {
				refs = append(refs, a)
			}
		}
	}
	return refs
}

// Add registers a repository. The path may be absolute (inside the root)
// or relative to the root. Duplicate paths and names are rejected.
func (ws *Workspace) Add(repo Repo) error {
	rel, err := ws.relPath(repo.Path)
	if err != nil {
		return err
	}
	repo.Path = rel
	if repo.Name == "" {
		repo.Name = path.Base(rel)
	}

	// Check for duplicate path
	for _, existing := range ws.Repos {
		if existing.Path == repo.Path {
			return fmt.Errorf("repo already registered: %s", repo.Path)
		}
	}

	// Check for duplicate name
	for _, existing := range ws.Repos {
		if existing.Name == repo.Name {
			return fmt.Errorf("repo name already exists: %s", repo.Name)
		}
	}

	ws.Repos = append(ws.Repos, repo)
	return nil
}

// Remove unregisters a repository by name or path.
func (ws *Workspace) Remove(nameOrPath string) error {
	for i, r := range ws.Repos {
		if r.Name == nameOrPath || r.Path == nameOrPath {
			ws.Repos = slices.Delete(ws.Repos, i, i+1)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrRepoNotFound, nameOrPath)
}

func (ws *Workspace) relPath(p string) (string, error) {
	if !filepath.IsAbs(p) {
		p = filepath.Join(ws.Root, p)
	}
	rel, err := filepath.Rel(ws.Root, p)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("repo %s is outside the workspace %s", p, ws.Root)
	}
	return filepath.ToSlash(rel), nil
}
