package identity

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spec-kit/specify/internal/git"
	"github.com/spec-kit/specify/internal/log"
)

// Source lists names that may already carry a number.
type Source interface {
	// Names returns candidate names for scope. Sources may return names
	// outside the scope; the allocator filters them.
	Names(ctx context.Context, scope string) ([]string, error)
}

// refresher is implemented by sources that can update themselves from a
// remote before being scanned.
type refresher interface {
	Refresh(ctx context.Context) error
}

// BranchSource lists the local and remote-tracking branches of a repository.
type BranchSource struct {
	Repo string
	// Fetch refreshes remotes before the first scan.
	Fetch bool
}

func (s BranchSource) Names(ctx context.Context, _ string) ([]string, error) {
	local, err := git.LocalBranches(ctx, s.Repo)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Repo, err)
	}
	remote, err := git.RemoteBranches(ctx, s.Repo)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Repo, err)
	}
	return append(local, remote...), nil
}

func (s BranchSource) Refresh(ctx context.Context) error {
	if !s.Fetch {
		return nil
	}
	return git.Fetch(ctx, s.Repo)
}

// SpecDirSource lists spec directories below Dir. A scope containing
// slashes is matched against directories nested to the same depth, so
// scope "jane/" sees Dir/jane/001-x as "jane/001-x".
type SpecDirSource struct {
	Dir string
}

func (s SpecDirSource) Names(_ context.Context, scope string) ([]string, error) {
	depth := strings.Count(scope, "/") + 1
	names, err := listDirs(s.Dir, "", depth)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return names, err
}

// listDirs returns slash-joined relative paths of directories exactly depth
// levels below dir.
func listDirs(dir, rel string, depth int) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := path.Join(rel, e.Name())
		if depth == 1 {
			names = append(names, name)
			continue
		}
		sub, err := listDirs(filepath.Join(dir, e.Name()), name, depth-1)
		if err != nil {
			return nil, err
		}
		names = append(names, sub...)
	}
	return names, nil
}

// Allocator computes the next free number within a scope. There is no
// durable counter: every call rescans its sources.
type Allocator struct {
	Sources []Source

	refreshed bool
}

// NewAllocator returns an allocator over sources.
func NewAllocator(sources ...Source) *Allocator {
	return &Allocator{Sources: sources}
}

// NextNumber returns one more than the highest number found directly after
// scope in any source name, or 1 when there is none. Sources that can
// refresh from a remote do so once per allocator; a failed refresh is logged
// as a warning and the scan continues with local state.
func (a *Allocator) NextNumber(ctx context.Context, scope string) (int, error) {
	if !a.refreshed {
		a.refresh(ctx)
	}

	highest := 0
	for _, src := range a.Sources {
		names, err := src.Names(ctx, scope)
		if err != nil {
			return 0, fmt.Errorf("failed to scan existing names: %w", err)
		}
		for _, name := range names {
			if n, ok := NumberIn(name, scope); ok && n > highest {
				highest = n
			}
		}
	}
	log.FromContext(ctx).Debug("allocated number", "scope", scope, "highest", highest)
	return highest + 1, nil
}

func (a *Allocator) refresh(ctx context.Context) {
	a.refreshed = true
	l := log.FromContext(ctx)
	for _, src := range a.Sources {
		r, ok := src.(refresher)
		if !ok {
			continue
		}
		if err := r.Refresh(ctx); err != nil {
			l.Warnf("could not refresh remote branches, numbering uses local state: %v", err)
		}
	}
}

// NumberIn extracts the run of digits that immediately follows scope in
// name. It reports false when name is outside the scope or no digit follows.
func NumberIn(name, scope string) (int, bool) {
	rest, ok := strings.CutPrefix(name, scope)
	if !ok {
		return 0, false
	}
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(rest[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
