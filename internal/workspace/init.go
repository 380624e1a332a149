package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spec-kit/specify/internal/git"
	"github.com/spec-kit/specify/internal/log"
	"github.com/spec-kit/specify/internal/settings"
)

// ErrWorkspaceExists is returned by Init when a workspace file is present
// and Force was not requested.
var ErrWorkspaceExists = errors.New("workspace already initialized")

// InitOptions control Init.
type InitOptions struct {
	Depth         int  // discovery depth, DefaultDepth when zero
	AutoInitRepos bool // git init top-level directories that are not repositories
	Force         bool // overwrite an existing workspace file
}

// Init creates a workspace at dir: it discovers repositories, writes the
// workspace file with one prefix rule per repository and prompting for
// ambiguous routes, and creates the shared specs directory.
func Init(ctx context.Context, dir string, opts InitOptions) (*Workspace, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}
	if !opts.Force && IsWorkspace(root) {
		return nil, fmt.Errorf("%w: %s", ErrWorkspaceExists, Path(root))
	}
	if opts.Depth == 0 {
		opts.Depth = DefaultDepth
	}

	if opts.AutoInitRepos {
		if err := initChildRepos(ctx, root); err != nil {
			return nil, err
		}
	}

	repos, err := Discover(root, opts.Depth, settings.DefaultSpecsDir)
	if err != nil {
		return nil, err
	}

	ws := &Workspace{
		Version:  Version,
		Name:     filepath.Base(root),
		SpecsDir: settings.DefaultSpecsDir,
		Repos:    repos,
		Root:     root,
		Conventions: Conventions{
			AmbiguousPrompt: true,
		},
	}
	for _, r := range repos {
		ws.Conventions.PrefixRules = append(ws.Conventions.PrefixRules, PrefixRule{
			Prefix: filepath.Base(r.Path) + "-",
			Repos:  []string{r.Name},
		})
	}

	if err := os.MkdirAll(ws.SpecsRoot(), 0755); err != nil {
		return nil, fmt.Errorf("create specs directory: %w", err)
	}
	if err := ws.Save(); err != nil {
		return nil, err
	}
	log.FromContext(ctx).Debug("workspace initialized", "root", root, "repos", len(repos))
	return ws, nil
}

func initChildRepos(ctx context.Context, root string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", root, err)
	}
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") || e.Name() == settings.DefaultSpecsDir {
			continue
		}
		child := filepath.Join(root, e.Name())
		if git.IsRepo(child) {
			continue
		}
		if err := git.Init(ctx, child); err != nil {
			return err
		}
		log.FromContext(ctx).Printf("Initialized git repository in %s\n", child)
	}
	return nil
}
