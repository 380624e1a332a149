package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spec-kit/specify/internal/executor"
	"github.com/spec-kit/specify/internal/git"
	"github.com/spec-kit/specify/internal/identity"
	"github.com/spec-kit/specify/internal/settings"
	"github.com/spec-kit/specify/internal/workspace"
)

// project is the context a command runs in: a workspace, or a single git
// repository presented as a workspace with one member.
type project struct {
	Root      string
	Workspace *workspace.Workspace
	Settings  settings.Settings
	// Single is set outside a workspace.
	Single bool
}

// loadProject finds the workspace containing dir, falling back to the git
// repository containing it.
func loadProject(ctx context.Context, dir string) (*project, error) {
	if root, ok := workspace.Find(dir); ok {
		ws, err := workspace.Load(root)
		if err != nil {
			return nil, err
		}
		s, err := settings.Load(ws.Root)
		if err != nil {
			return nil, err
		}
		return &project{Root: ws.Root, Workspace: ws, Settings: s}, nil
	}

	root, err := git.RepoRoot(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("%s is not inside a git repository or workspace (see 'specify workspace init'): %w", dir, err)
	}
	s, err := settings.Load(root)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(root)
	ws := &workspace.Workspace{
		Version:  workspace.Version,
		Name:     name,
		SpecsDir: filepath.ToSlash(s.SpecsDir),
		Repos:    []workspace.Repo{{Name: name, Path: "."}},
		Root:     root,
	}
	return &project{Root: root, Workspace: ws, Settings: s, Single: true}, nil
}

// projectRoot returns the directory settings belong to: the workspace root,
// the repository root, or dir itself.
func projectRoot(ctx context.Context, dir string) string {
	if root, ok := workspace.Find(dir); ok {
		return root
	}
	if root, err := git.RepoRoot(ctx, dir); err == nil {
		return root
	}
	return dir
}

// specsRoot returns the absolute specs directory. SPECIFY_SPEC_DIR wins,
// then the workspace's specs_dir, then the settings file.
func (p *project) specsRoot() string {
	if p.Single || os.Getenv(settings.EnvSpecDir) != "" {
		return filepath.Join(p.Root, filepath.FromSlash(p.Settings.SpecsDir))
	}
	return p.Workspace.SpecsRoot()
}

// resolver allocates numbers across every member repository and the specs
// directory. With fetch set each repository is fetched once first.
func (p *project) resolver(fetch bool) *identity.Resolver {
	var sources []identity.Source
	for _, r := range p.Workspace.Repos {
		sources = append(sources, identity.BranchSource{Repo: p.Workspace.RepoPath(r), Fetch: fetch})
	}
	sources = append(sources, identity.SpecDirSource{Dir: p.specsRoot()})

	return &identity.Resolver{
		Variables: identity.GitVariables{Dir: p.Root},
		Allocator: identity.NewAllocator(sources...),
	}
}

func (p *project) executor(dryRun bool) *executor.Executor {
	return &executor.Executor{
		Root:         p.Root,
		SpecsRoot:    p.specsRoot(),
		TemplateFile: executor.TemplatePath(p.Root),
		DryRun:       dryRun,
	}
}
