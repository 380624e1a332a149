// Package executor applies a resolved identifier to the repositories a
// routing decision selected: it creates the branch in each one and the spec
// directory in the shared specs root.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spec-kit/specify/internal/git"
	"github.com/spec-kit/specify/internal/identity"
	"github.com/spec-kit/specify/internal/log"
	"github.com/spec-kit/specify/internal/refname"
	"github.com/spec-kit/specify/internal/routing"
	"github.com/spec-kit/specify/internal/settings"
	"github.com/spec-kit/specify/internal/workspace"
)

// SpecFileName is the file created in every spec directory.
const SpecFileName = "spec.md"

// TemplatePath returns the spec template location for a project root.
func TemplatePath(root string) string {
	return filepath.Join(root, settings.Dir, "templates", "spec-template.md")
}

// RepoOperationError reports a failure in one target repository. It never
// stops the remaining repositories.
type RepoOperationError struct {
	Repo   string
	Branch string
	Err    error
}

func (e *RepoOperationError) Error() string {
	return fmt.Sprintf("repo %s: branch %s: %v", e.Repo, e.Branch, e.Err)
}

func (e *RepoOperationError) Unwrap() error { return e.Err }

// ErrBranchExists is reported by dry runs for branches that already exist.
var ErrBranchExists = errors.New("branch already exists")

// ErrNoTargets is returned when a decision names no repositories.
var ErrNoTargets = errors.New("no target repositories")

// Result is the outcome for one repository.
type Result struct {
	Repo string
	Path string
	Err  error // *RepoOperationError or nil
}

// Report summarizes an execution.
type Report struct {
	Identifier string
	Branch     string
	SpecDir    string
	SpecFile   string
	DryRun     bool
	Results    []Result

	// SpecErr is set when the spec directory could not be prepared.
	SpecErr error
	// setupErr is set when nothing could be attempted.
	setupErr error
}

// Succeeded returns the repositories where the branch was created.
func (r Report) Succeeded() []string {
	var out []string
	for _, res := range r.Results {
		if res.Err == nil {
			out = append(out, res.Repo)
		}
	}
	return out
}

// Err joins every failure in the report, or returns nil.
func (r Report) Err() error {
	errs := []error{r.setupErr}
	for _, res := range r.Results {
		errs = append(errs, res.Err)
	}
	errs = append(errs, r.SpecErr)
	return errors.Join(errs...)
}

// Executor creates branches and spec directories.
type Executor struct {
	// Root resolves relative repository paths: the workspace root, or the
	// repository itself in single-repo mode.
	Root string
	// SpecsRoot is the absolute directory spec directories are created in.
	SpecsRoot string
	// TemplateFile is copied to each new spec.md when it exists.
	TemplateFile string
	// DryRun reports what would happen without changing anything.
	DryRun bool
}

// BranchName returns the branch for id under decision d: the identifier,
// re-rendered with the strip prefix removed from its short name.
func BranchName(id identity.ResolvedIdentity, d routing.Decision) (string, error) {
	short := id.ShortName()
	stripped := d.StripFrom(short)
	if stripped == short {
		return id.Identifier, nil
	}
	branch := id.Render(map[string]string{identity.PlaceholderShortName: stripped})
	if v := refname.Check(branch); v != nil {
		return "", &identity.InvalidIdentifierError{Identifier: branch, Violation: v}
	}
	return branch, nil
}

// Execute creates the branch in every repository of d, in order. A failure
// in one repository is recorded and the next one is still attempted. The
// spec directory is created once at least one branch exists.
func (e *Executor) Execute(ctx context.Context, id identity.ResolvedIdentity, d routing.Decision) Report {
	rep := Report{Identifier: id.Identifier, DryRun: e.DryRun}
	if len(d.Repos) == 0 {
		rep.setupErr = ErrNoTargets
		return rep
	}

	branch, err := BranchName(id, d)
	if err != nil {
		rep.setupErr = err
		return rep
	}
	rep.Branch = branch
	rep.SpecDir = filepath.Join(e.SpecsRoot, filepath.FromSlash(branch))
	rep.SpecFile = filepath.Join(rep.SpecDir, SpecFileName)

	l := log.FromContext(ctx)
	for _, repo := range d.Repos {
		path := filepath.Join(e.Root, filepath.FromSlash(repo.Path))
		res := Result{Repo: repo.Name, Path: path}
		if err := e.createBranch(ctx, repo, path, branch); err != nil {
			res.Err = &RepoOperationError{Repo: repo.Name, Branch: branch, Err: err}
			l.Debug("branch failed", "repo", repo.Name, "err", err)
		}
		rep.Results = append(rep.Results, res)
	}

	if len(rep.Succeeded()) == 0 || e.DryRun {
		return rep
	}
	if err := e.createSpec(rep.SpecDir, rep.SpecFile); err != nil {
		rep.SpecErr = fmt.Errorf("spec directory %s: %w", rep.SpecDir, err)
	}
	return rep
}

func (e *Executor) createBranch(ctx context.Context, repo workspace.Repo, path, branch string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// A plain subdirectory of another repository must not resolve to it.
	if !git.IsRepo(path) || !git.IsInsideRepoPath(ctx, path) {
		return fmt.Errorf("%s is not a git repository", path)
	}
	if e.DryRun {
		if git.BranchExists(ctx, path, branch) {
			return ErrBranchExists
		}
		return nil
	}
	return git.CreateBranch(ctx, path, branch)
}

// createSpec makes the spec directory and seeds spec.md from the template.
// An existing spec.md is never overwritten.
func (e *Executor) createSpec(dir, file string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if _, err := os.Stat(file); err == nil {
		return nil
	}

	dst, err := os.OpenFile(file, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if e.TemplateFile == "" {
		return dst.Close()
	}
	src, err := os.Open(e.TemplateFile)
	if errors.Is(err, os.ErrNotExist) {
		return dst.Close()
	}
	if err != nil {
		dst.Close()
		return err
	}
	defer src.Close()

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
