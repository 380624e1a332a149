package executor

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/specify/internal/cmd"
	"github.com/spec-kit/specify/internal/git"
	"github.com/spec-kit/specify/internal/identity"
	"github.com/spec-kit/specify/internal/routing"
	"github.com/spec-kit/specify/internal/workspace"
)

func gitRun(t *testing.T, dir string, args ...string) {
	t.Helper()
	c := exec.Command("git", append([]string{"-C", dir}, args...)...)
	require.NoError(t, cmd.Run(c), "git %v", args)
}

// setupWorkspace creates root/<name> repositories with one commit each.
func setupWorkspace(t *testing.T, names ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, n := range names {
		dir := filepath.Join(root, n)
		require.NoError(t, os.MkdirAll(dir, 0755))
		gitRun(t, dir, "init", "-q", "-b", "main")
		gitRun(t, dir, "config", "user.email", "test@test.com")
		gitRun(t, dir, "config", "user.name", "Test User")
		gitRun(t, dir, "config", "commit.gpgsign", "false")
		gitRun(t, dir, "commit", "-q", "--allow-empty", "-m", "init")
	}
	return root
}

type fixedUser string

func (u fixedUser) Username(context.Context) (string, error)    { return string(u), nil }
func (u fixedUser) EmailPrefix(context.Context) (string, error) { return "", nil }

// noNames reports an empty scope, so numbering starts at 001.
type noNames struct{}

func (noNames) Names(context.Context, string) ([]string, error) { return nil, nil }

func resolve(t *testing.T, template, desc string) identity.ResolvedIdentity {
	t.Helper()
	r := &identity.Resolver{
		Variables: fixedUser("jane"),
		Allocator: identity.NewAllocator(noNames{}),
	}
	id, err := r.Resolve(context.Background(), template, desc)
	require.NoError(t, err)
	return id
}

func decision(names ...string) routing.Decision {
	d := routing.Decision{Outcome: routing.Override}
	for _, n := range names {
		d.Repos = append(d.Repos, workspace.Repo{Name: n, Path: n})
	}
	return d
}

func TestExecute_AllSucceed(t *testing.T) {
	t.Parallel()

	root := setupWorkspace(t, "backend", "frontend")
	tmpl := filepath.Join(root, "spec-template.md")
	require.NoError(t, os.WriteFile(tmpl, []byte("# Feature\n"), 0644))

	e := &Executor{Root: root, SpecsRoot: filepath.Join(root, "specs"), TemplateFile: tmpl}
	rep := e.Execute(context.Background(), resolve(t, "{number}-{short_name}", "Add login"), decision("backend", "frontend"))

	require.NoError(t, rep.Err())
	assert.Equal(t, "001-add-login", rep.Branch)
	assert.Equal(t, []string{"backend", "frontend"}, rep.Succeeded())
	for _, n := range []string{"backend", "frontend"} {
		assert.True(t, git.BranchExists(context.Background(), filepath.Join(root, n), "001-add-login"), n)
	}
	data, err := os.ReadFile(filepath.Join(root, "specs", "001-add-login", SpecFileName))
	require.NoError(t, err)
	assert.Equal(t, "# Feature\n", string(data))
	assert.Equal(t, filepath.Join(root, "specs", "001-add-login", SpecFileName), rep.SpecFile)
}

func TestExecute_PartialFailure(t *testing.T) {
	t.Parallel()

	root := setupWorkspace(t, "backend", "frontend")
	gitRun(t, filepath.Join(root, "backend"), "branch", "001-add-login")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0755))

	e := &Executor{Root: root, SpecsRoot: filepath.Join(root, "specs")}
	rep := e.Execute(context.Background(), resolve(t, "{number}-{short_name}", "Add login"), decision("backend", "docs", "frontend"))

	assert.Equal(t, []string{"frontend"}, rep.Succeeded(), "failures never abort siblings")
	err := rep.Err()
	require.Error(t, err)
	var roe *RepoOperationError
	require.ErrorAs(t, err, &roe)
	assert.Equal(t, "backend", roe.Repo)
	assert.Equal(t, "001-add-login", roe.Branch)
	assert.Contains(t, err.Error(), "repo docs")

	assert.FileExists(t, rep.SpecFile, "spec dir is created when one repo succeeded")
	info, err := os.Stat(rep.SpecFile)
	require.NoError(t, err)
	assert.Zero(t, info.Size(), "no template means an empty spec.md")
}

func TestExecute_AllFail(t *testing.T) {
	t.Parallel()

	root := setupWorkspace(t, "backend")
	gitRun(t, filepath.Join(root, "backend"), "branch", "001-x")

	e := &Executor{Root: root, SpecsRoot: filepath.Join(root, "specs")}
	rep := e.Execute(context.Background(), resolve(t, "{number}-{short_name}", "x"), decision("backend"))

	assert.Error(t, rep.Err())
	assert.Empty(t, rep.Succeeded())
	assert.NoDirExists(t, rep.SpecDir)
}

func TestExecute_PlainDirInsideRootRepo(t *testing.T) {
	t.Parallel()

	root := setupWorkspace(t, ".")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "backend"), 0755))

	e := &Executor{Root: root, SpecsRoot: filepath.Join(root, "specs")}
	rep := e.Execute(context.Background(), resolve(t, "{number}-{short_name}", "x"), decision("backend"))

	err := rep.Err()
	require.Error(t, err)
	var roe *RepoOperationError
	require.ErrorAs(t, err, &roe)
	assert.Equal(t, "backend", roe.Repo)
	assert.Contains(t, err.Error(), "not a git repository")
	assert.False(t, git.BranchExists(context.Background(), root, "001-x"), "enclosing repository must stay untouched")
	assert.NoDirExists(t, rep.SpecDir)
}

func TestExecute_NoTargets(t *testing.T) {
	t.Parallel()

	root := setupWorkspace(t)
	e := &Executor{Root: root, SpecsRoot: filepath.Join(root, "specs")}
	rep := e.Execute(context.Background(), resolve(t, "{number}-{short_name}", "x"), decision())

	require.ErrorIs(t, rep.Err(), ErrNoTargets)
	assert.Empty(t, rep.Results)
	assert.NoDirExists(t, filepath.Join(root, "specs"))
}

func TestExecute_DryRun(t *testing.T) {
	t.Parallel()

	root := setupWorkspace(t, "backend", "frontend")
	gitRun(t, filepath.Join(root, "frontend"), "branch", "001-add-login")

	e := &Executor{Root: root, SpecsRoot: filepath.Join(root, "specs"), DryRun: true}
	rep := e.Execute(context.Background(), resolve(t, "{number}-{short_name}", "Add login"), decision("backend", "frontend"))

	assert.True(t, rep.DryRun)
	assert.Equal(t, []string{"backend"}, rep.Succeeded())
	assert.True(t, errors.Is(rep.Err(), ErrBranchExists))
	assert.False(t, git.BranchExists(context.Background(), filepath.Join(root, "backend"), "001-add-login"))
	assert.NoDirExists(t, filepath.Join(root, "specs"))
}

func TestExecute_StripPrefixAndScope(t *testing.T) {
	t.Parallel()

	root := setupWorkspace(t, "backend")
	d := decision("backend")
	d.StripPrefix = "backend-"

	e := &Executor{Root: root, SpecsRoot: filepath.Join(root, "specs")}
	rep := e.Execute(context.Background(), resolve(t, "{username}/{number}-{short_name}", "backend auth"), d)

	require.NoError(t, rep.Err())
	assert.Equal(t, "jane/001-backend-auth", rep.Identifier)
	assert.Equal(t, "jane/001-auth", rep.Branch)
	assert.DirExists(t, filepath.Join(root, "specs", "jane", "001-auth"))
}

func TestExecute_KeepsExistingSpec(t *testing.T) {
	t.Parallel()

	root := setupWorkspace(t, "backend")
	specDir := filepath.Join(root, "specs", "001-x")
	require.NoError(t, os.MkdirAll(specDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(specDir, SpecFileName), []byte("mine"), 0644))
	tmpl := filepath.Join(root, "tmpl.md")
	require.NoError(t, os.WriteFile(tmpl, []byte("template"), 0644))

	e := &Executor{Root: root, SpecsRoot: filepath.Join(root, "specs"), TemplateFile: tmpl}
	rep := e.Execute(context.Background(), resolve(t, "{number}-{short_name}", "x"), decision("backend"))
	require.NoError(t, rep.Err())

	data, err := os.ReadFile(filepath.Join(specDir, SpecFileName))
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))
}

func TestBranchName(t *testing.T) {
	t.Parallel()

	id := resolve(t, "{number}-{short_name}", "backend")
	d := routing.Decision{StripPrefix: "backend-"}
	got, err := BranchName(id, d)
	require.NoError(t, err)
	assert.Equal(t, "001-backend", got, "short name without the full prefix is kept")

	id = resolve(t, "{number}-{short_name}", "backend payments")
	got, err = BranchName(id, d)
	require.NoError(t, err)
	assert.Equal(t, "001-payments", got)

	got, err = BranchName(id, routing.Decision{})
	require.NoError(t, err)
	assert.Equal(t, "001-backend-payments", got)
}

func TestExecute_Cancelled(t *testing.T) {
	t.Parallel()

	root := setupWorkspace(t, "backend")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := &Executor{Root: root, SpecsRoot: filepath.Join(root, "specs")}
	rep := e.Execute(ctx, resolve(t, "{number}-{short_name}", "x"), decision("backend"))
	assert.ErrorIs(t, rep.Err(), context.Canceled)
}

func TestTemplatePath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, filepath.Join("root", ".specify", "templates", "spec-template.md"), TemplatePath("root"))
}
