package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// resolveTempDir creates a temp directory and resolves macOS symlinks.
func resolveTempDir(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("failed to resolve symlinks for %s: %v", tmpDir, err)
	}
	return resolved
}

// configureTestRepo sets git user config and disables GPG signing.
func configureTestRepo(t *testing.T, repoPath string) {
	t.Helper()
	ctx := context.Background()
	for _, args := range [][]string{
		{"config", "user.email", "test@test.com"},
		{"config", "user.name", "Test User"},
		{"config", "commit.gpgsign", "false"},
	} {
		if err := runGit(ctx, repoPath, args...); err != nil {
			t.Fatalf("failed to run git %v: %v", args, err)
		}
	}
}

// setupTestRepo creates a git repo with main branch, initial commit, and git config.
// Returns the resolved repo path.
func setupTestRepo(t *testing.T) string {
	t.Helper()
	tmpDir := resolveTempDir(t)
	repoPath := filepath.Join(tmpDir, "test-repo")

	ctx := context.Background()
	if err := runGit(ctx, "", "init", "-b", "main", repoPath); err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}

	configureTestRepo(t, repoPath)

	// Create initial commit
	readme := filepath.Join(repoPath, "README.md")
	if err := os.WriteFile(readme, []byte("# test\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := runGit(ctx, repoPath, "add", "README.md"); err != nil {
		t.Fatalf("failed to add file: %v", err)
	}
	if err := runGit(ctx, repoPath, "commit", "-m", "Initial commit"); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}

	return repoPath
}

// assertContains checks that all wanted items exist in the got slice.
func assertContains(t *testing.T, got []string, want ...string) {
	t.Helper()
	set := make(map[string]bool, len(got))
	for _, s := range got {
		set[s] = true
	}
	for _, w := range want {
		if !set[w] {
			t.Errorf("missing %q in %v", w, got)
		}
	}
}

// setupTestRepoWithOrigin creates a repo with a bare origin remote.
// Returns (repoPath, originPath).
func setupTestRepoWithOrigin(t *testing.T) (string, string) {
	t.Helper()
	tmpDir := resolveTempDir(t)

	originPath := filepath.Join(tmpDir, "origin.git")
	repoPath := filepath.Join(tmpDir, "repo")

	ctx := context.Background()

	// Create bare origin (-b main ensures consistent default branch across git versions)
	if err := runGit(ctx, "", "init", "--bare", "-b", "main", originPath); err != nil {
		t.Fatalf("failed to init bare repo: %v", err)
	}

	// Clone from bare origin
	if err := runGit(ctx, "", "clone", originPath, repoPath); err != nil {
		t.Fatalf("failed to clone: %v", err)
	}

	configureTestRepo(t, repoPath)

	// Create initial commit and push
	readme := filepath.Join(repoPath, "README.md")
	if err := os.WriteFile(readme, []byte("# test\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := runGit(ctx, repoPath, "add", "README.md"); err != nil {
		t.Fatalf("failed to add: %v", err)
	}
	if err := runGit(ctx, repoPath, "commit", "-m", "Initial commit"); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
	if err := runGit(ctx, repoPath, "push", "-u", "origin", "HEAD"); err != nil {
		t.Fatalf("failed to push: %v", err)
	}

	return repoPath, originPath
}

func TestLocalBranches(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	ctx := context.Background()
	for _, b := range []string{"001-first", "jane/002-second"} {
		if err := runGit(ctx, repoPath, "branch", b); err != nil {
			t.Fatalf("failed to create branch %s: %v", b, err)
		}
	}

	got, err := LocalBranches(ctx, repoPath)
	if err != nil {
		t.Fatalf("LocalBranches() error = %v", err)
	}
	assertContains(t, got, "main", "001-first", "jane/002-second")
	if len(got) != 3 {
		t.Errorf("LocalBranches() = %v, want 3 branches", got)
	}
}

func TestLocalBranches_Unborn(t *testing.T) {
	t.Parallel()

	repoPath := filepath.Join(resolveTempDir(t), "empty")
	if err := runGit(context.Background(), "", "init", "-b", "main", repoPath); err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}

	got, err := LocalBranches(context.Background(), repoPath)
	if err != nil {
		t.Fatalf("LocalBranches() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("LocalBranches() = %v, want none", got)
	}
}

func TestRemoteBranches(t *testing.T) {
	t.Parallel()

	repoPath, _ := setupTestRepoWithOrigin(t)
	ctx := context.Background()
	if err := runGit(ctx, repoPath, "push", "origin", "HEAD:refs/heads/john/003-remote"); err != nil {
		t.Fatalf("failed to push: %v", err)
	}
	if err := runGit(ctx, repoPath, "fetch", "origin"); err != nil {
		t.Fatalf("failed to fetch: %v", err)
	}

	got, err := RemoteBranches(ctx, repoPath)
	if err != nil {
		t.Fatalf("RemoteBranches() error = %v", err)
	}
	assertContains(t, got, "main", "john/003-remote")
	for _, name := range got {
		if name == "HEAD" || strings.HasPrefix(name, "origin/") {
			t.Errorf("RemoteBranches() returned unstripped ref %q", name)
		}
	}
}

func TestFetch(t *testing.T) {
	t.Parallel()

	repoPath, originPath := setupTestRepoWithOrigin(t)
	ctx := context.Background()

	// Push a branch from a second clone so only a fetch can see it.
	other := filepath.Join(filepath.Dir(originPath), "other")
	if err := runGit(ctx, "", "clone", "-q", originPath, other); err != nil {
		t.Fatalf("failed to clone: %v", err)
	}
	if err := runGit(ctx, other, "push", "-q", "origin", "HEAD:refs/heads/007-elsewhere"); err != nil {
		t.Fatalf("failed to push: %v", err)
	}

	if err := Fetch(ctx, repoPath); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	got, err := RemoteBranches(ctx, repoPath)
	if err != nil {
		t.Fatalf("RemoteBranches() error = %v", err)
	}
	assertContains(t, got, "007-elsewhere")
}

func TestFetch_BadRemoteFailsFast(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	ctx := context.Background()
	missing := filepath.Join(filepath.Dir(repoPath), "does-not-exist.git")
	if err := runGit(ctx, repoPath, "remote", "add", "origin", missing); err != nil {
		t.Fatalf("failed to add remote: %v", err)
	}

	start := time.Now()
	err := Fetch(ctx, repoPath)
	if err == nil {
		t.Fatal("Fetch() error = nil, want error for missing remote")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Fetch() took %v, want permanent failure without retries", elapsed)
	}
}

func TestIsTransientFetchError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		msg  string
		want bool
	}{
		{"fatal: unable to access 'https://x/': Could not resolve host: x", true},
		{"fatal: the remote end hung up unexpectedly", true},
		{"fatal: 'origin' does not appear to be a git repository", false},
		{"Permission denied (publickey).", false},
	}
	for _, tt := range tests {
		if got := isTransientFetchError(errors.New(tt.msg)); got != tt.want {
			t.Errorf("isTransientFetchError(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
	if isTransientFetchError(context.Canceled) {
		t.Error("context.Canceled must not be retried")
	}
}

func TestCreateBranch(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	ctx := context.Background()

	if err := CreateBranch(ctx, repoPath, "jane/001-add-login"); err != nil {
		t.Fatalf("CreateBranch() error = %v", err)
	}
	if !BranchExists(ctx, repoPath, "jane/001-add-login") {
		t.Error("BranchExists() = false after CreateBranch")
	}
	out, err := outputGit(ctx, repoPath, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		t.Fatalf("rev-parse: %v", err)
	}
	if got := strings.TrimSpace(string(out)); got != "jane/001-add-login" {
		t.Errorf("HEAD = %q, want jane/001-add-login", got)
	}

	err = CreateBranch(ctx, repoPath, "jane/001-add-login")
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("CreateBranch(existing) error = %v, want 'already exists'", err)
	}
}

func TestBranchExists_Missing(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	if BranchExists(context.Background(), repoPath, "nope") {
		t.Error("BranchExists(nope) = true, want false")
	}
}

func TestConfigValue(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	ctx := context.Background()

	got, err := ConfigValue(ctx, repoPath, "user.name")
	if err != nil {
		t.Fatalf("ConfigValue() error = %v", err)
	}
	if got != "Test User" {
		t.Errorf("ConfigValue(user.name) = %q, want %q", got, "Test User")
	}

	got, err = ConfigValue(ctx, repoPath, "specify.unset-key")
	if err != nil {
		t.Fatalf("ConfigValue(unset) error = %v", err)
	}
	if got != "" {
		t.Errorf("ConfigValue(unset) = %q, want empty", got)
	}
}

func TestRepoRootAndIsRepo(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	sub := filepath.Join(repoPath, "a", "b")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	root, err := RepoRoot(context.Background(), sub)
	if err != nil {
		t.Fatalf("RepoRoot() error = %v", err)
	}
	if root != repoPath {
		t.Errorf("RepoRoot() = %q, want %q", root, repoPath)
	}
	if !IsRepo(repoPath) {
		t.Error("IsRepo(repo) = false")
	}
	if IsRepo(sub) {
		t.Error("IsRepo(subdir) = true")
	}
	if !IsInsideRepoPath(context.Background(), sub) {
		t.Error("IsInsideRepoPath(subdir) = false")
	}

	if _, err := RepoRoot(context.Background(), resolveTempDir(t)); err == nil {
		t.Error("RepoRoot(non-repo) error = nil")
	}
}

func TestInit(t *testing.T) {
	t.Parallel()

	dir := resolveTempDir(t)
	if err := Init(context.Background(), dir); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if !IsRepo(dir) {
		t.Error("IsRepo() = false after Init")
	}
}
