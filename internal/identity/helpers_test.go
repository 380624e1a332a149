package identity

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/specify/internal/cmd"
)

func gitRun(t *testing.T, dir string, args ...string) {
	t.Helper()
	c := exec.Command("git", append([]string{"-C", dir}, args...)...)
	require.NoError(t, cmd.Run(c), "git %v", args)
}

// setupRepo creates a repository with one commit on main and the given
// extra branches.
func setupRepo(t *testing.T, branches ...string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "repo")
	require.NoError(t, os.MkdirAll(dir, 0755))
	gitRun(t, dir, "init", "-q", "-b", "main")
	gitRun(t, dir, "config", "user.email", "test@test.com")
	gitRun(t, dir, "config", "user.name", "Test User")
	gitRun(t, dir, "config", "commit.gpgsign", "false")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# test\n"), 0644))
	gitRun(t, dir, "add", "README.md")
	gitRun(t, dir, "commit", "-q", "-m", "Initial commit")
	for _, b := range branches {
		gitRun(t, dir, "branch", b)
	}
	return dir
}

// spySource fails the test when scanned.
type spySource struct{ t *testing.T }

func (s spySource) Names(context.Context, string) ([]string, error) {
	s.t.Error("allocator must not be reached")
	return nil, nil
}

// StaticVariables returns fixed values, normalized on use.
type StaticVariables struct {
	User  string
	Email string
}

func (s StaticVariables) Username(context.Context) (string, error) {
	if n := Normalize(s.User); n != "" {
		return n, nil
	}
	return "", errors.New("cannot determine {username}: empty user name")
}

func (s StaticVariables) EmailPrefix(context.Context) (string, error) {
	local, _, _ := strings.Cut(s.Email, "@")
	return Normalize(local), nil
}

// StaticSource returns a fixed list of names.
type StaticSource []string

func (s StaticSource) Names(context.Context, string) ([]string, error) { return s, nil }
