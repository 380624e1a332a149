package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IsRepo reports whether path is the top level of a git repository.
// A .git file counts too, so worktrees and submodules are recognized.
func IsRepo(path string) bool {
	info, err := os.Stat(filepath.Join(path, ".git"))
	if err != nil {
		return false
	}
	return info.IsDir() || info.Mode().IsRegular()
}

// RepoRoot returns the top-level directory of the repository containing dir.
func RepoRoot(ctx context.Context, dir string) (string, error) {
	out, err := outputGit(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	return filepath.FromSlash(strings.TrimSpace(string(out))), nil
}

// Init creates an empty repository in dir.
func Init(ctx context.Context, dir string) error {
	if err := runGit(ctx, dir, "init", "--quiet"); err != nil {
		return fmt.Errorf("git init %s: %w", dir, err)
	}
	return nil
}
