package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// LocalBranches returns the names of all local branches in repoPath.
// An unborn repository has none.
func LocalBranches(ctx context.Context, repoPath string) ([]string, error) {
	refs, err := listRefs(ctx, repoPath, "refs/heads/")
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	for i, ref := range refs {
		refs[i] = strings.TrimPrefix(ref, "refs/heads/")
	}
	return refs, nil
}

// RemoteBranches returns remote-tracking branch names with the remote name
// stripped, so origin/jane/001-x becomes jane/001-x. Symbolic HEAD refs are
// skipped.
func RemoteBranches(ctx context.Context, repoPath string) ([]string, error) {
	refs, err := listRefs(ctx, repoPath, "refs/remotes/")
	if err != nil {
		return nil, fmt.Errorf("failed to list remote branches: %w", err)
	}
	var names []string
	for _, ref := range refs {
		rest := strings.TrimPrefix(ref, "refs/remotes/")
		_, name, ok := strings.Cut(rest, "/")
		if !ok || name == "" || name == "HEAD" {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

func listRefs(ctx context.Context, repoPath, prefix string) ([]string, error) {
	out, err := outputGit(ctx, repoPath, "for-each-ref", "--format=%(refname)", prefix)
	if err != nil {
		return nil, err
	}
	var refs []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			refs = append(refs, line)
		}
	}
	return refs, nil
}

// BranchExists checks if a local branch exists in repoPath.
func BranchExists(ctx context.Context, repoPath, branch string) bool {
	return runGit(ctx, repoPath, "rev-parse", "--verify", "--quiet", "refs/heads/"+branch) == nil
}

// CreateBranch creates branch in repoPath and checks it out.
func CreateBranch(ctx context.Context, repoPath, branch string) error {
	if err := runGit(ctx, repoPath, "checkout", "-q", "-b", branch); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", branch, err)
	}
	return nil
}

// ConfigValue returns the effective value of a git config key as seen from
// dir. An unset key yields "" and no error.
func ConfigValue(ctx context.Context, dir, key string) (string, error) {
	out, err := outputGit(ctx, dir, "config", "--get", key)
	if err != nil {
		// git config exits 1 when the key is not set
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", fmt.Errorf("failed to read git config %s: %w", key, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// FetchMaxElapsed bounds the total time spent retrying a fetch.
const FetchMaxElapsed = 15 * time.Second

func newFetchBackoff(ctx context.Context) backoff.BackOffContext {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 250 * time.Millisecond
	bo.MaxElapsedTime = FetchMaxElapsed
	return backoff.WithContext(backoff.WithMaxRetries(bo, 3), ctx)
}

// Fetch refreshes all remotes of repoPath, pruning deleted branches.
// Network failures are retried with exponential backoff; anything else
// (unknown remote, bad repository) fails immediately.
func Fetch(ctx context.Context, repoPath string) error {
	err := backoff.Retry(func() error {
		err := runGit(ctx, repoPath, "fetch", "--all", "--prune", "--quiet")
		if err != nil && !isTransientFetchError(err) {
			return backoff.Permanent(err)
		}
		return err
	}, newFetchBackoff(ctx))
	if err != nil {
		return fmt.Errorf("failed to fetch: %w", err)
	}
	return nil
}

// isTransientFetchError reports whether a fetch failure looks like a network
// blip worth retrying.
func isTransientFetchError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{
		"could not resolve host",
		"connection timed out",
		"connection reset",
		"connection refused",
		"early eof",
		"the remote end hung up",
		"operation timed out",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
