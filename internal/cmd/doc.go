// Package cmd provides helpers for executing shell commands with proper error handling.
//
// This package wraps [os/exec.Cmd] to capture stderr and include it in error
// messages, making command failures more informative for users.
//
// # Usage
//
//	if err := cmd.RunContext(ctx, repoPath, "git", "checkout", "-b", name); err != nil {
//	    // err contains stderr output if available
//	    return fmt.Errorf("create branch: %w", err)
//	}
//
//	// For commands that return output:
//	out, err := cmd.OutputContext(ctx, "", "git", "for-each-ref", "refs/heads")
//
// Every command is echoed through the context logger when verbose mode is on.
//
// # Design Notes
//
// specify shells out to the git CLI rather than using a Go git library so that
// user configuration (identity, credential helpers, includes) is honored exactly
// as the user's own git would honor it.
package cmd
