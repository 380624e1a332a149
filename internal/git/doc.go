// Package git provides the git operations specify needs via shell commands.
//
// All operations call the git CLI through [github.com/spec-kit/specify/internal/cmd]
// rather than using a Go git library. This keeps behavior identical to the
// user's own git (SSH keys, credential helpers, includeIf config).
//
// # Branch Scans
//
// The sequence allocator reads every name that could already hold a number:
//
//   - [LocalBranches]: refs/heads without the prefix
//   - [RemoteBranches]: refs/remotes without the remote name
//   - [Fetch]: refresh remote refs, retried with exponential backoff
//
// # Mutations
//
//   - [CreateBranch]: git checkout -b in a target repository
//   - [Init]: git init for workspace members that are not yet repositories
package git
