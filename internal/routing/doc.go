// Package routing decides which workspace repositories a spec targets.
//
// [Match] is a pure function of the name being routed, the workspace
// conventions, and the repository list. When the conventions do not settle
// on a repository set and prompting is enabled, the decision asks the
// caller for a selection instead of guessing; [Settle] turns such a request
// into a final set using a [Selector] supplied by the CLI.
package routing
