// Package identity turns a feature description into a unique branch and
// spec directory identifier.
//
// A [Resolver] renders a branch template such as
// "{username}/{number}-{short_name}". Placeholders other than {number} are
// resolved first; the rendered text before {number} is the scope, and an
// [Allocator] picks the next free number within that scope by scanning
// existing branches and spec directories. The final identifier is checked
// with [refname.Check].
//
// Resolution is read-only. Two concurrent resolutions in the same scope can
// pick the same number; nothing here reserves it.
package identity
