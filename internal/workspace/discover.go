package workspace

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spec-kit/specify/internal/git"
)

// DefaultDepth is how deep Discover looks below the root by default.
const DefaultDepth = 2

// Discover finds git repositories below root, at most maxDepth levels deep.
// Hidden directories and the directories named in skip are not entered, and
// a repository's own subdirectories are never searched. Repositories get
// their directory name as name, or their relative path when two share a
// directory name. Discover does not write anything.
func Discover(root string, maxDepth int, skip ...string) ([]Repo, error) {
	if maxDepth < 1 {
		maxDepth = 1
	}
	var rels []string
	if err := walk(root, "", maxDepth, skip, &rels); err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rels))
	for _, rel := range rels {
		counts[path.Base(rel)]++
	}

	repos := make([]Repo, 0, len(rels))
	for _, rel := range rels {
		name := path.Base(rel)
		if counts[name] > 1 {
			name = rel
		}
		repos = append(repos, Repo{Name: name, Path: rel, Aliases: DefaultAliases(path.Base(rel))})
	}
	return repos, nil
}

func walk(dir, rel string, depth int, skip []string, out *[]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		childRel := path.Join(rel, e.Name())
		if slices.Contains(skip, childRel) {
			continue
		}
		child := filepath.Join(dir, e.Name())
		if git.IsRepo(child) {
			*out = append(*out, childRel)
			continue
		}
		if depth > 1 {
			if err := walk(child, childRel, depth-1, skip, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// DefaultAliases returns the directory name followed by its hyphen-separated
// parts, deduplicated: "payment-api" yields payment-api, payment, api.
func DefaultAliases(dirName string) []string {
	aliases := []string{dirName}
	for _, part := range strings.Split(dirName, "-") {
		if part != "" && !slices.Contains(aliases, part) {
			aliases = append(aliases, part)
		}
	}
	return aliases
}
