package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/specify/internal/settings"
	"github.com/spec-kit/specify/internal/storage"
)

// FileName is the workspace file inside the .specify directory.
const FileName = "workspace.yml"

// Version is the current workspace file format.
const Version = 1

// ErrNotWorkspace is returned by Load when root has no workspace file.
var ErrNotWorkspace = errors.New("not a specify workspace")

// Repo is a repository that belongs to a workspace.
type Repo struct {
	Name    string   `yaml:"name"`
	Path    string   `yaml:"path"` // relative to the workspace root, slash-separated
	Aliases []string `yaml:"aliases,omitempty,flow"`
}

// PrefixRule routes names starting with Prefix to Repos. With Strip set the
// prefix is removed from the branch and spec directory names.
type PrefixRule struct {
	Prefix string   `yaml:"prefix"`
	Repos  []string `yaml:"repos,flow"`
	Strip  bool     `yaml:"strip,omitempty"`
}

// SuffixRule routes names ending with Suffix to Repos.
type SuffixRule struct {
	Suffix string   `yaml:"suffix"`
	Repos  []string `yaml:"repos,flow"`
}

// Conventions decide which repositories a spec targets.
type Conventions struct {
	PrefixRules     []PrefixRule `yaml:"prefix_rules,omitempty"`
	SuffixRules     []SuffixRule `yaml:"suffix_rules,omitempty"`
	DefaultRepo     string       `yaml:"default_repo,omitempty"`
	AmbiguousPrompt bool         `yaml:"ambiguous_prompt"`
}

// Workspace is a loaded workspace file.
type Workspace struct {
	Version     int         `yaml:"version"`
	Name        string      `yaml:"name"`
	SpecsDir    string      `yaml:"specs_dir,omitempty"`
	Repos       []Repo      `yaml:"repos"`
	Conventions Conventions `yaml:"conventions"`

	// Root is the absolute workspace directory.
	Root string `yaml:"-"`
}

// Path returns the workspace file location for root.
func Path(root string) string {
	return filepath.Join(root, settings.Dir, FileName)
}

// IsWorkspace reports whether path is a workspace root.
func IsWorkspace(path string) bool {
	info, err := os.Stat(Path(path))
	return err == nil && info.Mode().IsRegular()
}

// Find searches path and its ancestors for a workspace root.
func Find(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	for dir := abs; ; dir = filepath.Dir(dir) {
		if IsWorkspace(dir) {
			return dir, true
		}
		if dir == filepath.Dir(dir) {
			return "", false
		}
	}
}

// Load reads the workspace at root.
func Load(root string) (*Workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}
	path := Path(abs)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotWorkspace, abs)
		}
		return nil, fmt.Errorf("read workspace: %w", err)
	}

	var ws Workspace
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, newParseError(path, err)
	}
	ws.Root = abs
	if ws.Version == 0 {
		ws.Version = Version
	}
	if ws.SpecsDir == "" {
		ws.SpecsDir = settings.DefaultSpecsDir
	}
	if err := ws.validate(); err != nil {
		return nil, &settings.ConfigParseError{Path: path, Key: err.key, Err: err.err}
	}
	return &ws, nil
}

type fieldError struct {
	key string
	err error
}

func (ws *Workspace) validate() *fieldError {
	if ws.Version > Version {
		return &fieldError{"version", fmt.Errorf("unsupported version %d (newest known is %d)", ws.Version, Version)}
	}
	if err := settings.ValidateSpecDir(ws.SpecsDir); err != nil {
		return &fieldError{"specs_dir", err}
	}
	names := make(map[string]bool, len(ws.Repos))
	for i, r := range ws.Repos {
		key := fmt.Sprintf("repos[%d]", i)
		switch {
		case r.Name == "":
			return &fieldError{key + ".name", errors.New("must not be empty")}
		case names[r.Name]:
			return &fieldError{key + ".name", fmt.Errorf("duplicate repo name %q", r.Name)}
		case r.Path == "" || filepath.IsAbs(r.Path) || strings.HasPrefix(r.Path, "/"):
			return &fieldError{key + ".path", fmt.Errorf("must be a relative path, got %q", r.Path)}
		case strings.Contains(r.Path, ".."):
			return &fieldError{key + ".path", fmt.Errorf("must stay inside the workspace, got %q", r.Path)}
		}
		names[r.Name] = true
	}
	for i, rule := range ws.Conventions.PrefixRules {
		if rule.Prefix == "" {
			return &fieldError{fmt.Sprintf("conventions.prefix_rules[%d].prefix", i), errors.New("must not be empty")}
		}
	}
	for i, rule := range ws.Conventions.SuffixRules {
		if rule.Suffix == "" {
			return &fieldError{fmt.Sprintf("conventions.suffix_rules[%d].suffix", i), errors.New("must not be empty")}
		}
	}
	return nil
}

var yamlLineRe = regexp.MustCompile(`line (\d+)`)

// newParseError keeps the line number yaml reports in its message.
func newParseError(path string, err error) *settings.ConfigParseError {
	pe := &settings.ConfigParseError{Path: path, Err: err}
	if m := yamlLineRe.FindStringSubmatch(err.Error()); m != nil {
		pe.Line, _ = strconv.Atoi(m[1])
	}
	return pe
}

const fileHeader = `# specify workspace
# Repositories are listed relative to this workspace root. Conventions route a
# spec to repositories by prefix or suffix of its short name.
`

// Save writes the workspace file atomically.
func (ws *Workspace) Save() error {
	data, err := yaml.Marshal(ws)
	if err != nil {
		return fmt.Errorf("marshal workspace: %w", err)
	}
	data = append([]byte(fileHeader), data...)

	if err := storage.WriteFile(Path(ws.Root), data, 0644); err != nil {
		return fmt.Errorf("save workspace: %w", err)
	}
	return nil
}

// SpecsRoot returns the absolute shared specs directory.
func (ws *Workspace) SpecsRoot() string {
	return filepath.Join(ws.Root, filepath.FromSlash(ws.SpecsDir))
}

// RepoPath returns the absolute path of r.
func (ws *Workspace) RepoPath(r Repo) string {
	return filepath.Join(ws.Root, filepath.FromSlash(r.Path))
}
