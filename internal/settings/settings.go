package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
)

// Dir is the per-project metadata directory.
const Dir = ".specify"

// FileName is the settings file inside [Dir].
const FileName = "config.toml"

// DefaultBranchTemplate produces identifiers like 001-add-login-feature.
const DefaultBranchTemplate = "{number}-{short_name}"

// DefaultSpecsDir is where spec directories are created, relative to the
// project or workspace root.
const DefaultSpecsDir = "specs"

// EnvSpecDir overrides specs.dir when set.
const EnvSpecDir = "SPECIFY_SPEC_DIR"

// Settings holds the effective project settings.
type Settings struct {
	BranchTemplate string
	SpecsDir       string

	// Path is the file the settings were read from, empty when defaults apply.
	Path string
	// Ignored lists unrecognized keys found in the file.
	Ignored []string
}

// Default returns the settings used when no file is present.
func Default() Settings {
	return Settings{
		BranchTemplate: DefaultBranchTemplate,
		SpecsDir:       DefaultSpecsDir,
	}
}

// Path returns the settings file location for a project root.
func Path(root string) string {
	return filepath.Join(root, Dir, FileName)
}

var recognized = map[string]bool{
	"branch":          true,
	"branch.template": true,
	"specs":           true,
	"specs.dir":       true,
}

// Load reads settings for the project at root.
func Load(root string) (Settings, error) {
	path := Path(root)
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Default(), fmt.Errorf("failed to read settings file: %w", err)
	}
	if err == nil {
		cfg, err = parse(path, data)
		if err != nil {
			return Default(), err
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// parse decodes the file generically so a wrong-typed key can be reported
// by name instead of as an opaque decode failure.
func parse(path string, data []byte) (Settings, error) {
	cfg := Default()
	cfg.Path = path

	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return cfg, newParseError(path, err)
	}

	for _, key := range md.Keys() {
		if k := key.String(); !recognized[k] {
			cfg.Ignored = append(cfg.Ignored, k)
		}
	}
	sort.Strings(cfg.Ignored)

	if v, ok, err := lookupString(raw, "branch", "template"); err != nil {
		return cfg, &ConfigParseError{Path: path, Key: "branch.template", Err: err}
	} else if ok && v != "" {
		cfg.BranchTemplate = v
	}

	if v, ok, err := lookupString(raw, "specs", "dir"); err != nil {
		return cfg, &ConfigParseError{Path: path, Key: "specs.dir", Err: err}
	} else if ok {
		if err := ValidateSpecDir(v); err != nil {
			return cfg, &ConfigParseError{Path: path, Key: "specs.dir", Err: err}
		}
		cfg.SpecsDir = v
	}

	return cfg, nil
}

// lookupString finds table.key in raw. A missing table or key is not an
// error; a value of any type other than string is.
func lookupString(raw map[string]any, table, key string) (string, bool, error) {
	t, ok := raw[table]
	if !ok {
		return "", false, nil
	}
	tbl, ok := t.(map[string]any)
	if !ok {
		return "", false, fmt.Errorf("[%s] must be a table, got %s", table, typeName(t))
	}
	v, ok := tbl[key]
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, fmt.Errorf("must be a string, got %s", typeName(v))
	}
	return s, true, nil
}

func typeName(v any) string {
	switch v.(type) {
	case int64:
		return "integer"
	case float64:
		return "float"
	case bool:
		return "boolean"
	case []any, []map[string]any:
		return "array"
	case map[string]any:
		return "table"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func applyEnvOverrides(cfg *Settings) error {
	v := os.Getenv(EnvSpecDir)
	if v == "" {
		return nil
	}
	if err := ValidateSpecDir(v); err != nil {
		return &ConfigParseError{Path: "$" + EnvSpecDir, Key: "specs.dir", Err: err}
	}
	cfg.SpecsDir = v
	return nil
}
