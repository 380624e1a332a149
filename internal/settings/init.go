package settings

import (
	"fmt"
	"os"

	"github.com/spec-kit/specify/internal/storage"
)

// DefaultFile is written by Init and printed by "config init -s".
const DefaultFile = `# specify settings

[branch]
# Template for new branch and spec directory names.
#
# Placeholders:
#   {number}        next free number in this template's scope, zero-padded to 3 digits (required)
#   {short_name}    slug derived from the feature description
#   {username}      git user.name, falling back to the OS user
#   {email_prefix}  git user.email up to the "@"
#
# Numbers are counted per scope: the text rendered before {number}. With
# "{username}/{number}-{short_name}" every user gets their own sequence.
#
# Examples:
#   template = "{number}-{short_name}"                  # 001-add-login
#   template = "{username}/{number}-{short_name}"       # jane-smith/001-add-login
#   template = "feature/{email_prefix}-{number}-{short_name}"
template = "{number}-{short_name}"

[specs]
# Directory (relative to the project or workspace root) that holds one
# directory per identifier. Overridden by SPECIFY_SPEC_DIR.
dir = "specs"
`

// Init writes the default settings file under root.
// If force is false and the file exists, it returns ErrSettingsExist.
// Returns the path to the written file.
func Init(root string, force bool) (string, error) {
	path := Path(root)

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%w: %s", ErrSettingsExist, path)
		}
	}

	if err := storage.WriteFile(path, []byte(DefaultFile), 0644); err != nil {
		return "", fmt.Errorf("write settings: %w", err)
	}
	return path, nil
}
