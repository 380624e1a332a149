package settings

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxSpecDirLen matches the common filesystem name limit.
const maxSpecDirLen = 255

// invalidSpecDirChars are rejected so the directory works on every platform.
const invalidSpecDirChars = "<>:\"|?*\x00"

// ValidateSpecDir checks a specs directory name from the settings file,
// the workspace file or the environment.
func ValidateSpecDir(dir string) error {
	switch {
	case strings.TrimSpace(dir) == "":
		return errors.New("must not be empty")
	case len(dir) > maxSpecDirLen:
		return fmt.Errorf("must be at most %d characters", maxSpecDirLen)
	case filepath.IsAbs(dir) || strings.HasPrefix(dir, "/") || strings.HasPrefix(dir, `\`):
		return fmt.Errorf("must be relative, got %q", dir)
	case strings.Contains(dir, ".."):
		return fmt.Errorf("must not contain '..', got %q", dir)
	case strings.ContainsAny(dir, invalidSpecDirChars):
		i := strings.IndexAny(dir, invalidSpecDirChars)
		return fmt.Errorf("must not contain %q", dir[i:i+1])
	case strings.HasSuffix(dir, "/") || strings.HasSuffix(dir, `\`):
		return fmt.Errorf("must not end with a path separator, got %q", dir)
	}
	if r, _ := utf8.DecodeRuneInString(dir); !unicode.IsLetter(r) && !unicode.IsDigit(r) {
		return fmt.Errorf("must start with a letter or digit, got %q", dir)
	}
	return nil
}
