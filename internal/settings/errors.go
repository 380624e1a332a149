package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrSettingsExist is returned by Init when the settings file is present
// and force was not requested.
var ErrSettingsExist = errors.New("settings file already exists")

// ConfigParseError reports a settings or workspace file that exists but
// cannot be used. Line and Column are zero when the position is unknown.
type ConfigParseError struct {
	Path   string
	Line   int
	Column int
	Key    string
	Err    error
}

func (e *ConfigParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Path)
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
		if e.Column > 0 {
			fmt.Fprintf(&b, ":%d", e.Column)
		}
	}
	b.WriteString(": ")
	if e.Key != "" {
		fmt.Fprintf(&b, "invalid %s: ", e.Key)
	}
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *ConfigParseError) Unwrap() error { return e.Err }

// newParseError converts a TOML decode failure, keeping its position.
func newParseError(path string, err error) *ConfigParseError {
	var pe toml.ParseError
	if errors.As(err, &pe) {
		return &ConfigParseError{
			Path:   path,
			Line:   pe.Position.Line,
			Column: pe.Position.Col,
			Key:    pe.LastKey,
			Err:    errors.New(pe.Message),
		}
	}
	return &ConfigParseError{Path: path, Err: err}
}
