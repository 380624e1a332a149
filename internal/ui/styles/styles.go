// Package styles provides shared lipgloss styles for specify's terminal
// output and prompts.
//
// Styled text is always rendered with full color; writers returned by
// [NewWriter] downgrade or strip it to what the destination supports, so
// piped output stays plain.
package styles

import (
	"image/color"
	"io"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
)

// Palette
var (
	// Primary is the main accent color (cyan/teal)
	Primary color.Color = lipgloss.Color("62")

	// Accent is the highlight color for selected items (pink)
	Accent color.Color = lipgloss.Color("212")

	// Success marks repositories where the branch was created (green)
	Success color.Color = lipgloss.Color("82")

	// Error marks failed repositories (red)
	Error color.Color = lipgloss.Color("196")

	// Warning marks dry-run and skipped entries (orange)
	Warning color.Color = lipgloss.Color("214")

	// Muted is used for paths and secondary detail (gray)
	Muted color.Color = lipgloss.Color("240")
)

var (
	Bold         = lipgloss.NewStyle().Bold(true)
	AccentStyle  = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)
	TitleStyle   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
)

// Status symbols
const (
	SymbolOK   = "✓"
	SymbolFail = "✗"
	SymbolDry  = "○"
)

// NewWriter wraps w so styled output matches the color profile of the
// terminal behind it. NO_COLOR and CLICOLOR_FORCE are honored.
func NewWriter(w io.Writer) *colorprofile.Writer {
	return colorprofile.NewWriter(w, os.Environ())
}
