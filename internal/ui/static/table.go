// Package static renders non-interactive terminal output: the repository
// table of "workspace repos" and the per-repository report of "create".
package static

import (
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/spec-kit/specify/internal/ui/styles"
)

// RenderTable creates a borderless table with aligned columns and bold
// headers. It returns "" when there are no rows.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	return t.String() + "\n"
}

// Status is the outcome shown for one repository.
type Status int

const (
	StatusOK Status = iota
	StatusFailed
	StatusPlanned // dry run
)

// StatusLine renders "✓ backend  detail" with the symbol colored by status.
func StatusLine(s Status, repo, detail string) string {
	var sym string
	switch s {
	case StatusOK:
		sym = styles.SuccessStyle.Render(styles.SymbolOK)
	case StatusFailed:
		sym = styles.ErrorStyle.Render(styles.SymbolFail)
	default:
		sym = styles.WarningStyle.Render(styles.SymbolDry)
	}

	var b strings.Builder
	b.WriteString(sym)
	b.WriteString(" ")
	b.WriteString(styles.Bold.Render(repo))
	if detail != "" {
		b.WriteString("  ")
		b.WriteString(styles.MutedStyle.Render(detail))
	}
	return b.String()
}
