package static

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestRenderTable(t *testing.T) {
	t.Parallel()

	out := ansi.Strip(RenderTable(
		[]string{"NAME", "PATH", "ALIASES"},
		[][]string{
			{"backend", "services/backend", "backend, be"},
			{"frontend", "apps/frontend", "frontend"},
		},
	))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "NAME") {
		t.Errorf("header = %q, want NAME first", lines[0])
	}
	// Columns align: PATH starts at the same offset in every line.
	col := strings.Index(lines[0], "PATH")
	for _, l := range lines[1:] {
		if idx := strings.Index(l, "services/backend"); idx >= 0 && idx != col {
			t.Errorf("PATH column at %d, header at %d", idx, col)
		}
		if idx := strings.Index(l, "apps/frontend"); idx >= 0 && idx != col {
			t.Errorf("PATH column at %d, header at %d", idx, col)
		}
	}
}

func TestRenderTable_Empty(t *testing.T) {
	t.Parallel()
	if got := RenderTable([]string{"NAME"}, nil); got != "" {
		t.Errorf("RenderTable(no rows) = %q, want empty", got)
	}
}

func TestStatusLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status Status
		want   string
	}{
		{StatusOK, "✓ backend  created"},
		{StatusFailed, "✗ backend  created"},
		{StatusPlanned, "○ backend  created"},
	}
	for _, tt := range tests {
		if got := ansi.Strip(StatusLine(tt.status, "backend", "created")); got != tt.want {
			t.Errorf("StatusLine(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
	if got := ansi.Strip(StatusLine(StatusOK, "backend", "")); got != "✓ backend" {
		t.Errorf("StatusLine without detail = %q", got)
	}
}
