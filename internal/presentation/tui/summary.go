package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/btkit/btdiff/pkg/domain"
)

// FormatSummary renders a one-line colored summary of the diff counts,
// e.g. "+2 added  -1 removed  ~3 modified  →1 moved".
func FormatSummary(s domain.DiffSummary) string {
	p := termenv.ColorProfile()
	parts := []string{
		termenv.String(fmt.Sprintf("+%d added", s.Added)).Foreground(p.Color("#22c55e")).String(),
		termenv.String(fmt.Sprintf("-%d removed", s.Removed)).Foreground(p.Color("#ef4444")).String(),
		termenv.String(fmt.Sprintf("~%d modified", s.Modified)).Foreground(p.Color("#eab308")).String(),
		termenv.String(fmt.Sprintf("→%d moved", s.Moved)).Foreground(p.Color("#3b82f6")).String(),
		termenv.String(fmt.Sprintf("%d unchanged", s.Unchanged)).Faint().String(),
	}
	return strings.Join(parts, "  ")
}
