package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"weft/internal/driver"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	cachedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderSummary formats per-fixture resolution results as a table. Colors
// degrade automatically when stdout is not a terminal; lipgloss handles
// profile detection.
func RenderSummary(title string, results []driver.Result) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	nameWidth := 4
	for _, r := range results {
		if len(r.Path) > nameWidth {
			nameWidth = len(r.Path)
		}
	}

	totalOps, totalShapes, broken := 0, 0, 0
	for _, r := range results {
		status := okStyle.Render("ok")
		switch {
		case r.Bag != nil && r.Bag.HasErrors():
			status = errStyle.Render("error")
			broken++
		case r.Cached:
			status = cachedStyle.Render("cached")
		}
		b.WriteString(fmt.Sprintf("  %-*s  %8s  %s\n",
			nameWidth, r.Path, status,
			dimStyle.Render(fmt.Sprintf("%d shape(s), %d op(s), %d instr(s)",
				len(r.Shapes), r.Ops, r.Instrs))))
		totalOps += r.Ops
		totalShapes += len(r.Shapes)
	}

	b.WriteString("\n")
	line := fmt.Sprintf("%d fixture(s), %d shape(s), %d op(s)", len(results), totalShapes, totalOps)
	if broken > 0 {
		line += fmt.Sprintf(", %d broken", broken)
		b.WriteString(errStyle.Render(line))
	} else {
		b.WriteString(okStyle.Render(line))
	}
	b.WriteString("\n")
	return b.String()
}
