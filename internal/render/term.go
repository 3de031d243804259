package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/takagi171832/paper-readings/internal/grid"
	"github.com/takagi171832/paper-readings/internal/model"
)

// TermReport renders the heatmap and the category breakdown for the
// terminal, using the same six-step palette as the SVG artifacts.
// Out-of-range cells render as blanks, which keeps the window edges
// visually distinct from zero-count days.
func TermReport(r Report) string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true)
	faint := lipgloss.NewStyle().Faint(true)

	b.WriteString(titleStyle.Render(fmt.Sprintf("%d papers read in the last 12 months", r.Grid.Total)))
	b.WriteString("\n\n")

	cellStyles := make([]lipgloss.Style, grid.Buckets)
	for i := range cellStyles {
		cellStyles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(grid.Palette[i]))
	}

	for row := 0; row < model.GridDays; row++ {
		if lab, ok := dayLabels[row]; ok {
			b.WriteString(faint.Render(fmt.Sprintf("%-4s", lab)))
		} else {
			b.WriteString("    ")
		}
		for col := 0; col < model.GridWeeks; col++ {
			cell := r.Grid.Cells[row][col]
			if !cell.InRange {
				b.WriteString("  ")
				continue
			}
			b.WriteString(cellStyles[grid.Bucket(cell.Count)].Render("■ "))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n    " + faint.Render("Less "))
	for v := 0; v < grid.Buckets; v++ {
		b.WriteString(cellStyles[v].Render("■ "))
	}
	b.WriteString(faint.Render("More") + "\n\n")

	b.WriteString(titleStyle.Render("Papers by Category"))
	b.WriteString("\n")

	maxV := 0
	for _, c := range r.Counts {
		if c.Count > maxV {
			maxV = c.Count
		}
	}
	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(grid.Palette[grid.Buckets-1]))
	for _, c := range r.Counts {
		width := 0
		if maxV > 0 {
			width = 40 * c.Count / maxV
		}
		b.WriteString(fmt.Sprintf("%-20s %s %d\n",
			c.Category, barStyle.Render(strings.Repeat("█", width)), c.Count))
	}

	return b.String()
}
