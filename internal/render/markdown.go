package render

import (
	"fmt"
	"strings"

	"github.com/takagi171832/paper-readings/internal/model"
)

// BreakdownTable renders the markdown category table, sorted as given
// (count descending, then name), with a bold total row. The total is the
// full entry count, so the table always conserves the dataset size.
func BreakdownTable(counts []model.CategoryCount, total int) string {
	lines := []string{"\n**Breakdown**", "", "| Category | Count |", "|---|---|"}
	for _, c := range counts {
		lines = append(lines, fmt.Sprintf("| %s | %d |", c.Category, c.Count))
	}
	lines = append(lines, fmt.Sprintf("| **Total** | **%d** |", total))
	return strings.Join(lines, "\n")
}

// RecentList renders the "Recently read" markdown list. Entries without
// a link degrade to plain text items. Returns "" when there is nothing
// to list.
func RecentList(entries []model.Entry) string {
	if len(entries) == 0 {
		return ""
	}
	lines := []string{"\n**Recently read**", ""}
	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = "(no title)"
		}
		category := e.Category
		if category == "" {
			category = "-"
		}
		if e.Link != "" {
			lines = append(lines, fmt.Sprintf("- [%s](%s) — *%s* (%s)", title, e.Link, category, e.Date))
		} else {
			lines = append(lines, fmt.Sprintf("- %s — *%s* (%s)", title, category, e.Date))
		}
	}
	return strings.Join(lines, "\n")
}

// ReportBlock assembles the full generated section spliced into the
// README: the two chart references followed by the breakdown table and
// recent list.
func ReportBlock(chartRel, heatmapRel string, r Report) string {
	return strings.Join([]string{
		fmt.Sprintf("![By category](%s)", chartRel),
		"",
		fmt.Sprintf("![Activity heatmap](%s)", heatmapRel),
		"",
		BreakdownTable(r.Counts, r.Total),
		RecentList(r.Recent),
	}, "\n")
}
