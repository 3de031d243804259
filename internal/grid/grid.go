package grid

import (
	"time"

	"github.com/takagi171832/paper-readings/internal/model"
)

// Build maps the entries onto the fixed 7x53 activity grid for the given
// window.
//
// Alignment: the first column starts on the Sunday on or before
// window.Start, so every column is a full Sunday..Saturday week and the
// window start always lands inside column 0. Entries dated outside the
// window (or with unparseable dates) are ignored, never an error.
//
// The output depends only on (entries, window); two calls with identical
// inputs produce identical grids.
func Build(entries []model.Entry, window model.Window) model.Grid {
	perDay := make(map[time.Time]int)
	for _, e := range entries {
		d, ok := e.ParseDate()
		if !ok {
			continue
		}
		if window.Contains(d) {
			perDay[d]++
		}
	}

	// time.Weekday is Sunday-based, so its integer value is exactly the
	// number of days back to the previous Sunday.
	gridStart := window.Start.AddDate(0, 0, -int(window.Start.Weekday()))

	var g model.Grid
	g.Window = window

	for w := 0; w < model.GridWeeks; w++ {
		weekStart := gridStart.AddDate(0, 0, w*7)
		col := model.WeekColumn{Start: weekStart}

		for dow := 0; dow < model.GridDays; dow++ {
			date := weekStart.AddDate(0, 0, dow)
			cell := model.GridCell{
				Week:      w,
				DayOfWeek: dow,
				Date:      date,
			}
			if window.Contains(date) {
				cell.InRange = true
				cell.Count = perDay[date]
				col.AnyInRange = true
				g.Total += cell.Count
			}
			g.Cells[dow][w] = cell
		}

		g.Columns[w] = col
	}

	return g
}
