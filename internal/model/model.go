package model

import "time"

// Entry represents a single logged paper. Title/Category/Date/Link are
// required for a valid entry; Note is optional. Date and Link are kept as
// raw strings so that validation can report exactly what the dataset
// contains; downstream consumers parse Date defensively.
type Entry struct {
	Title    string `yaml:"title" json:"title"`
	Category string `yaml:"category" json:"category"`
	Date     string `yaml:"date" json:"date"`
	Link     string `yaml:"link" json:"link"`
	Note     string `yaml:"note,omitempty" json:"note,omitempty"`
}

// ParseDate parses the entry's date as ISO YYYY-MM-DD. The second return
// value reports whether the date was present and well-formed.
func (e Entry) ParseDate() (time.Time, bool) {
	if e.Date == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", e.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Window is the rolling date range the heatmap covers: [Start, End]
// inclusive, spanning exactly 365 calendar days.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow anchors a 365-day window ending at the given day. The time
// component of end is discarded; only the calendar date matters.
func NewWindow(end time.Time) Window {
	day := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return Window{
		Start: day.AddDate(0, 0, -364),
		End:   day,
	}
}

// Contains reports whether the given date falls inside the window.
func (w Window) Contains(d time.Time) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Grid dimensions. 364 days aligned to a Sunday start span at most 53
// week columns, so the shape is fixed regardless of the window.
const (
	GridWeeks = 53
	GridDays  = 7
)

// GridCell is one day slot in the heatmap grid. Count is only meaningful
// when InRange is true; an out-of-range cell carries no count at all
// (distinct from an in-range day with zero papers).
type GridCell struct {
	Week      int       `json:"week"`
	DayOfWeek int       `json:"day_of_week"` // 0=Sunday .. 6=Saturday
	Date      time.Time `json:"date"`
	InRange   bool      `json:"in_range"`
	Count     int       `json:"count"`
}

// WeekColumn carries per-column metadata used for month-label placement.
type WeekColumn struct {
	Start      time.Time `json:"start"` // the Sunday this column begins on
	AnyInRange bool      `json:"any_in_range"`
}

// Grid is the fixed 7x53 activity grid plus its alignment metadata.
type Grid struct {
	Window  Window                        `json:"window"`
	Cells   [GridDays][GridWeeks]GridCell `json:"cells"`
	Columns [GridWeeks]WeekColumn         `json:"columns"`

	// Total is the number of entries whose date fell inside the window.
	Total int `json:"total"`
}

// CategoryCount pairs a category label with how many entries carry it.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}
