// Package ical exports the reading log as an iCalendar feed, one all-day
// event per paper, so the log can be subscribed to from a calendar app.
package ical

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	ics "github.com/arran4/golang-ical"

	appLog "github.com/takagi171832/paper-readings/internal/log"
	"github.com/takagi171832/paper-readings/internal/model"
)

const prodID = "-//paper-readings//reading log//EN"

// epoch is the fixed DTSTAMP applied to every event. A wall-clock stamp
// would make the export differ between two runs on identical data.
var epoch = time.Unix(0, 0).UTC()

// Export builds a calendar from the entries. Entries whose date is
// missing or unparseable are skipped, consistent with how the activity
// grid treats them.
func Export(entries []model.Entry) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(prodID)

	skipped := 0
	for _, e := range entries {
		date, ok := e.ParseDate()
		if !ok {
			skipped++
			continue
		}

		ev := cal.AddEvent(eventUID(e))
		ev.SetDtStampTime(epoch)
		ev.SetAllDayStartAt(date)
		ev.SetAllDayEndAt(date.AddDate(0, 0, 1))
		ev.SetSummary(e.Title)
		if e.Note != "" {
			ev.SetDescription(e.Note)
		}
		if e.Link != "" {
			ev.SetURL(e.Link)
		}
		if e.Category != "" {
			ev.AddProperty(ics.ComponentPropertyCategories, e.Category)
		}
	}

	if skipped > 0 {
		appLog.Warn("ical export skipped entries without a valid date", "skipped", skipped)
	}
	return cal
}

// Serialize renders the calendar to its wire form.
func Serialize(cal *ics.Calendar) []byte {
	return []byte(cal.Serialize())
}

// eventUID derives a stable UID from the entry's identity key
// (title, date), so re-exports never churn subscribers.
func eventUID(e model.Entry) string {
	sum := sha256.Sum256([]byte(e.Title + "\x00" + e.Date))
	return hex.EncodeToString(sum[:8]) + "@paper-readings"
}
