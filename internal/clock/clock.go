package clock

import (
	"os"
	"time"

	appLog "github.com/takagi171832/paper-readings/internal/log"
)

// Today resolves the current calendar date through an ordered chain of
// timezone sources:
//
//  1. the explicit override (config/flag), if non-empty
//  2. the PAPERS_TZ environment variable
//  3. the TZ environment variable
//  4. the process-local date
//
// An invalid zone name at any step falls through silently to the next
// one, so a typo in PAPERS_TZ never aborts a run. The returned time is
// a midnight-normalized date in UTC; only its calendar fields matter.
func Today(override string) time.Time {
	return TodayAt(override, time.Now())
}

// TodayAt is Today with an injectable instant, so the window anchor is
// testable and a build can be pinned to a reference date.
func TodayAt(override string, now time.Time) time.Time {
	for _, name := range candidates(override) {
		loc, err := time.LoadLocation(name)
		if err != nil {
			appLog.Debug("timezone not usable, trying next", "tz", name, "reason", err)
			continue
		}
		return dateOf(now.In(loc))
	}
	return dateOf(now)
}

func candidates(override string) []string {
	var out []string
	if override != "" {
		out = append(out, override)
	}
	if tz := os.Getenv("PAPERS_TZ"); tz != "" {
		out = append(out, tz)
	}
	if tz := os.Getenv("TZ"); tz != "" {
		out = append(out, tz)
	}
	return out
}

// dateOf strips the time-of-day, keeping the calendar date in UTC.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
