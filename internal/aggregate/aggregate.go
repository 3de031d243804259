package aggregate

import (
	"sort"
	"strings"
	"time"

	"github.com/takagi171832/paper-readings/internal/model"
)

// UnknownCategory is the sentinel bucket for entries with a missing or
// blank category. Grouping is otherwise exact string match, case
// sensitive and unnormalized, so "ml" and "ML" are distinct categories.
const UnknownCategory = "Unknown"

// Categorize counts entries per category. The sum of all counts always
// equals len(entries); blank categories land in UnknownCategory.
func Categorize(entries []model.Entry) map[string]int {
	counts := make(map[string]int)
	for _, e := range entries {
		cat := e.Category
		if strings.TrimSpace(cat) == "" {
			cat = UnknownCategory
		}
		counts[cat]++
	}
	return counts
}

// SortedCounts flattens a category count map into a deterministic order:
// count descending, then category name ascending (case-insensitive).
func SortedCounts(counts map[string]int) []model.CategoryCount {
	out := make([]model.CategoryCount, 0, len(counts))
	for cat, n := range counts {
		out = append(out, model.CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		li, lj := strings.ToLower(out[i].Category), strings.ToLower(out[j].Category)
		if li != lj {
			return li < lj
		}
		// Categories differing only by case are distinct (grouping is
		// case-sensitive); compare raw so the order never depends on
		// map iteration.
		return out[i].Category < out[j].Category
	})
	return out
}

// Recent returns up to limit entries ordered by date descending. Entries
// whose date is missing or unparseable sort as the minimum representable
// date, so they can never displace a dated entry from the top. Ties keep
// their original relative order (stable sort).
func Recent(entries []model.Entry, limit int) []model.Entry {
	sorted := make([]model.Entry, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sortDate(sorted[i]).After(sortDate(sorted[j]))
	})

	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func sortDate(e model.Entry) time.Time {
	if d, ok := e.ParseDate(); ok {
		return d
	}
	return time.Time{}
}
