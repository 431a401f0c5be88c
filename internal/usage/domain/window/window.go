package window

import (
	"time"

	"usage-dashboard/internal/usage/domain/timeline"
)

// Filter returns the entries whose date lies inside r.
func Filter(entries []timeline.Entry, r DateRange) []timeline.Entry {
	result := make([]timeline.Entry, 0, len(entries))
	for _, entry := range entries {
		if r.Contains(entry.Date) {
			result = append(result, entry)
		}
	}
	return result
}

// LastNDays returns the entries dated on or after anchor minus n days.
// It is a calendar predicate and tolerates missing hours.
func LastNDays(entries []timeline.Entry, anchor time.Time, n int) []timeline.Entry {
	cutoff := timeline.CivilDate(anchor).AddDate(0, 0, -n)
	result := make([]timeline.Entry, 0, len(entries))
	for _, entry := range entries {
		if !entry.Date.Before(cutoff) {
			result = append(result, entry)
		}
	}
	return result
}

// TailDays returns the last n*24 entries by position.
// The input is expected in timeline order; dates are not inspected, so gaps widen the
// calendar span of the result instead of shrinking it.
func TailDays(entries []timeline.Entry, n int) []timeline.Entry {
	return Tail(entries, n*timeline.HoursPerDay)
}

// Tail returns a copy of the last k entries.
func Tail(entries []timeline.Entry, k int) []timeline.Entry {
	if k <= 0 {
		return []timeline.Entry{}
	}
	if k > len(entries) {
		k = len(entries)
	}
	result := make([]timeline.Entry, k)
	copy(result, entries[len(entries)-k:])
	return result
}
