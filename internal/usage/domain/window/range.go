package window

import (
	"fmt"
	"time"

	"usage-dashboard/internal/usage/domain/timeline"
)

// MaxSpanDays caps how far End may lie after Start.
const MaxSpanDays = 7

const dateLayout = "2006-01-02"

// DateRange is an inclusive calendar date selection.
// Invariants: Start <= End <= Start + MaxSpanDays, both UTC midnights.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange validates a selection against the span cap and the available data bounds.
// It never adjusts the request; violations return ErrInvalidRange.
func NewDateRange(start, end, minAvailable, maxAvailable time.Time) (DateRange, error) {
	if start.IsZero() || end.IsZero() {
		return DateRange{}, fmt.Errorf("%w: start and end are required", timeline.ErrInvalidRange)
	}
	start = timeline.CivilDate(start)
	end = timeline.CivilDate(end)
	minAvailable = timeline.CivilDate(minAvailable)
	maxAvailable = timeline.CivilDate(maxAvailable)

	if start.After(end) {
		return DateRange{}, fmt.Errorf("%w: start %s after end %s", timeline.ErrInvalidRange, start.Format(dateLayout), end.Format(dateLayout))
	}
	if end.After(start.AddDate(0, 0, MaxSpanDays)) {
		return DateRange{}, fmt.Errorf("%w: end %s more than %d days after start %s", timeline.ErrInvalidRange, end.Format(dateLayout), MaxSpanDays, start.Format(dateLayout))
	}
	if start.Before(minAvailable) {
		return DateRange{}, fmt.Errorf("%w: start %s before first available date %s", timeline.ErrInvalidRange, start.Format(dateLayout), minAvailable.Format(dateLayout))
	}
	if end.After(maxAvailable) {
		return DateRange{}, fmt.Errorf("%w: end %s after last available date %s", timeline.ErrInvalidRange, end.Format(dateLayout), maxAvailable.Format(dateLayout))
	}
	return DateRange{Start: start, End: end}, nil
}

// DefaultRange selects the last MaxSpanDays days of available data.
func DefaultRange(minAvailable, maxAvailable time.Time) DateRange {
	minAvailable = timeline.CivilDate(minAvailable)
	maxAvailable = timeline.CivilDate(maxAvailable)

	start := maxAvailable.AddDate(0, 0, -MaxSpanDays)
	if start.Before(minAvailable) {
		start = minAvailable
	}
	end := start.AddDate(0, 0, MaxSpanDays)
	if end.After(maxAvailable) {
		end = maxAvailable
	}
	return DateRange{Start: start, End: end}
}

// ClampRange pulls a selection inside the span cap and the available bounds.
// Callers use it to suggest a valid selection, not to replace a rejected one silently.
func ClampRange(start, end, minAvailable, maxAvailable time.Time) DateRange {
	minAvailable = timeline.CivilDate(minAvailable)
	maxAvailable = timeline.CivilDate(maxAvailable)
	start = timeline.CivilDate(start)
	end = timeline.CivilDate(end)

	if start.Before(minAvailable) {
		start = minAvailable
	}
	if start.After(maxAvailable) {
		start = maxAvailable
	}
	if end.Before(start) {
		end = start
	}
	if limit := start.AddDate(0, 0, MaxSpanDays); end.After(limit) {
		end = limit
	}
	if end.After(maxAvailable) {
		end = maxAvailable
	}
	return DateRange{Start: start, End: end}
}

// Contains reports whether date falls inside the range.
func (r DateRange) Contains(date time.Time) bool {
	day := timeline.CivilDate(date)
	return !day.Before(r.Start) && !day.After(r.End)
}

// Days returns the number of calendar days covered.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// String renders the range as "YYYY-MM-DD..YYYY-MM-DD".
func (r DateRange) String() string {
	return r.Start.Format(dateLayout) + ".." + r.End.Format(dateLayout)
}
