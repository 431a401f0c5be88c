package aggregate

import (
	"fmt"
	"time"

	"usage-dashboard/internal/usage/domain/timeline"
)

// Mode selects which extremum to look for.
type Mode int

const (
	// Highest selects the maximum amount.
	Highest Mode = iota
	// Lowest selects the minimum amount.
	Lowest
)

// String returns "highest" or "lowest".
func (m Mode) String() string {
	if m == Lowest {
		return "lowest"
	}
	return "highest"
}

// beats reports whether candidate strictly improves on current, so ties keep the earlier value.
func (m Mode) beats(candidate, current float64) bool {
	if m == Lowest {
		return candidate < current
	}
	return candidate > current
}

// DailyExtreme returns the hour of date with the highest or lowest grouped amount.
// Ties resolve to the first group in iteration order.
func DailyExtreme(groups []HourTotal, date time.Time, mode Mode) (HourTotal, error) {
	day := timeline.CivilDate(date)
	var best HourTotal
	found := false
	for _, group := range groups {
		if !group.Date.Equal(day) {
			continue
		}
		if !found || mode.beats(group.Amount, best.Amount) {
			best = group
			found = true
		}
	}
	if !found {
		return HourTotal{}, fmt.Errorf("%w: no hours on %s", timeline.ErrEmptyWindow, day.Format("2006-01-02"))
	}
	return best, nil
}

// DailyExtremes returns one extreme hour per date, in order of first appearance of each date.
func DailyExtremes(groups []HourTotal, mode Mode) ([]HourTotal, error) {
	if len(groups) == 0 {
		return nil, timeline.ErrEmptyWindow
	}
	index := make(map[time.Time]int)
	result := make([]HourTotal, 0)
	for _, group := range groups {
		i, ok := index[group.Date]
		if !ok {
			index[group.Date] = len(result)
			result = append(result, group)
			continue
		}
		if mode.beats(group.Amount, result[i].Amount) {
			result[i] = group
		}
	}
	return result, nil
}

// ExtremeHour returns the single highest or lowest (date, hour) group of the window.
func ExtremeHour(groups []HourTotal, mode Mode) (HourTotal, error) {
	if len(groups) == 0 {
		return HourTotal{}, timeline.ErrEmptyWindow
	}
	best := groups[0]
	for _, group := range groups[1:] {
		if mode.beats(group.Amount, best.Amount) {
			best = group
		}
	}
	return best, nil
}

// ExtremeDay returns the highest or lowest date total of the window.
func ExtremeDay(days []DayTotal, mode Mode) (DayTotal, error) {
	if len(days) == 0 {
		return DayTotal{}, timeline.ErrEmptyWindow
	}
	best := days[0]
	for _, day := range days[1:] {
		if mode.beats(day.Amount, best.Amount) {
			best = day
		}
	}
	return best, nil
}
