package aggregate

import (
	"time"

	"usage-dashboard/internal/usage/domain/timeline"
)

// HourTotal is the grouped amount of one (date, hour) slot.
type HourTotal struct {
	Date   time.Time             `json:"date"`
	Hour   int                   `json:"hour"`
	Key    timeline.TimestampKey `json:"key"`
	Amount float64               `json:"amount"`
}

// DayTotal is the grouped amount of one calendar date.
type DayTotal struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// GroupByHour sums amounts per (date, hour).
// Groups are ordered by the first appearance of their slot in entries; duplicates are added,
// so the grouped total always equals the raw total.
func GroupByHour(entries []timeline.Entry) []HourTotal {
	index := make(map[timeline.TimestampKey]int, len(entries))
	groups := make([]HourTotal, 0, len(entries))
	for _, entry := range entries {
		if i, ok := index[entry.Key]; ok {
			groups[i].Amount += entry.Amount
			continue
		}
		index[entry.Key] = len(groups)
		groups = append(groups, HourTotal{
			Date:   entry.Date,
			Hour:   entry.Hour,
			Key:    entry.Key,
			Amount: entry.Amount,
		})
	}
	return groups
}

// GroupByDay sums amounts per date, ordered by first appearance.
func GroupByDay(entries []timeline.Entry) []DayTotal {
	index := make(map[time.Time]int)
	days := make([]DayTotal, 0)
	for _, entry := range entries {
		if i, ok := index[entry.Date]; ok {
			days[i].Amount += entry.Amount
			continue
		}
		index[entry.Date] = len(days)
		days = append(days, DayTotal{Date: entry.Date, Amount: entry.Amount})
	}
	return days
}

// Total sums every amount in the window.
func Total(entries []timeline.Entry) float64 {
	var sum float64
	for _, entry := range entries {
		sum += entry.Amount
	}
	return sum
}

// AverageDaily divides the window total by the number of distinct dates present.
func AverageDaily(entries []timeline.Entry) (float64, error) {
	days := GroupByDay(entries)
	if len(days) == 0 {
		return 0, timeline.ErrEmptyWindow
	}
	return Total(entries) / float64(len(days)), nil
}

// Share returns part as a percentage of whole, or 0 when whole is 0.
func Share(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}
