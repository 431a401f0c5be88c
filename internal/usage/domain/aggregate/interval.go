package aggregate

import (
	"fmt"

	"usage-dashboard/internal/usage/domain/timeline"
)

// Interval is one of four fixed six-hour parts of a day.
type Interval int

const (
	// Night covers hours 0-5.
	Night Interval = iota
	// Morning covers hours 6-11.
	Morning
	// Afternoon covers hours 12-17.
	Afternoon
	// Evening covers hours 18-23.
	Evening
)

// Intervals lists the partition in display order.
var Intervals = [...]Interval{Night, Morning, Afternoon, Evening}

var intervalLabels = [...]string{
	Night:     "Midnight to 6AM",
	Morning:   "6AM to 12PM",
	Afternoon: "12PM to 6PM",
	Evening:   "6PM to Midnight",
}

// Label returns the human name of the interval.
func (i Interval) Label() string {
	if i < Night || i > Evening {
		return ""
	}
	return intervalLabels[i]
}

// IntervalOf maps an hour to its interval.
func IntervalOf(hour int) (Interval, error) {
	if hour < 0 || hour >= timeline.HoursPerDay {
		return 0, fmt.Errorf("%w: %d", timeline.ErrInvalidHour, hour)
	}
	return Interval(hour / 6), nil
}

// IntervalTotal is the summed amount of one interval.
type IntervalTotal struct {
	Interval Interval `json:"-"`
	Label    string   `json:"label"`
	Amount   float64  `json:"amount"`
}

// IntervalTotals sums the window per interval. The result always holds four totals in
// Intervals order, including zero totals for intervals without data.
func IntervalTotals(entries []timeline.Entry) ([]IntervalTotal, error) {
	if len(entries) == 0 {
		return nil, timeline.ErrEmptyWindow
	}
	var sums [len(Intervals)]float64
	for _, entry := range entries {
		interval, err := IntervalOf(entry.Hour)
		if err != nil {
			return nil, err
		}
		sums[interval] += entry.Amount
	}

	result := make([]IntervalTotal, 0, len(Intervals))
	for _, interval := range Intervals {
		result = append(result, IntervalTotal{
			Interval: interval,
			Label:    interval.Label(),
			Amount:   sums[interval],
		})
	}
	return result, nil
}
