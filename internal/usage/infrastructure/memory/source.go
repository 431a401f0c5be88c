package memory

import (
	"context"
	"math"
	"sync"
	"time"

	"usage-dashboard/internal/usage/domain/timeline"
)

// Source is an in-memory row source for demo/testing.
type Source struct {
	mu   sync.RWMutex
	rows []timeline.RawRow
	err  error
}

// NewSource constructs a source holding rows.
func NewSource(rows ...timeline.RawRow) *Source {
	s := &Source{}
	s.Replace(rows)
	return s
}

// Fetch returns a copy of the stored rows, or the configured failure.
func (s *Source) Fetch(ctx context.Context) ([]timeline.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]timeline.RawRow, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

// Replace swaps the stored rows.
func (s *Source) Replace(rows []timeline.RawRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append([]timeline.RawRow(nil), rows...)
}

// Fail makes every following Fetch return err. A nil err clears it.
func (s *Source) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Hourly builds consecutive hourly rows starting at hour 0 of start.
func Hourly(start time.Time, amounts ...float64) []timeline.RawRow {
	day := timeline.CivilDate(start)
	rows := make([]timeline.RawRow, 0, len(amounts))
	for i, amount := range amounts {
		at := day.Add(time.Duration(i) * time.Hour)
		rows = append(rows, timeline.RawRow{Date: timeline.CivilDate(at), Hour: at.Hour(), Amount: amount})
	}
	return rows
}

// DemoRows builds days of hourly rows ending on end with a daily load curve.
// scale shifts the amplitude so a prediction set differs from the usage set.
func DemoRows(end time.Time, days int, scale float64) []timeline.RawRow {
	if days <= 0 {
		return nil
	}
	first := timeline.CivilDate(end).AddDate(0, 0, -(days - 1))
	amounts := make([]float64, 0, days*timeline.HoursPerDay)
	for d := 0; d < days; d++ {
		weekday := first.AddDate(0, 0, d).Weekday()
		weekly := 1.0
		if weekday == time.Friday || weekday == time.Saturday {
			weekly = 1.15
		}
		for h := 0; h < timeline.HoursPerDay; h++ {
			curve := 1 + 0.6*math.Sin(float64(h-6)*math.Pi/12)
			amounts = append(amounts, math.Round(scale*weekly*curve*2500))
		}
	}
	return Hourly(first, amounts...)
}
