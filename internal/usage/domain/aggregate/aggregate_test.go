package aggregate

import (
	"errors"
	"testing"
	"time"

	"usage-dashboard/internal/usage/domain/timeline"
)

func TestGroupByHourConservesMassWithDuplicates(t *testing.T) {
	entries := []timeline.Entry{
		entry(t, 1, 0, 10),
		entry(t, 1, 0, 2.5),
		entry(t, 1, 1, 4),
		entry(t, 2, 0, 7),
		entry(t, 1, 1, 0.5),
	}

	groups := GroupByHour(entries)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if groups[0].Amount != 12.5 || groups[1].Amount != 4.5 || groups[2].Amount != 7 {
		t.Fatalf("unexpected group amounts %+v", groups)
	}

	var grouped float64
	for _, g := range groups {
		grouped += g.Amount
	}
	if grouped != Total(entries) {
		t.Fatalf("mass not conserved: grouped=%v raw=%v", grouped, Total(entries))
	}
}

func TestGroupByHourKeepsFirstAppearanceOrder(t *testing.T) {
	entries := []timeline.Entry{
		entry(t, 2, 5, 1),
		entry(t, 1, 3, 1),
		entry(t, 2, 5, 1),
	}
	groups := GroupByHour(entries)
	if groups[0].Key != "2023-10-02 05" || groups[1].Key != "2023-10-01 03" {
		t.Fatalf("unexpected order %s %s", groups[0].Key, groups[1].Key)
	}
}

func TestIntervalTotalsPartitionFullDay(t *testing.T) {
	var entries []timeline.Entry
	for h := 0; h < 24; h++ {
		entries = append(entries, entry(t, 1, h, 1))
	}

	totals, err := IntervalTotals(entries)
	if err != nil {
		t.Fatalf("interval totals: %v", err)
	}
	want := []string{"Midnight to 6AM", "6AM to 12PM", "12PM to 6PM", "6PM to Midnight"}
	var sum float64
	for i, total := range totals {
		if total.Label != want[i] {
			t.Fatalf("bucket %d label: got %s want %s", i, total.Label, want[i])
		}
		if total.Amount != 6 {
			t.Fatalf("bucket %d amount: got %v want 6", i, total.Amount)
		}
		sum += total.Amount
	}
	if sum != Total(entries) {
		t.Fatalf("partition incomplete: %v vs %v", sum, Total(entries))
	}
}

func TestIntervalBoundaries(t *testing.T) {
	cases := map[int]Interval{0: Night, 5: Night, 6: Morning, 11: Morning, 12: Afternoon, 17: Afternoon, 18: Evening, 23: Evening}
	for hour, want := range cases {
		got, err := IntervalOf(hour)
		if err != nil {
			t.Fatalf("interval of %d: %v", hour, err)
		}
		if got != want {
			t.Fatalf("hour %d: got %s want %s", hour, got.Label(), want.Label())
		}
	}
	if _, err := IntervalOf(24); !errors.Is(err, timeline.ErrInvalidHour) {
		t.Fatalf("expected ErrInvalidHour, got %v", err)
	}
}

func TestIntervalTotalsIncludesEmptyBuckets(t *testing.T) {
	totals, err := IntervalTotals([]timeline.Entry{entry(t, 1, 0, 3)})
	if err != nil {
		t.Fatalf("interval totals: %v", err)
	}
	if len(totals) != 4 || totals[0].Amount != 3 || totals[3].Amount != 0 {
		t.Fatalf("unexpected totals %+v", totals)
	}
}

func TestExtremaOnEmptyWindowFail(t *testing.T) {
	if _, err := ExtremeHour(nil, Highest); !errors.Is(err, timeline.ErrEmptyWindow) {
		t.Fatalf("extreme hour: expected ErrEmptyWindow, got %v", err)
	}
	if _, err := ExtremeDay(nil, Lowest); !errors.Is(err, timeline.ErrEmptyWindow) {
		t.Fatalf("extreme day: expected ErrEmptyWindow, got %v", err)
	}
	if _, err := DailyExtremes(nil, Highest); !errors.Is(err, timeline.ErrEmptyWindow) {
		t.Fatalf("daily extremes: expected ErrEmptyWindow, got %v", err)
	}
	if _, err := DailyExtreme(nil, day(1), Highest); !errors.Is(err, timeline.ErrEmptyWindow) {
		t.Fatalf("daily extreme: expected ErrEmptyWindow, got %v", err)
	}
	if _, err := IntervalTotals(nil); !errors.Is(err, timeline.ErrEmptyWindow) {
		t.Fatalf("interval totals: expected ErrEmptyWindow, got %v", err)
	}
	if _, err := AverageDaily(nil); !errors.Is(err, timeline.ErrEmptyWindow) {
		t.Fatalf("average daily: expected ErrEmptyWindow, got %v", err)
	}
}

func TestExtremumTieBreakIsFirstOccurrence(t *testing.T) {
	entries := []timeline.Entry{
		entry(t, 1, 9, 5),
		entry(t, 1, 14, 50),
		entry(t, 1, 3, 50),
		entry(t, 2, 1, 5),
	}
	groups := GroupByHour(entries)

	for run := 0; run < 10; run++ {
		highest, err := ExtremeHour(groups, Highest)
		if err != nil {
			t.Fatalf("extreme hour: %v", err)
		}
		if highest.Key != "2023-10-01 14" {
			t.Fatalf("run %d: expected first maximal group, got %s", run, highest.Key)
		}
		lowest, err := ExtremeHour(groups, Lowest)
		if err != nil {
			t.Fatalf("extreme hour: %v", err)
		}
		if lowest.Key != "2023-10-01 09" {
			t.Fatalf("run %d: expected first minimal group, got %s", run, lowest.Key)
		}
	}

	daily, err := DailyExtreme(groups, day(1), Highest)
	if err != nil {
		t.Fatalf("daily extreme: %v", err)
	}
	if daily.Hour != 14 {
		t.Fatalf("expected hour 14, got %d", daily.Hour)
	}
}

func TestDailyExtremesPerDay(t *testing.T) {
	entries := []timeline.Entry{
		entry(t, 1, 0, 1),
		entry(t, 1, 20, 9),
		entry(t, 2, 3, 4),
		entry(t, 2, 4, 2),
	}
	peaks, err := DailyExtremes(GroupByHour(entries), Highest)
	if err != nil {
		t.Fatalf("daily extremes: %v", err)
	}
	if len(peaks) != 2 || peaks[0].Hour != 20 || peaks[1].Hour != 3 {
		t.Fatalf("unexpected peaks %+v", peaks)
	}

	troughs, err := DailyExtremes(GroupByHour(entries), Lowest)
	if err != nil {
		t.Fatalf("daily extremes: %v", err)
	}
	if troughs[0].Hour != 0 || troughs[1].Hour != 4 {
		t.Fatalf("unexpected troughs %+v", troughs)
	}
}

func TestThreeDayScenario(t *testing.T) {
	var entries []timeline.Entry
	for d, amount := range []float64{10, 20, 5} {
		for h := 0; h < 24; h++ {
			entries = append(entries, entry(t, d+1, h, amount))
		}
	}

	if got := Total(entries); got != 840 {
		t.Fatalf("total: got %v want 840", got)
	}

	days := GroupByDay(entries)
	highest, err := ExtremeDay(days, Highest)
	if err != nil {
		t.Fatalf("highest day: %v", err)
	}
	if !highest.Date.Equal(day(2)) || highest.Amount != 480 {
		t.Fatalf("highest day: got %v %v", highest.Date, highest.Amount)
	}
	lowest, err := ExtremeDay(days, Lowest)
	if err != nil {
		t.Fatalf("lowest day: %v", err)
	}
	if !lowest.Date.Equal(day(3)) || lowest.Amount != 120 {
		t.Fatalf("lowest day: got %v %v", lowest.Date, lowest.Amount)
	}

	buckets, err := IntervalTotals(entries[:24])
	if err != nil {
		t.Fatalf("interval totals: %v", err)
	}
	for _, bucket := range buckets {
		if bucket.Amount != 60 {
			t.Fatalf("day 1 bucket %s: got %v want 60", bucket.Label, bucket.Amount)
		}
	}

	avg, err := AverageDaily(entries)
	if err != nil {
		t.Fatalf("average daily: %v", err)
	}
	if avg != 280 {
		t.Fatalf("average daily: got %v want 280", avg)
	}
}

func TestShare(t *testing.T) {
	if got := Share(25, 100); got != 25 {
		t.Fatalf("share: got %v", got)
	}
	if got := Share(5, 0); got != 0 {
		t.Fatalf("share of zero whole: got %v", got)
	}
}

func entry(t *testing.T, d, hour int, amount float64) timeline.Entry {
	t.Helper()
	e, err := timeline.NewEntry(day(d), hour, amount)
	if err != nil {
		t.Fatalf("new entry: %v", err)
	}
	return e
}

func day(d int) time.Time {
	return time.Date(2023, time.October, d, 0, 0, 0, 0, time.UTC)
}
