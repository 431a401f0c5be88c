package timeline

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{
	dateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// Normalize validates raw rows and converts them into entries, keeping input order.
// An empty input returns ErrSourceUnavailable; the first invalid row fails the batch.
func Normalize(rows []RawRow) ([]Entry, error) {
	if len(rows) == 0 {
		return nil, ErrSourceUnavailable
	}

	entries := make([]Entry, 0, len(rows))
	for i, row := range rows {
		date, err := coerceDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("timeline: row %d: %w", i, err)
		}
		hour, err := coerceHour(row.Hour)
		if err != nil {
			return nil, fmt.Errorf("timeline: row %d: %w", i, err)
		}
		amount, err := coerceAmount(row.Amount)
		if err != nil {
			return nil, fmt.Errorf("timeline: row %d: %w", i, err)
		}
		entry, err := NewEntry(date, hour, amount)
		if err != nil {
			return nil, fmt.Errorf("timeline: row %d: %w", i, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// SortByDateHour returns a copy ordered by (date, hour). Equal slots keep input order.
func SortByDateHour(entries []Entry) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].Hour < sorted[j].Hour
	})
	return sorted
}

// Bounds returns the earliest and latest dates present.
func Bounds(entries []Entry) (time.Time, time.Time, error) {
	if len(entries) == 0 {
		return time.Time{}, time.Time{}, ErrEmptyWindow
	}
	minDate, maxDate := entries[0].Date, entries[0].Date
	for _, entry := range entries[1:] {
		if entry.Date.Before(minDate) {
			minDate = entry.Date
		}
		if entry.Date.After(maxDate) {
			maxDate = entry.Date
		}
	}
	return minDate, maxDate, nil
}

func coerceDate(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, ErrInvalidDate
		}
		return v, nil
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, ErrInvalidDate
		}
		return *v, nil
	case string:
		return parseDate(v)
	case []byte:
		return parseDate(string(v))
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidDate, value)
	}
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
}

func coerceHour(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint8:
		return int(v), nil
	case uint16:
		return int(v), nil
	case uint32:
		return int(v), nil
	case uint64:
		if v > math.MaxInt32 {
			return 0, fmt.Errorf("%w: %d", ErrInvalidHour, v)
		}
		return int(v), nil
	case float32:
		return integralHour(float64(v))
	case float64:
		return integralHour(v)
	case string:
		return parseHour(v)
	case []byte:
		return parseHour(string(v))
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidHour, value)
	}
}

func integralHour(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidHour, v)
	}
	return int(v), nil
}

func parseHour(value string) (int, error) {
	hour, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHour, value)
	}
	return hour, nil
}

func coerceAmount(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case string:
		return parseAmount(v)
	case []byte:
		return parseAmount(string(v))
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidAmount, value)
	}
}

func parseAmount(value string) (float64, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}
	return amount, nil
}

func validateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	if amount < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeAmount, amount)
	}
	return nil
}
