package label

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidHourLabel is returned by ParseHour for text that is not a 12-hour clock label.
var ErrInvalidHourLabel = errors.New("label: invalid hour label")

const (
	peakLayout    = "3 PM, Jan02"
	kpiHourLayout = "Jan 02, 2006, 3 PM"
	kpiDayLayout  = "January 02, 2006"
)

// Hour renders an hour of day on the 12-hour clock: 0 -> "12 AM", 12 -> "12 PM", 13 -> "1 PM".
func Hour(h int) (string, error) {
	if h < 0 || h > 23 {
		return "", fmt.Errorf("label: hour %d out of range", h)
	}
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	clock := h % 12
	if clock == 0 {
		clock = 12
	}
	return fmt.Sprintf("%d %s", clock, suffix), nil
}

// ParseHour inverts Hour.
func ParseHour(s string) (int, error) {
	value, suffix, ok := strings.Cut(strings.TrimSpace(s), " ")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHourLabel, s)
	}
	clock, err := strconv.Atoi(value)
	if err != nil || clock < 1 || clock > 12 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHourLabel, s)
	}
	hour := clock % 12
	switch strings.ToUpper(suffix) {
	case "AM":
	case "PM":
		hour += 12
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidHourLabel, s)
	}
	return hour, nil
}

// PeakHour labels a per-day peak bar, e.g. "3 PM, Jan02".
func PeakHour(date time.Time, hour int) string {
	return at(date, hour).Format(peakLayout)
}

// KPIHour labels the highest or lowest hour card, e.g. "Jan 02, 2006, 3 PM".
func KPIHour(date time.Time, hour int) string {
	return at(date, hour).Format(kpiHourLayout)
}

// KPIDay labels the highest or lowest day card, e.g. "January 02, 2006".
func KPIDay(date time.Time) string {
	return date.Format(kpiDayLayout)
}

func at(date time.Time, hour int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, time.UTC)
}
