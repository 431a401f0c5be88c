package timeline

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// HoursPerDay is the number of hourly slots in one calendar day.
const HoursPerDay = 24

const (
	dateLayout = "2006-01-02"
	keyLayout  = dateLayout + " 15"
)

// RawRow is a row as a source hands it over. Field types depend on the driver
// (time.Time, string, []byte, int64, float64) and are coerced by Normalize.
type RawRow struct {
	Date   any
	Hour   any
	Amount any
}

// TimestampKey identifies an hourly slot as "YYYY-MM-DD HH".
// Lexicographic order of keys equals chronological order.
type TimestampKey string

// NewTimestampKey builds the key for a date and hour.
func NewTimestampKey(date time.Time, hour int) TimestampKey {
	return TimestampKey(fmt.Sprintf("%s %02d", date.Format(dateLayout), hour))
}

// ParseTimestampKey recovers the date and hour encoded in a key.
func ParseTimestampKey(key string) (time.Time, int, error) {
	datePart, hourPart, ok := strings.Cut(key, " ")
	if !ok || len(hourPart) != 2 || !isDigit(hourPart[0]) || !isDigit(hourPart[1]) {
		return time.Time{}, 0, fmt.Errorf("%w: %q", ErrInvalidTimestampKey, key)
	}
	date, err := time.Parse(dateLayout, datePart)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("%w: %q", ErrInvalidTimestampKey, key)
	}
	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 0 || hour >= HoursPerDay {
		return time.Time{}, 0, fmt.Errorf("%w: %q", ErrInvalidTimestampKey, key)
	}
	return date, hour, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// String returns the raw key.
func (k TimestampKey) String() string { return string(k) }

// Entry is a validated hourly record.
// Invariants: Date is a UTC midnight, 0 <= Hour < 24, Amount >= 0, Key matches Date and Hour.
type Entry struct {
	Date   time.Time
	Hour   int
	Amount float64
	Key    TimestampKey
}

// NewEntry validates and builds an entry.
func NewEntry(date time.Time, hour int, amount float64) (Entry, error) {
	if date.IsZero() {
		return Entry{}, ErrInvalidDate
	}
	if hour < 0 || hour >= HoursPerDay {
		return Entry{}, fmt.Errorf("%w: %d", ErrInvalidHour, hour)
	}
	if err := validateAmount(amount); err != nil {
		return Entry{}, err
	}
	day := CivilDate(date)
	return Entry{
		Date:   day,
		Hour:   hour,
		Amount: amount,
		Key:    NewTimestampKey(day, hour),
	}, nil
}

// At returns the start of the entry's hour.
func (e Entry) At() time.Time {
	return e.Date.Add(time.Duration(e.Hour) * time.Hour)
}

// CivilDate returns the calendar date of t as a UTC midnight.
func CivilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
