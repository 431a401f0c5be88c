package timeline

import "errors"

var (
	// ErrSourceUnavailable is returned when a source fails or yields no rows.
	ErrSourceUnavailable = errors.New("usage: source unavailable")
	// ErrEmptyWindow is returned when a window holds no entries.
	ErrEmptyWindow = errors.New("usage: empty window")
	// ErrInvalidRange is returned when a date range selection violates its bounds.
	ErrInvalidRange = errors.New("usage: invalid range")
	// ErrInvalidDate is returned when a row date cannot be parsed.
	ErrInvalidDate = errors.New("usage: invalid date")
	// ErrInvalidHour is returned when a row hour is not an integer in 0..23.
	ErrInvalidHour = errors.New("usage: invalid hour")
	// ErrInvalidAmount is returned when a row amount is not a finite number.
	ErrInvalidAmount = errors.New("usage: invalid amount")
	// ErrNegativeAmount is returned when a row amount is below zero.
	ErrNegativeAmount = errors.New("usage: negative amount")
	// ErrInvalidTimestampKey is returned when a key does not match "YYYY-MM-DD HH".
	ErrInvalidTimestampKey = errors.New("usage: invalid timestamp key")
)
