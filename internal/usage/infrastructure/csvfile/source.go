package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"usage-dashboard/internal/usage/domain/timeline"
)

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("csvfile: missing column")

// Columns names the header fields that hold date, hour and amount.
type Columns struct {
	Date   string
	Hour   string
	Amount string
}

// DefaultColumns matches the hour-wise table export.
func DefaultColumns() Columns {
	return Columns{Date: "my_date", Hour: "my_hour", Amount: "sum_of_amount"}
}

// Source reads rows from a CSV export on every Fetch.
type Source struct {
	path    string
	columns Columns
}

// NewSource builds a source for the file at path. Zero-value column names use the defaults.
func NewSource(path string, columns Columns) (*Source, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("csvfile: empty path")
	}
	defaults := DefaultColumns()
	if columns.Date == "" {
		columns.Date = defaults.Date
	}
	if columns.Hour == "" {
		columns.Hour = defaults.Hour
	}
	if columns.Amount == "" {
		columns.Amount = defaults.Amount
	}
	return &Source{path: path, columns: columns}, nil
}

// Fetch opens and parses the file.
func (s *Source) Fetch(ctx context.Context) ([]timeline.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("csvfile: open: %w", err)
	}
	defer file.Close()
	return Read(file, s.columns)
}

// Read parses CSV with a header row. Columns are looked up by name, case-insensitively.
func Read(r io.Reader, columns Columns) ([]timeline.RawRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("csvfile: header: %w", err)
	}
	dateIdx, err := columnIndex(header, columns.Date)
	if err != nil {
		return nil, err
	}
	hourIdx, err := columnIndex(header, columns.Hour)
	if err != nil {
		return nil, err
	}
	amountIdx, err := columnIndex(header, columns.Amount)
	if err != nil {
		return nil, err
	}
	width := max(dateIdx, hourIdx, amountIdx) + 1

	var rows []timeline.RawRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvfile: line %d: %w", line, err)
		}
		if len(record) < width {
			return nil, fmt.Errorf("csvfile: line %d: expected at least %d fields, got %d", line, width, len(record))
		}
		rows = append(rows, timeline.RawRow{
			Date:   strings.TrimSpace(record[dateIdx]),
			Hour:   strings.TrimSpace(record[hourIdx]),
			Amount: strings.TrimSpace(record[amountIdx]),
		})
	}
	return rows, nil
}

func columnIndex(header []string, name string) (int, error) {
	for i, field := range header {
		field = strings.TrimPrefix(field, "\ufeff")
		if strings.EqualFold(strings.TrimSpace(field), name) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrMissingColumn, name)
}
