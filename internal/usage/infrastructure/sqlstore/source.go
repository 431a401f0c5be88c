package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"usage-dashboard/internal/usage/domain/timeline"
)

const (
	// DefaultUsageTable holds the hour-wise usage totals.
	DefaultUsageTable = "Airtel_Hour_Wise_Data"
	// DefaultPredictionTable holds the daily model output, one row per predicted hour.
	DefaultPredictionTable = "vr.airtel_daily_prediction"

	defaultDateColumn   = "my_date"
	defaultHourColumn   = "my_hour"
	defaultAmountColumn = "sum_of_amount"
)

var (
	// ErrUnsupportedDriver is returned by Open for an unknown driver name.
	ErrUnsupportedDriver = errors.New("sqlstore: unsupported driver")
	// ErrInvalidIdentifier is returned when a table or column name is not a plain identifier.
	ErrInvalidIdentifier = errors.New("sqlstore: invalid identifier")
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Open connects to a database and verifies it with a ping.
// driver is one of postgres (pgx), mysql or sqlite.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	name, err := DriverName(driver)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("sqlstore: empty dsn for driver %s", driver)
	}
	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", driver, err)
	}
	if name == "sqlite" {
		db.SetMaxOpenConns(1)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore: ping %s: %w", driver, err)
	}
	return db, nil
}

// DriverName maps a configured driver to its database/sql registration name.
func DriverName(driver string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "postgresql", "pgx":
		return "pgx", nil
	case "mysql":
		return "mysql", nil
	case "sqlite", "sqlite3":
		return "sqlite", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
}

// Source reads (date, hour, amount) rows from one table, ordered by date and hour.
type Source struct {
	db           *sql.DB
	table        string
	dateColumn   string
	hourColumn   string
	amountColumn string
}

// Option configures a Source.
type Option func(*Source)

// WithColumns overrides the date, hour and amount column names. Empty names keep the default.
func WithColumns(date, hour, amount string) Option {
	return func(s *Source) {
		if date != "" {
			s.dateColumn = date
		}
		if hour != "" {
			s.hourColumn = hour
		}
		if amount != "" {
			s.amountColumn = amount
		}
	}
}

// NewSource builds a table source.
func NewSource(db *sql.DB, table string, opts ...Option) (*Source, error) {
	if db == nil {
		return nil, errors.New("sqlstore: nil db")
	}
	s := &Source{
		db:           db,
		table:        table,
		dateColumn:   defaultDateColumn,
		hourColumn:   defaultHourColumn,
		amountColumn: defaultAmountColumn,
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, ident := range []string{s.table, s.dateColumn, s.hourColumn, s.amountColumn} {
		if !identifierPattern.MatchString(ident) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, ident)
		}
	}
	return s, nil
}

// Table returns the table the source reads.
func (s *Source) Table() string {
	return s.table
}

// Query returns the SELECT statement the source runs.
func (s *Source) Query() string {
	return fmt.Sprintf(
		"SELECT %s, %s, %s FROM %s ORDER BY %s ASC, %s ASC",
		s.dateColumn, s.hourColumn, s.amountColumn, s.table, s.dateColumn, s.hourColumn,
	)
}

// Fetch loads every row of the table. Values are passed through untyped; the normalizer coerces them.
func (s *Source) Fetch(ctx context.Context) ([]timeline.RawRow, error) {
	rows, err := s.db.QueryContext(ctx, s.Query())
	if err != nil {
		return nil, fmt.Errorf("sqlstore: query %s: %w", s.table, err)
	}
	defer rows.Close()

	var result []timeline.RawRow
	for rows.Next() {
		var row timeline.RawRow
		if err := rows.Scan(&row.Date, &row.Hour, &row.Amount); err != nil {
			return nil, fmt.Errorf("sqlstore: scan %s: %w", s.table, err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: rows %s: %w", s.table, err)
	}
	return result, nil
}
