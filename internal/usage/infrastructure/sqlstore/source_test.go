package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"usage-dashboard/internal/usage/domain/timeline"
)

func TestSourceFetchesOrderedRowsFromSQLite(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	if _, err := db.ExecContext(ctx, `CREATE TABLE hour_wise (my_date TEXT, my_hour INTEGER, sum_of_amount REAL)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	inserts := []struct {
		date   string
		hour   int
		amount float64
	}{
		{"2023-10-02", 1, 30},
		{"2023-10-01", 23, 20.5},
		{"2023-10-02", 0, 10},
		{"2023-10-01", 5, 7},
	}
	for _, in := range inserts {
		if _, err := db.ExecContext(ctx, `INSERT INTO hour_wise VALUES (?, ?, ?)`, in.date, in.hour, in.amount); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	src, err := NewSource(db, "hour_wise")
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	rows, err := src.Fetch(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}

	entries, err := timeline.Normalize(rows)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	want := []timeline.TimestampKey{"2023-10-01 05", "2023-10-01 23", "2023-10-02 00", "2023-10-02 01"}
	for i, key := range want {
		if entries[i].Key != key {
			t.Fatalf("entry %d: got %s want %s", i, entries[i].Key, key)
		}
	}
	if entries[1].Amount != 20.5 {
		t.Fatalf("unexpected amount %v", entries[1].Amount)
	}
}

func TestSourceCustomColumns(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	if _, err := db.ExecContext(ctx, `CREATE TABLE prediction (day TEXT, hr INTEGER, predicted REAL)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO prediction VALUES ('2023-10-04', 12, 99.5)`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	src, err := NewSource(db, "prediction", WithColumns("day", "hr", "predicted"))
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	if got := src.Query(); got != "SELECT day, hr, predicted FROM prediction ORDER BY day ASC, hr ASC" {
		t.Fatalf("unexpected query %q", got)
	}
	rows, err := src.Fetch(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	entries, err := timeline.Normalize(rows)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if entries[0].Key != "2023-10-04 12" || entries[0].Amount != 99.5 {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
}

func TestSourceMissingTable(t *testing.T) {
	src, err := NewSource(openSQLite(t), "missing")
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	if _, err := src.Fetch(context.Background()); err == nil {
		t.Fatalf("expected error for missing table")
	}
}

func TestNewSourceRejectsUnsafeIdentifiers(t *testing.T) {
	db := openSQLite(t)
	for _, table := range []string{"", "hour; DROP TABLE x", "a.b.c", "1table"} {
		if _, err := NewSource(db, table); !errors.Is(err, ErrInvalidIdentifier) {
			t.Fatalf("table %q: expected ErrInvalidIdentifier, got %v", table, err)
		}
	}
	if _, err := NewSource(db, DefaultPredictionTable); err != nil {
		t.Fatalf("schema-qualified table should be accepted: %v", err)
	}
	if _, err := NewSource(nil, DefaultUsageTable); err == nil {
		t.Fatalf("expected error for nil db")
	}
}

func TestDriverName(t *testing.T) {
	cases := map[string]string{"postgres": "pgx", "PGX": "pgx", "mysql": "mysql", "sqlite3": "sqlite"}
	for in, want := range cases {
		got, err := DriverName(in)
		if err != nil || got != want {
			t.Fatalf("driver %q: got %q %v", in, got, err)
		}
	}
	if _, err := DriverName("oracle"); !errors.Is(err, ErrUnsupportedDriver) {
		t.Fatalf("expected ErrUnsupportedDriver, got %v", err)
	}
}

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), "sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
