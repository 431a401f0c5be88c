package influx

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/query"

	"usage-dashboard/internal/usage/domain/timeline"
)

const defaultLookback = 45 * 24 * time.Hour

// Config selects the measurement and field that carry hourly amounts.
type Config struct {
	Org         string
	Bucket      string
	Measurement string
	Field       string
	Lookback    time.Duration
	// Location is the zone calendar dates and hours are read in. Defaults to UTC.
	Location *time.Location
}

// Source reads hourly sums from InfluxDB with a Flux aggregateWindow query.
type Source struct {
	client influxdb2.Client
	cfg    Config
}

// NewSource builds a source on an existing client.
func NewSource(client influxdb2.Client, cfg Config) (*Source, error) {
	if client == nil {
		return nil, errors.New("influx: nil client")
	}
	if strings.TrimSpace(cfg.Org) == "" || strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("influx: org and bucket are required")
	}
	if strings.TrimSpace(cfg.Measurement) == "" || strings.TrimSpace(cfg.Field) == "" {
		return nil, errors.New("influx: measurement and field are required")
	}
	if cfg.Lookback <= 0 {
		cfg.Lookback = defaultLookback
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Source{client: client, cfg: cfg}, nil
}

// Dial creates a client for url and token and builds a source on it.
func Dial(url, token string, cfg Config) (*Source, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("influx: url is required")
	}
	client := influxdb2.NewClient(url, token)
	src, err := NewSource(client, cfg)
	if err != nil {
		client.Close()
		return nil, err
	}
	return src, nil
}

// Close releases the client.
func (s *Source) Close() {
	s.client.Close()
}

// Fetch runs the hourly query and returns one row per window.
func (s *Source) Fetch(ctx context.Context) ([]timeline.RawRow, error) {
	result, err := s.client.QueryAPI(s.cfg.Org).Query(ctx, BuildFlux(s.cfg))
	if err != nil {
		return nil, fmt.Errorf("influx: query %s/%s: %w", s.cfg.Bucket, s.cfg.Measurement, err)
	}
	defer result.Close()

	var rows []timeline.RawRow
	for result.Next() {
		row, err := rowFromRecord(result.Record(), s.cfg.Location)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("influx: read %s/%s: %w", s.cfg.Bucket, s.cfg.Measurement, err)
	}
	return rows, nil
}

// BuildFlux renders the query: hourly sums stamped with the window start, oldest first.
func BuildFlux(cfg Config) string {
	lookback := cfg.Lookback
	if lookback <= 0 {
		lookback = defaultLookback
	}
	return fmt.Sprintf(`from(bucket: %q)
  |> range(start: -%dh)
  |> filter(fn: (r) => r["_measurement"] == %q and r["_field"] == %q)
  |> aggregateWindow(every: 1h, fn: sum, createEmpty: false, timeSrc: "_start")
  |> group()
  |> sort(columns: ["_time"])`,
		cfg.Bucket, int(lookback.Hours()), cfg.Measurement, cfg.Field)
}

func rowFromRecord(record *query.FluxRecord, loc *time.Location) (timeline.RawRow, error) {
	if record == nil {
		return timeline.RawRow{}, errors.New("influx: nil record")
	}
	at := record.Time()
	if at.IsZero() {
		return timeline.RawRow{}, fmt.Errorf("influx: record without _time in table %d", record.Table())
	}
	if loc != nil {
		at = at.In(loc)
	}
	return timeline.RawRow{Date: at, Hour: at.Hour(), Amount: record.Value()}, nil
}
