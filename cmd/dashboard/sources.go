package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"usage-dashboard/internal/config"
	"usage-dashboard/internal/usage/application"
	"usage-dashboard/internal/usage/infrastructure/csvfile"
	"usage-dashboard/internal/usage/infrastructure/influx"
	"usage-dashboard/internal/usage/infrastructure/memory"
	"usage-dashboard/internal/usage/infrastructure/sqlstore"
)

const demoDays = 45

type sourceSet struct {
	usage      application.Source
	prediction application.Source
	db         *sql.DB
	closers    []func()
}

func (s *sourceSet) Close() {
	for _, closeFn := range s.closers {
		closeFn()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}

// openSources builds the usage and prediction sources for the configured driver.
// now anchors the demo data of the memory driver.
func openSources(ctx context.Context, cfg config.Config, now time.Time) (*sourceSet, error) {
	src := cfg.Source
	switch strings.ToLower(src.Driver) {
	case config.DriverPostgres, config.DriverMySQL, config.DriverSQLite:
		db, err := sqlstore.Open(ctx, src.Driver, src.DSN)
		if err != nil {
			return nil, err
		}
		columns := sqlstore.WithColumns(src.DateColumn, src.HourColumn, src.AmountColumn)
		usage, err := sqlstore.NewSource(db, src.UsageTable, columns)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		prediction, err := sqlstore.NewSource(db, src.PredictionTable, columns)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return &sourceSet{usage: usage, prediction: prediction, db: db}, nil

	case config.DriverInflux:
		in := src.Influx
		loc, err := time.LoadLocation(in.Timezone)
		if err != nil {
			return nil, fmt.Errorf("influx timezone %q: %w", in.Timezone, err)
		}
		base := influx.Config{
			Org:      in.Org,
			Bucket:   in.Bucket,
			Field:    in.Field,
			Lookback: time.Duration(in.LookbackDays) * 24 * time.Hour,
			Location: loc,
		}
		usageCfg := base
		usageCfg.Measurement = in.UsageMeasurement
		usage, err := influx.Dial(in.URL, in.Token, usageCfg)
		if err != nil {
			return nil, err
		}
		predictionCfg := base
		predictionCfg.Measurement = in.PredictionMeasurement
		prediction, err := influx.Dial(in.URL, in.Token, predictionCfg)
		if err != nil {
			usage.Close()
			return nil, err
		}
		return &sourceSet{usage: usage, prediction: prediction, closers: []func(){usage.Close, prediction.Close}}, nil

	case config.DriverCSV:
		columns := csvfile.Columns{Date: src.DateColumn, Hour: src.HourColumn, Amount: src.AmountColumn}
		usage, err := csvfile.NewSource(src.UsageFile, columns)
		if err != nil {
			return nil, err
		}
		prediction, err := csvfile.NewSource(src.PredictionFile, columns)
		if err != nil {
			return nil, err
		}
		return &sourceSet{usage: usage, prediction: prediction}, nil

	case config.DriverMemory:
		return &sourceSet{
			usage:      memory.NewSource(memory.DemoRows(now, demoDays, 1)...),
			prediction: memory.NewSource(memory.DemoRows(now.AddDate(0, 0, 1), demoDays, 0.95)...),
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown source driver %q", config.ErrInvalidConfig, src.Driver)
}
