package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"usage-dashboard/internal/config"
	"usage-dashboard/internal/observability/metrics"
	"usage-dashboard/internal/usage/application"
)

const dateLayout = "2006-01-02"

var (
	cfgFile  string
	envFiles []string
)

var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Hourly usage dashboard for recharge and billing data",
	Long: `dashboard reads hourly usage and prediction rows from a SQL table, InfluxDB,
CSV exports or built-in demo data, and serves the aggregated dashboard over HTTP
or prints and exports it from the command line.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (default $DASHBOARD_CONFIG)")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, ".env files loaded before the config")
}

func loadConfig() (config.Config, error) {
	if err := config.LoadDotEnv(envFiles...); err != nil {
		return config.Config{}, err
	}
	return config.Load(cfgFile)
}

func newLogger() *log.Logger {
	return log.New(os.Stdout, "", log.LstdFlags)
}

// buildService wires sources, metrics and the dashboard service. The returned
// cleanup releases database and InfluxDB connections.
func buildService(ctx context.Context, cfg config.Config, logger *log.Logger) (*application.Service, func(), error) {
	sources, err := openSources(ctx, cfg, time.Now())
	if err != nil {
		return nil, nil, err
	}
	metrics.Init(sources.db, logger, cfg.Tables()...)

	anchor, err := application.ParseAnchor(cfg.Windows.SummaryAnchor)
	if err != nil {
		sources.Close()
		return nil, nil, err
	}
	w := cfg.Windows
	svc, err := application.NewService(
		sources.usage,
		sources.prediction,
		application.SystemClock{},
		logger,
		application.WithWindows(w.UsageDays, w.PredictionDays, w.ForecastDays, w.SummaryDays),
		application.WithAnchor(anchor),
	)
	if err != nil {
		sources.Close()
		return nil, nil, err
	}
	return svc, sources.Close, nil
}

func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s must be YYYY-MM-DD: %w", name, err)
	}
	return parsed, nil
}
