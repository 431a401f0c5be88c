package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Source drivers.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
	DriverInflux   = "influx"
	DriverCSV      = "csv"
	DriverMemory   = "memory"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

// Config is the dashboard configuration.
type Config struct {
	Source  SourceConfig `yaml:"source"`
	Windows WindowConfig `yaml:"windows"`
	HTTP    HTTPConfig   `yaml:"http"`
	Export  ExportConfig `yaml:"export"`
}

// SourceConfig selects where usage and prediction rows come from.
type SourceConfig struct {
	Driver          string       `yaml:"driver"`
	DSN             string       `yaml:"dsn"`
	UsageTable      string       `yaml:"usage_table"`
	PredictionTable string       `yaml:"prediction_table"`
	DateColumn      string       `yaml:"date_column"`
	HourColumn      string       `yaml:"hour_column"`
	AmountColumn    string       `yaml:"amount_column"`
	UsageFile       string       `yaml:"usage_file"`
	PredictionFile  string       `yaml:"prediction_file"`
	Influx          InfluxConfig `yaml:"influx"`
}

// InfluxConfig holds InfluxDB connection settings.
type InfluxConfig struct {
	URL                   string `yaml:"url"`
	Token                 string `yaml:"token"`
	Org                   string `yaml:"org"`
	Bucket                string `yaml:"bucket"`
	UsageMeasurement      string `yaml:"usage_measurement"`
	PredictionMeasurement string `yaml:"prediction_measurement"`
	Field                 string `yaml:"field"`
	LookbackDays          int    `yaml:"lookback_days"`
	Timezone              string `yaml:"timezone"`
}

// WindowConfig sizes the trailing windows, in days.
type WindowConfig struct {
	UsageDays      int    `yaml:"usage_days"`
	PredictionDays int    `yaml:"prediction_days"`
	ForecastDays   int    `yaml:"forecast_days"`
	SummaryDays    int    `yaml:"summary_days"`
	SummaryAnchor  string `yaml:"summary_anchor"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ExportConfig configures report files.
type ExportConfig struct {
	Dir   string `yaml:"dir"`
	Title string `yaml:"title"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Source: SourceConfig{
			Driver:          DriverMemory,
			UsageTable:      "Airtel_Hour_Wise_Data",
			PredictionTable: "vr.airtel_daily_prediction",
			DateColumn:      "my_date",
			HourColumn:      "my_hour",
			AmountColumn:    "sum_of_amount",
			Influx: InfluxConfig{
				UsageMeasurement:      "hourly_usage",
				PredictionMeasurement: "hourly_prediction",
				Field:                 "amount",
				LookbackDays:          45,
				Timezone:              "UTC",
			},
		},
		Windows: WindowConfig{
			UsageDays:      3,
			PredictionDays: 4,
			ForecastDays:   1,
			SummaryDays:    30,
			SummaryAnchor:  "latest",
		},
		HTTP: HTTPConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		Export: ExportConfig{
			Dir:   "var/reports",
			Title: "Usage Dashboard",
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at path (or DASHBOARD_CONFIG),
// then environment overrides, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("DASHBOARD_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

// LoadDotEnv loads the given .env files into the process environment, skipping missing ones.
// Variables already set are kept.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: stat %s: %w", file, err)
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("config: load %s: %w", file, err)
		}
	}
	return nil
}

func applyEnv(cfg *Config) {
	src := &cfg.Source
	src.Driver = getenvDefault("DASHBOARD_SOURCE_DRIVER", src.Driver)
	src.DSN = getenvDefault("DATABASE_URL", getenvDefault("DASHBOARD_DSN", src.DSN))
	src.UsageTable = getenvDefault("DASHBOARD_USAGE_TABLE", src.UsageTable)
	src.PredictionTable = getenvDefault("DASHBOARD_PREDICTION_TABLE", src.PredictionTable)
	src.UsageFile = getenvDefault("DASHBOARD_USAGE_CSV", src.UsageFile)
	src.PredictionFile = getenvDefault("DASHBOARD_PREDICTION_CSV", src.PredictionFile)

	influx := &src.Influx
	influx.URL = getenvDefault("INFLUX_URL", influx.URL)
	influx.Token = getenvDefault("INFLUX_TOKEN", influx.Token)
	influx.Org = getenvDefault("INFLUX_ORG", influx.Org)
	influx.Bucket = getenvDefault("INFLUX_BUCKET", influx.Bucket)
	influx.LookbackDays = getenvIntDefault("INFLUX_LOOKBACK_DAYS", influx.LookbackDays)
	influx.Timezone = getenvDefault("INFLUX_TIMEZONE", influx.Timezone)

	win := &cfg.Windows
	win.UsageDays = getenvIntDefault("DASHBOARD_USAGE_DAYS", win.UsageDays)
	win.PredictionDays = getenvIntDefault("DASHBOARD_PREDICTION_DAYS", win.PredictionDays)
	win.ForecastDays = getenvIntDefault("DASHBOARD_FORECAST_DAYS", win.ForecastDays)
	win.SummaryDays = getenvIntDefault("DASHBOARD_SUMMARY_DAYS", win.SummaryDays)
	win.SummaryAnchor = getenvDefault("DASHBOARD_SUMMARY_ANCHOR", win.SummaryAnchor)

	cfg.HTTP.Addr = getenvDefault("HTTP_ADDR", cfg.HTTP.Addr)
	if origins := splitCSV(os.Getenv("DASHBOARD_ALLOWED_ORIGINS")); len(origins) > 0 {
		cfg.HTTP.AllowedOrigins = origins
	}
	cfg.Export.Dir = getenvDefault("DASHBOARD_EXPORT_DIR", cfg.Export.Dir)
}

// Validate checks that the selected driver has what it needs and that windows are positive.
func (c Config) Validate() error {
	var problems []string
	src := c.Source
	switch strings.ToLower(src.Driver) {
	case DriverPostgres, DriverMySQL, DriverSQLite:
		if src.DSN == "" {
			problems = append(problems, "source.dsn is required for "+src.Driver)
		}
		if src.UsageTable == "" || src.PredictionTable == "" {
			problems = append(problems, "source.usage_table and source.prediction_table are required")
		}
	case DriverCSV:
		if src.UsageFile == "" || src.PredictionFile == "" {
			problems = append(problems, "source.usage_file and source.prediction_file are required for csv")
		}
	case DriverInflux:
		in := src.Influx
		if in.URL == "" || in.Org == "" || in.Bucket == "" {
			problems = append(problems, "source.influx.url, org and bucket are required for influx")
		}
		if in.UsageMeasurement == "" || in.PredictionMeasurement == "" || in.Field == "" {
			problems = append(problems, "source.influx measurements and field are required")
		}
	case DriverMemory:
	default:
		problems = append(problems, fmt.Sprintf("unknown source.driver %q", src.Driver))
	}

	w := c.Windows
	if w.UsageDays <= 0 || w.PredictionDays <= 0 || w.ForecastDays <= 0 || w.SummaryDays <= 0 {
		problems = append(problems, "window sizes must be positive")
	}
	switch strings.ToLower(w.SummaryAnchor) {
	case "latest", "today":
	default:
		problems = append(problems, fmt.Sprintf("windows.summary_anchor must be latest or today, got %q", w.SummaryAnchor))
	}
	if c.HTTP.Addr == "" {
		problems = append(problems, "http.addr is required")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Tables lists the SQL tables read by the configured source, or nil for other drivers.
func (c Config) Tables() []string {
	switch strings.ToLower(c.Source.Driver) {
	case DriverPostgres, DriverMySQL, DriverSQLite:
		return []string{c.Source.UsageTable, c.Source.PredictionTable}
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	var result []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
