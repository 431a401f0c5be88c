package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "usage_dashboard_"

	resultSuccess     = "success"
	resultError       = "error"
	resultUnavailable = "unavailable"
	resultInvalid     = "invalid"
)

var (
	registerOnce sync.Once

	buildTotal   *prometheus.CounterVec
	buildLatency *prometheus.HistogramVec

	sourceFetchTotal   *prometheus.CounterVec
	sourceFetchLatency *prometheus.HistogramVec
	sourceRows         *prometheus.GaugeVec

	emptyWindowTotal *prometheus.CounterVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec
)

// Init registers dashboard metrics. When db is set, a row-count gauge is registered per table.
func Init(db *sql.DB, logger *log.Logger, tables ...string) {
	registerOnce.Do(func() {
		buildTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "build_total",
				Help: "Total dashboard computations by result",
			},
			[]string{"result"},
		)
		buildLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "build_latency_seconds",
				Help:    "Dashboard computation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		sourceFetchTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "source_fetch_total",
				Help: "Total source fetches by source and result",
			},
			[]string{"source", "result"},
		)
		sourceFetchLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "source_fetch_latency_seconds",
				Help:    "Source fetch latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source", "result"},
		)
		sourceRows = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "source_rows",
				Help: "Rows returned by the last fetch per source",
			},
			[]string{"source"},
		)

		emptyWindowTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "empty_window_total",
				Help: "Views rendered unavailable because their window held no data",
			},
			[]string{"view"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total report exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Report export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			buildTotal,
			buildLatency,
			sourceFetchTotal,
			sourceFetchLatency,
			sourceRows,
			emptyWindowTotal,
			exportTotal,
			exportLatency,
		)

		if db != nil {
			registerDBMetrics(db, logger, tables)
		}
	})
}

// ObserveBuild records a dashboard computation.
func ObserveBuild(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if buildTotal != nil {
		buildTotal.WithLabelValues(result).Inc()
	}
	if buildLatency != nil {
		buildLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveSourceFetch records one source fetch and the number of rows it returned.
func ObserveSourceFetch(source, result string, rows int, duration time.Duration) {
	if source == "" {
		source = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if sourceFetchTotal != nil {
		sourceFetchTotal.WithLabelValues(source, result).Inc()
	}
	if sourceFetchLatency != nil {
		sourceFetchLatency.WithLabelValues(source, result).Observe(duration.Seconds())
	}
	if sourceRows != nil && result == resultSuccess {
		sourceRows.WithLabelValues(source).Set(float64(rows))
	}
}

// IncEmptyWindow counts a view that had no data to show.
func IncEmptyWindow(view string) {
	if view == "" {
		view = "unknown"
	}
	if emptyWindowTotal != nil {
		emptyWindowTotal.WithLabelValues(view).Inc()
	}
}

// ObserveExport records export latency and result.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// Exported constants for callers.
const (
	ResultSuccess     = resultSuccess
	ResultError       = resultError
	ResultUnavailable = resultUnavailable
	ResultInvalid     = resultInvalid
)
