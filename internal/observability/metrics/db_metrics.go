package metrics

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func registerDBMetrics(db *sql.DB, logger *log.Logger, tables []string) {
	seen := make(map[string]struct{}, len(tables))
	for _, table := range tables {
		table := strings.TrimSpace(table)
		if _, ok := seen[table]; ok || table == "" {
			continue
		}
		seen[table] = struct{}{}
		prometheus.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name:        metricPrefix + "table_rows",
				Help:        "Rows currently stored in a source table",
				ConstLabels: prometheus.Labels{"table": table},
			},
			func() float64 {
				return countRows(db, logger, table)
			},
		))
	}
}

// countRows reads the row count of a source table. Failures read as zero and are logged.
func countRows(db *sql.DB, logger *log.Logger, table string) float64 {
	if db == nil {
		return 0
	}
	var count int64
	if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
		if logger != nil {
			logger.Printf("table row count failed: table=%s err=%v", table, err)
		}
		return 0
	}
	return float64(count)
}
