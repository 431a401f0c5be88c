package http

import (
	"io"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	AllowedOrigins []string
	ReportTitle    string
	Logger         *log.Logger
	// AccessLog receives one line per request in Apache combined format. Defaults to stdout.
	AccessLog io.Writer
}

// NewRouter wires the dashboard, export, health and metrics endpoints behind CORS and access logging.
func NewRouter(builder DashboardBuilder, opts RouterOptions) (http.Handler, error) {
	dashboardHandler, err := NewDashboardHandler(builder)
	if err != nil {
		return nil, err
	}
	exportHandler, err := NewExportHandler(builder, opts.ReportTitle, opts.Logger)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	r.Handle("/api/v1/dashboard", dashboardHandler).Methods(http.MethodGet)
	r.Handle("/api/v1/dashboard/export.{format:xlsx|pdf|csv}", exportHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
	})

	accessLog := opts.AccessLog
	if accessLog == nil {
		accessLog = os.Stdout
	}
	return handlers.CombinedLoggingHandler(accessLog, c.Handler(r)), nil
}
