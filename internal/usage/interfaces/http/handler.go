package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"usage-dashboard/internal/observability/metrics"
	"usage-dashboard/internal/usage/application"
	"usage-dashboard/internal/usage/domain/series"
	"usage-dashboard/internal/usage/domain/timeline"
	"usage-dashboard/internal/usage/interfaces/export"
)

const dateLayout = "2006-01-02"

// DashboardBuilder computes one dashboard pass.
type DashboardBuilder interface {
	Build(ctx context.Context, req application.Request) (*application.Dashboard, error)
}

// DashboardHandler serves the computed dashboard as JSON.
type DashboardHandler struct {
	builder DashboardBuilder
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(builder DashboardBuilder) (*DashboardHandler, error) {
	if builder == nil {
		return nil, errors.New("dashboard handler: nil builder")
	}
	return &DashboardHandler{builder: builder}, nil
}

// ServeHTTP handles GET /api/v1/dashboard.
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	req, err := parseRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	dashboard, err := h.builder.Build(r.Context(), req)
	if err != nil {
		writeBuildError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(dashboard)
}

// ExportHandler serves the dashboard as a downloadable report.
type ExportHandler struct {
	builder DashboardBuilder
	title   string
	logger  *log.Logger
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(builder DashboardBuilder, title string, logger *log.Logger) (*ExportHandler, error) {
	if builder == nil {
		return nil, errors.New("export handler: nil builder")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &ExportHandler{builder: builder, title: title, logger: logger}, nil
}

// ServeHTTP handles GET /api/v1/dashboard/export.{format}.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	format := strings.ToLower(mux.Vars(r)["format"])
	if format == "" {
		format = strings.ToLower(r.URL.Query().Get("format"))
	}
	req, err := parseRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	dashboard, err := h.builder.Build(r.Context(), req)
	if err != nil {
		writeBuildError(w, err)
		return
	}

	started := time.Now()
	data, err := export.Build(format, h.title, dashboard)
	if err != nil {
		metrics.ObserveExport(format, metrics.ResultError, time.Since(started))
		if errors.Is(err, export.ErrUnknownFormat) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Printf("export failed: id=%s format=%s err=%v", dashboard.ID, format, err)
		http.Error(w, "export error", http.StatusInternalServerError)
		return
	}
	metrics.ObserveExport(format, metrics.ResultSuccess, time.Since(started))

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(dashboard, format)))
	_, _ = w.Write(data)
}

func parseRequest(r *http.Request) (application.Request, error) {
	query := r.URL.Query()
	start, err := parseDateQuery(query.Get("start"), "start")
	if err != nil {
		return application.Request{}, err
	}
	end, err := parseDateQuery(query.Get("end"), "end")
	if err != nil {
		return application.Request{}, err
	}
	selection, err := series.ParseSelection(query.Get("series"))
	if err != nil {
		return application.Request{}, err
	}
	return application.Request{Start: start, End: end, Selection: selection}, nil
}

func parseDateQuery(value, name string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be YYYY-MM-DD", name)
	}
	return parsed, nil
}

func writeBuildError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, timeline.ErrInvalidRange):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, timeline.ErrSourceUnavailable):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, timeline.ErrInvalidDate),
		errors.Is(err, timeline.ErrInvalidHour),
		errors.Is(err, timeline.ErrInvalidAmount),
		errors.Is(err, timeline.ErrNegativeAmount):
		http.Error(w, err.Error(), http.StatusBadGateway)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		http.Error(w, "request cancelled", http.StatusGatewayTimeout)
	default:
		http.Error(w, "dashboard error", http.StatusInternalServerError)
	}
}
