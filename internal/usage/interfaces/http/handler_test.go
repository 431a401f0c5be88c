package http

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"usage-dashboard/internal/usage/application"
	"usage-dashboard/internal/usage/domain/series"
	"usage-dashboard/internal/usage/domain/timeline"
	"usage-dashboard/internal/usage/infrastructure/memory"
)

func TestDashboardEndpoint(t *testing.T) {
	router := newTestRouter(t, usageRows(), predictionRows())

	rec := get(router, "/api/v1/dashboard?start=2023-10-01&end=2023-10-03")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var dashboard application.Dashboard
	if err := json.Unmarshal(rec.Body.Bytes(), &dashboard); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dashboard.RangeView.Total.Value != 840 || dashboard.RangeView.Total.Text != "৳ 840" {
		t.Fatalf("unexpected total %+v", dashboard.RangeView.Total)
	}
	if len(dashboard.Live.Series) != 3 || dashboard.Summary.HighestDay.Value != 480 {
		t.Fatalf("unexpected dashboard %+v", dashboard)
	}
}

func TestDashboardEndpointSelectsSeries(t *testing.T) {
	router := newTestRouter(t, usageRows(), predictionRows())
	rec := get(router, "/api/v1/dashboard?series=forecast")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var dashboard application.Dashboard
	if err := json.Unmarshal(rec.Body.Bytes(), &dashboard); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dashboard.Live.Selection != series.SelectForecast || len(dashboard.Live.Series) != 1 {
		t.Fatalf("unexpected live view %+v", dashboard.Live)
	}
}

func TestDashboardEndpointErrors(t *testing.T) {
	cases := []struct {
		name       string
		usage      []timeline.RawRow
		failWith   error
		path       string
		wantStatus int
	}{
		{name: "span over seven days", usage: usageRows(), path: "/api/v1/dashboard?start=2023-10-01&end=2023-10-09", wantStatus: http.StatusBadRequest},
		{name: "malformed date", usage: usageRows(), path: "/api/v1/dashboard?start=01/10/2023", wantStatus: http.StatusBadRequest},
		{name: "unknown series", usage: usageRows(), path: "/api/v1/dashboard?series=weather", wantStatus: http.StatusBadRequest},
		{name: "empty source", usage: nil, path: "/api/v1/dashboard", wantStatus: http.StatusServiceUnavailable},
		{name: "failing source", usage: usageRows(), failWith: errors.New("dial tcp: refused"), path: "/api/v1/dashboard", wantStatus: http.StatusServiceUnavailable},
		{name: "invalid row", usage: append(usageRows(), timeline.RawRow{Date: "2023-10-02", Hour: 24, Amount: 1.0}), path: "/api/v1/dashboard", wantStatus: http.StatusBadGateway},
	}
	for _, tc := range cases {
		usage := memory.NewSource(tc.usage...)
		if tc.failWith != nil {
			usage.Fail(tc.failWith)
		}
		router := newRouterWithSources(t, usage, memory.NewSource(predictionRows()...))
		rec := get(router, tc.path)
		if rec.Code != tc.wantStatus {
			t.Fatalf("%s: expected %d, got %d: %s", tc.name, tc.wantStatus, rec.Code, rec.Body.String())
		}
	}
}

func TestExportEndpoint(t *testing.T) {
	router := newTestRouter(t, usageRows(), predictionRows())

	rec := get(router, "/api/v1/dashboard/export.xlsx")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Header().Get("Content-Type"), "spreadsheetml") {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), ".xlsx") {
		t.Fatalf("unexpected disposition %q", rec.Header().Get("Content-Disposition"))
	}

	rec = get(router, "/api/v1/dashboard/export.pdf?start=2023-10-02&end=2023-10-03")
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Fatalf("pdf export failed: %d", rec.Code)
	}

	rec = get(router, "/api/v1/dashboard/export.csv")
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Body.String(), "series,date_hour,amount") {
		t.Fatalf("csv export failed: %d %q", rec.Code, rec.Body.String())
	}

	if rec := get(router, "/api/v1/dashboard/export.docx"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown format, got %d", rec.Code)
	}
}

func TestRouterAmbientEndpoints(t *testing.T) {
	router := newTestRouter(t, usageRows(), predictionRows())

	rec := get(router, "/healthz")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected healthz %d %q", rec.Code, rec.Body.String())
	}
	if rec := get(router, "/metrics"); rec.Code != http.StatusOK {
		t.Fatalf("unexpected metrics status %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dashboard", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	req.Header.Set("Origin", "https://dash.example.com")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected CORS header, got %q", got)
	}
}

func TestNewRouterRequiresBuilder(t *testing.T) {
	if _, err := NewRouter(nil, RouterOptions{}); err == nil {
		t.Fatalf("expected error for nil builder")
	}
}

func newTestRouter(t *testing.T, usage, prediction []timeline.RawRow) http.Handler {
	t.Helper()
	return newRouterWithSources(t, memory.NewSource(usage...), memory.NewSource(prediction...))
}

func newRouterWithSources(t *testing.T, usage, prediction application.Source) http.Handler {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	svc, err := application.NewService(usage, prediction, nil, logger)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	router, err := NewRouter(svc, RouterOptions{ReportTitle: "Usage Dashboard", Logger: logger, AccessLog: io.Discard})
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	return router
}

func get(handler http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func usageRows() []timeline.RawRow {
	var amounts []float64
	for _, amount := range []float64{10, 20, 5} {
		for h := 0; h < 24; h++ {
			amounts = append(amounts, amount)
		}
	}
	return memory.Hourly(time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC), amounts...)
}

func predictionRows() []timeline.RawRow {
	amounts := make([]float64, 96)
	for i := range amounts {
		amounts[i] = 12
	}
	return memory.Hourly(time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC), amounts...)
}
