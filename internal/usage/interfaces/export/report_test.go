package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"usage-dashboard/internal/usage/application"
	"usage-dashboard/internal/usage/infrastructure/memory"
)

func TestBuildXLSX(t *testing.T) {
	d := sampleDashboard(t)
	data, err := BuildXLSX("Usage Dashboard", d)
	if err != nil {
		t.Fatalf("build xlsx: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()

	title, err := f.GetCellValue(SheetSummary, "A1")
	if err != nil || title != "Usage Dashboard" {
		t.Fatalf("unexpected title %q %v", title, err)
	}
	rangeRows, err := f.GetRows(SheetRange)
	if err != nil {
		t.Fatalf("range rows: %v", err)
	}
	if len(rangeRows) != 1+72 {
		t.Fatalf("expected header plus 72 range rows, got %d", len(rangeRows))
	}
	intervals, err := f.GetRows(SheetIntervals)
	if err != nil {
		t.Fatalf("interval rows: %v", err)
	}
	if len(intervals) != 5 || intervals[1][0] != "Midnight to 6AM" {
		t.Fatalf("unexpected interval rows %v", intervals)
	}
	peaks, err := f.GetRows(SheetPeaks)
	if err != nil {
		t.Fatalf("peak rows: %v", err)
	}
	if len(peaks) != 4 || peaks[1][1] != "12 AM" {
		t.Fatalf("unexpected peak rows %v", peaks)
	}
	live, err := f.GetRows(SheetLive)
	if err != nil {
		t.Fatalf("live rows: %v", err)
	}
	if len(live) != 1+72+96+24 {
		t.Fatalf("unexpected live row count %d", len(live))
	}
	total, err := f.GetCellValue(SheetSummary, "C9")
	if err != nil || total != "৳ 840" {
		t.Fatalf("unexpected range total label %q %v", total, err)
	}
}

func TestBuildPDF(t *testing.T) {
	data, err := BuildPDF("Usage Dashboard", sampleDashboard(t))
	if err != nil {
		t.Fatalf("build pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestBuildDispatch(t *testing.T) {
	d := sampleDashboard(t)
	if _, err := Build("PDF", "x", d); err != nil {
		t.Fatalf("build pdf: %v", err)
	}
	data, err := Build("csv", "x", d)
	if err != nil {
		t.Fatalf("build csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1+72+72+96+24 || lines[1] != "range,2023-10-01 00,10" {
		t.Fatalf("unexpected csv: %d lines, first row %q", len(lines), lines[1])
	}
	if _, err := Build("docx", "x", d); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	if _, err := Build(FormatXLSX, "x", nil); err == nil {
		t.Fatalf("expected error for nil dashboard")
	}
}

func TestFileName(t *testing.T) {
	d := sampleDashboard(t)
	name := FileName(d, FormatXLSX)
	if !strings.HasPrefix(name, "usage-20231001_20231003-") || !strings.HasSuffix(name, ".xlsx") {
		t.Fatalf("unexpected file name %q", name)
	}
	if ContentType(FormatPDF) != "application/pdf" {
		t.Fatalf("unexpected pdf content type")
	}
}

func TestPDFTextReplacesGlyph(t *testing.T) {
	if got := pdfText("Total: ৳ 1,000"); got != "Total: BDT 1,000" {
		t.Fatalf("unexpected pdf text %q", got)
	}
}

func sampleDashboard(t *testing.T) *application.Dashboard {
	t.Helper()
	start := time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC)
	var usage []float64
	for _, amount := range []float64{10, 20, 5} {
		for h := 0; h < 24; h++ {
			usage = append(usage, amount)
		}
	}
	prediction := make([]float64, 96)
	for i := range prediction {
		prediction[i] = 12
	}
	svc, err := application.NewService(
		memory.NewSource(memory.Hourly(start, usage...)...),
		memory.NewSource(memory.Hourly(start, prediction...)...),
		nil,
		log.New(io.Discard, "", 0),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	d, err := svc.Build(context.Background(), application.Request{})
	if err != nil {
		t.Fatalf("build dashboard: %v", err)
	}
	return d
}
