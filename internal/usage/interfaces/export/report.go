package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"usage-dashboard/internal/usage/application"
	"usage-dashboard/internal/usage/domain/label"
)

// Formats.
const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
	FormatCSV  = "csv"
)

// Sheet names of the XLSX report.
const (
	SheetSummary   = "summary"
	SheetRange     = "range"
	SheetPeaks     = "peaks"
	SheetIntervals = "intervals"
	SheetLive      = "live"
)

// ErrUnknownFormat is returned for an unsupported report format.
var ErrUnknownFormat = errors.New("export: unknown format")

var errNilDashboard = errors.New("export: nil dashboard")

// Build renders the dashboard in the given format.
func Build(format, title string, d *application.Dashboard) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatXLSX:
		return BuildXLSX(title, d)
	case FormatPDF:
		return BuildPDF(title, d)
	case FormatCSV:
		return BuildCSV(d)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// FileName names a report file after the selected range and the dashboard id.
func FileName(d *application.Dashboard, format string) string {
	id := d.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("usage-%s_%s-%s.%s",
		d.Range.Start.Format("20060102"), d.Range.End.Format("20060102"), id, strings.ToLower(format))
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case FormatPDF:
		return "application/pdf"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// BuildCSV writes every chart point as series,key,amount. Range bars use the series name "range".
func BuildCSV(d *application.Dashboard) ([]byte, error) {
	if d == nil {
		return nil, errNilDashboard
	}
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	_ = writer.Write([]string{"series", "date_hour", "amount"})
	for _, bar := range d.RangeView.Bars {
		_ = writer.Write([]string{SheetRange, bar.Key.String(), formatFloat(bar.Amount)})
	}
	for _, s := range d.Live.Series {
		for _, p := range s.Points {
			_ = writer.Write([]string{s.Label, p.Key.String(), formatFloat(p.Amount)})
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildPDF renders a one-page PDF summary.
func BuildPDF(title string, d *application.Dashboard) ([]byte, error) {
	if d == nil {
		return nil, errNilDashboard
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, pdfText(title))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Dashboard: %s", d.ID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", d.GeneratedAt.Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Available data: %s", d.Available))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Selected range: %s", d.Range))
	pdf.Ln(8)

	rv := d.RangeView
	if !rv.Available {
		pdf.Cell(0, 6, pdfText(rv.Notice))
		pdf.Ln(8)
	} else {
		pdf.Cell(0, 6, pdfText(fmt.Sprintf("%s: %s", rv.Total.Title, rv.Total.Text)))
		pdf.Ln(8)

		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(60, 6, "Highest Hour", "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, "Amount", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
		for _, peak := range rv.Peaks {
			pdf.CellFormat(60, 6, peak.Axis, "1", 0, "C", false, 0, "")
			pdf.CellFormat(50, 6, peak.Text, "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
		pdf.Ln(4)

		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(60, 6, "Time Of The Day", "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, "Amount", "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, "Share", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
		for _, slice := range rv.Intervals {
			pdf.CellFormat(60, 6, slice.Label, "1", 0, "C", false, 0, "")
			pdf.CellFormat(50, 6, slice.Text, "1", 0, "R", false, 0, "")
			pdf.CellFormat(30, 6, fmt.Sprintf("%.1f%%", slice.Share), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}

	sv := d.Summary
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Last %d Days Usage Summary", sv.Days))
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	if !sv.Available {
		pdf.Cell(0, 6, pdfText(sv.Notice))
		pdf.Ln(5)
	}
	for _, card := range sv.Cards() {
		line := fmt.Sprintf("%s: %s", card.Title, card.Text)
		if card.Detail != "" {
			line += " (" + card.Detail + ")"
		}
		pdf.Cell(0, 6, pdfText(line))
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildXLSX renders the dashboard as a workbook with one sheet per view.
func BuildXLSX(title string, d *application.Dashboard) ([]byte, error) {
	if d == nil {
		return nil, errNilDashboard
	}
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", SheetSummary)
	for _, sheet := range []string{SheetRange, SheetPeaks, SheetIntervals, SheetLive} {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}

	_ = f.SetCellValue(SheetSummary, "A1", title)
	_ = f.SetCellValue(SheetSummary, "A3", "Dashboard")
	_ = f.SetCellValue(SheetSummary, "B3", d.ID)
	_ = f.SetCellValue(SheetSummary, "A4", "Generated")
	_ = f.SetCellValue(SheetSummary, "B4", d.GeneratedAt.Format(time.RFC3339))
	_ = f.SetCellValue(SheetSummary, "A5", "Available data")
	_ = f.SetCellValue(SheetSummary, "B5", d.Available.String())
	_ = f.SetCellValue(SheetSummary, "A6", "Selected range")
	_ = f.SetCellValue(SheetSummary, "B6", d.Range.String())

	row := 8
	_ = f.SetCellValue(SheetSummary, cell("A", row), "KPI")
	_ = f.SetCellValue(SheetSummary, cell("B", row), "Amount")
	_ = f.SetCellValue(SheetSummary, cell("C", row), "Label")
	_ = f.SetCellValue(SheetSummary, cell("D", row), "When")
	cards := d.Summary.Cards()
	if d.RangeView.Available {
		cards = append([]application.KPI{d.RangeView.Total}, cards...)
	}
	for _, card := range cards {
		row++
		_ = f.SetCellValue(SheetSummary, cell("A", row), card.Title)
		_ = f.SetCellValue(SheetSummary, cell("B", row), card.Value)
		_ = f.SetCellValue(SheetSummary, cell("C", row), card.Text)
		_ = f.SetCellValue(SheetSummary, cell("D", row), card.Detail)
	}
	for _, notice := range []string{d.RangeView.Notice, d.Summary.Notice, d.Live.Notice} {
		if notice != "" {
			row++
			_ = f.SetCellValue(SheetSummary, cell("A", row), notice)
		}
	}

	_ = f.SetCellValue(SheetRange, "A1", "Date and Hour")
	_ = f.SetCellValue(SheetRange, "B1", "Total Amount")
	for i, bar := range d.RangeView.Bars {
		_ = f.SetCellValue(SheetRange, cell("A", i+2), bar.Key.String())
		_ = f.SetCellValue(SheetRange, cell("B", i+2), bar.Amount)
	}

	_ = f.SetCellValue(SheetPeaks, "A1", "Date")
	_ = f.SetCellValue(SheetPeaks, "B1", "Hour")
	_ = f.SetCellValue(SheetPeaks, "C1", "Label")
	_ = f.SetCellValue(SheetPeaks, "D1", "Amount")
	for i, peak := range d.RangeView.Peaks {
		hour, _ := label.Hour(peak.Hour)
		_ = f.SetCellValue(SheetPeaks, cell("A", i+2), peak.Date.Format("2006-01-02"))
		_ = f.SetCellValue(SheetPeaks, cell("B", i+2), hour)
		_ = f.SetCellValue(SheetPeaks, cell("C", i+2), peak.Axis)
		_ = f.SetCellValue(SheetPeaks, cell("D", i+2), peak.Amount)
	}

	_ = f.SetCellValue(SheetIntervals, "A1", "Time Of The Day")
	_ = f.SetCellValue(SheetIntervals, "B1", "Amount")
	_ = f.SetCellValue(SheetIntervals, "C1", "Label")
	_ = f.SetCellValue(SheetIntervals, "D1", "Share (%)")
	for i, slice := range d.RangeView.Intervals {
		_ = f.SetCellValue(SheetIntervals, cell("A", i+2), slice.Label)
		_ = f.SetCellValue(SheetIntervals, cell("B", i+2), slice.Amount)
		_ = f.SetCellValue(SheetIntervals, cell("C", i+2), slice.Text)
		_ = f.SetCellValue(SheetIntervals, cell("D", i+2), slice.Share)
	}

	_ = f.SetCellValue(SheetLive, "A1", "Series")
	_ = f.SetCellValue(SheetLive, "B1", "Date and Hour")
	_ = f.SetCellValue(SheetLive, "C1", "Amount")
	row = 1
	for _, s := range d.Live.Series {
		for _, p := range s.Points {
			row++
			_ = f.SetCellValue(SheetLive, cell("A", row), s.Label)
			_ = f.SetCellValue(SheetLive, cell("B", row), p.Key.String())
			_ = f.SetCellValue(SheetLive, cell("C", row), p.Amount)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// pdfText swaps the currency glyph for a code the core PDF fonts can draw.
func pdfText(s string) string {
	return strings.ReplaceAll(s, label.CurrencySymbol, "BDT")
}
