package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"usage-dashboard/internal/usage/application"
	"usage-dashboard/internal/usage/interfaces/export"
)

var (
	exportFormat string
	exportDir    string
	exportStart  string
	exportEnd    string
	exportSeries string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the dashboard to a report file",
	Long:  `Computes one dashboard pass and writes it as an XLSX workbook, a PDF summary or a CSV of chart points.`,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", export.FormatXLSX, "report format: xlsx, pdf or csv")
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "output directory (overrides export.dir)")
	exportCmd.Flags().StringVar(&exportStart, "start", "", "range start, YYYY-MM-DD")
	exportCmd.Flags().StringVar(&exportEnd, "end", "", "range end, YYYY-MM-DD")
	exportCmd.Flags().StringVar(&exportSeries, "series", "", "live series: usage, prediction, forecast or all")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(exportStart, exportEnd, exportSeries)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if exportDir != "" {
		cfg.Export.Dir = exportDir
	}
	svc, cleanup, err := buildService(cmd.Context(), cfg, newLogger())
	if err != nil {
		return err
	}
	defer cleanup()

	dashboard, err := svc.Build(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("building dashboard: %w", err)
	}
	path, size, err := writeReport(cfg.Export.Dir, exportFormat, cfg.Export.Title, dashboard)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s)\n", path, humanize.Bytes(uint64(size)))
	return nil
}

func writeReport(dir, format, title string, d *application.Dashboard) (string, int, error) {
	data, err := export.Build(format, title, d)
	if err != nil {
		return "", 0, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(dir, export.FileName(d, format))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", 0, fmt.Errorf("writing report: %w", err)
	}
	return path, len(data), nil
}
