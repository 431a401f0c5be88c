package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"usage-dashboard/internal/usage/application"
	"usage-dashboard/internal/usage/domain/series"
)

var (
	summaryStart  string
	summaryEnd    string
	summarySeries string
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the dashboard KPIs",
	Long:  `Computes one dashboard pass and prints the range total, daily peaks, time-of-day split and the trailing summary cards.`,
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().StringVar(&summaryStart, "start", "", "range start, YYYY-MM-DD")
	summaryCmd.Flags().StringVar(&summaryEnd, "end", "", "range end, YYYY-MM-DD")
	summaryCmd.Flags().StringVar(&summarySeries, "series", "", "live series: usage, prediction, forecast or all")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(summaryStart, summaryEnd, summarySeries)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
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
	printDashboard(cmd.OutOrStdout(), dashboard)
	return nil
}

func requestFromFlags(start, end, selection string) (application.Request, error) {
	startDate, err := parseDateFlag("start", start)
	if err != nil {
		return application.Request{}, err
	}
	endDate, err := parseDateFlag("end", end)
	if err != nil {
		return application.Request{}, err
	}
	sel, err := series.ParseSelection(selection)
	if err != nil {
		return application.Request{}, err
	}
	return application.Request{Start: startDate, End: endDate, Selection: sel}, nil
}

func printDashboard(w io.Writer, d *application.Dashboard) {
	fmt.Fprintf(w, "Available data: %s\n", d.Available)
	fmt.Fprintf(w, "Selected range: %s\n", d.Range)
	fmt.Fprintln(w, "----------------------------------------")

	rv := d.RangeView
	if !rv.Available {
		fmt.Fprintln(w, rv.Notice)
	} else {
		fmt.Fprintf(w, "%s: %s\n\n", rv.Total.Title, rv.Total.Text)
		fmt.Fprintf(w, "%-16s  %16s\n", "Highest Hour", "Amount")
		for _, peak := range rv.Peaks {
			fmt.Fprintf(w, "%-16s  %16s\n", peak.Axis, peak.Text)
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%-20s  %16s  %6s\n", "Time Of The Day", "Amount", "Share")
		for _, slice := range rv.Intervals {
			fmt.Fprintf(w, "%-20s  %16s  %5.1f%%\n", slice.Label, slice.Text, slice.Share)
		}
	}
	fmt.Fprintln(w, "----------------------------------------")

	if d.Live.Available {
		for _, s := range d.Live.Series {
			fmt.Fprintf(w, "%s: %d points\n", s.Label, len(s.Points))
		}
	} else {
		fmt.Fprintln(w, d.Live.Notice)
	}
	fmt.Fprintln(w, "----------------------------------------")

	sv := d.Summary
	if !sv.Available {
		fmt.Fprintln(w, sv.Notice)
		return
	}
	for _, card := range sv.Cards() {
		if card.Detail != "" {
			fmt.Fprintf(w, "%s: %s (%s)\n", card.Title, card.Text, card.Detail)
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", card.Title, card.Text)
	}
}
