package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"usage-dashboard/internal/observability/metrics"
	"usage-dashboard/internal/usage/domain/aggregate"
	"usage-dashboard/internal/usage/domain/label"
	"usage-dashboard/internal/usage/domain/series"
	"usage-dashboard/internal/usage/domain/timeline"
	"usage-dashboard/internal/usage/domain/window"
)

const (
	viewRange   = "range"
	viewLive    = "live"
	viewSummary = "summary"
)

// Service computes dashboards from a usage source and a prediction source.
// Each Build is an independent fetch-and-compute pass.
type Service struct {
	usage      Source
	prediction Source
	clock      Clock
	logger     *log.Logger
	opts       Options
}

// NewService constructs the dashboard service.
func NewService(usage, prediction Source, clock Clock, logger *log.Logger, opts ...Option) (*Service, error) {
	if usage == nil {
		return nil, errors.New("dashboard service: nil usage source")
	}
	if prediction == nil {
		return nil, errors.New("dashboard service: nil prediction source")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = log.Default()
	}
	options := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	if err := options.validate(); err != nil {
		return nil, err
	}
	return &Service{
		usage:      usage,
		prediction: prediction,
		clock:      clock,
		logger:     logger,
		opts:       options,
	}, nil
}

// Options returns the effective options.
func (s *Service) Options() Options {
	return s.opts
}

// Build fetches both sources and computes the range, live and summary views.
// Source failures return ErrSourceUnavailable, a bad selection returns ErrInvalidRange.
// A view whose window is empty is marked unavailable instead of failing the pass.
func (s *Service) Build(ctx context.Context, req Request) (*Dashboard, error) {
	started := time.Now()
	dashboard, err := s.build(ctx, req)
	result := metrics.ResultSuccess
	switch {
	case err == nil:
	case errors.Is(err, timeline.ErrInvalidRange):
		result = metrics.ResultInvalid
	case errors.Is(err, timeline.ErrSourceUnavailable):
		result = metrics.ResultUnavailable
	default:
		result = metrics.ResultError
	}
	metrics.ObserveBuild(result, time.Since(started))
	if err != nil {
		s.logger.Printf("dashboard build failed: start=%s end=%s err=%v", dateText(req.Start), dateText(req.End), err)
		return nil, err
	}
	s.logger.Printf("dashboard built: id=%s range=%s selection=%q duration=%s", dashboard.ID, dashboard.Range, dashboard.Live.Selection, time.Since(started))
	return dashboard, nil
}

func (s *Service) build(ctx context.Context, req Request) (*Dashboard, error) {
	usage, err := s.fetch(ctx, string(series.KindUsage), s.usage)
	if err != nil {
		return nil, err
	}
	prediction, err := s.fetch(ctx, string(series.KindPrediction), s.prediction)
	if err != nil {
		return nil, err
	}

	minDate, maxDate, err := timeline.Bounds(usage)
	if err != nil {
		return nil, err
	}
	selected, err := resolveRange(req, minDate, maxDate)
	if err != nil {
		return nil, err
	}
	selection := req.Selection
	if selection == "" {
		selection = series.SelectAll
	}

	rangeView, err := s.rangeView(window.Filter(usage, selected))
	if err != nil {
		return nil, err
	}
	summary, err := s.summaryView(usage, maxDate)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		ID:          uuid.NewString(),
		GeneratedAt: s.clock.Now(),
		Available:   window.DateRange{Start: minDate, End: maxDate},
		Range:       selected,
		RangeView:   rangeView,
		Live:        s.liveView(usage, prediction, selection),
		Summary:     summary,
	}, nil
}

func (s *Service) fetch(ctx context.Context, name string, source Source) ([]timeline.Entry, error) {
	started := time.Now()
	rows, err := source.Fetch(ctx)
	if err != nil {
		metrics.ObserveSourceFetch(name, metrics.ResultError, 0, time.Since(started))
		return nil, fmt.Errorf("%w: %s: %w", timeline.ErrSourceUnavailable, name, err)
	}
	entries, err := timeline.Normalize(rows)
	if err != nil {
		result := metrics.ResultInvalid
		if errors.Is(err, timeline.ErrSourceUnavailable) {
			result = metrics.ResultUnavailable
		}
		metrics.ObserveSourceFetch(name, result, len(rows), time.Since(started))
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	metrics.ObserveSourceFetch(name, metrics.ResultSuccess, len(rows), time.Since(started))
	return timeline.SortByDateHour(entries), nil
}

// resolveRange fills a missing bound the way the date picker does and validates the result.
func resolveRange(req Request, minDate, maxDate time.Time) (window.DateRange, error) {
	start, end := req.Start, req.End
	switch {
	case start.IsZero() && end.IsZero():
		def := window.DefaultRange(minDate, maxDate)
		start, end = def.Start, def.End
	case end.IsZero():
		end = timeline.CivilDate(start).AddDate(0, 0, window.MaxSpanDays)
		if end.After(maxDate) {
			end = maxDate
		}
	case start.IsZero():
		start = timeline.CivilDate(end).AddDate(0, 0, -window.MaxSpanDays)
		if start.Before(minDate) {
			start = minDate
		}
	}
	return window.NewDateRange(start, end, minDate, maxDate)
}

func (s *Service) rangeView(entries []timeline.Entry) (RangeView, error) {
	if len(entries) == 0 {
		metrics.IncEmptyWindow(viewRange)
		return RangeView{Notice: "No usage data in the selected date range."}, nil
	}

	groups := aggregate.GroupByHour(entries)
	bars := make([]series.Point, 0, len(groups))
	for _, g := range groups {
		bars = append(bars, series.Point{Key: g.Key, Amount: g.Amount})
	}

	total := aggregate.Total(entries)
	peaks, err := aggregate.DailyExtremes(groups, aggregate.Highest)
	if err != nil {
		return RangeView{}, err
	}
	peakBars := make([]PeakBar, 0, len(peaks))
	for _, peak := range peaks {
		peakBars = append(peakBars, PeakBar{
			Date:   peak.Date,
			Hour:   peak.Hour,
			Key:    peak.Key,
			Amount: peak.Amount,
			Axis:   label.PeakHour(peak.Date, peak.Hour),
			Text:   label.Integer(peak.Amount),
		})
	}

	buckets, err := aggregate.IntervalTotals(entries)
	if err != nil {
		return RangeView{}, err
	}
	slices := make([]IntervalSlice, 0, len(buckets))
	for _, bucket := range buckets {
		slices = append(slices, IntervalSlice{
			Label:  bucket.Label,
			Amount: bucket.Amount,
			Text:   label.Compact(bucket.Amount),
			Share:  aggregate.Share(bucket.Amount, total),
		})
	}

	return RangeView{
		Available: true,
		Bars:      bars,
		Total: KPI{
			Title: "Total Usage Amount (Selected Range)",
			Value: total,
			Text:  label.Currency(total),
		},
		Peaks:     peakBars,
		Intervals: slices,
	}, nil
}

func (s *Service) liveView(usage, prediction []timeline.Entry, selection series.Selection) LiveView {
	merged := series.Merge(
		series.FromEntries(series.KindUsage, s.opts.Labels.Usage, window.TailDays(usage, s.opts.UsageDays)),
		series.FromEntries(series.KindPrediction, s.opts.Labels.Prediction, window.TailDays(prediction, s.opts.PredictionDays)),
		series.FromEntries(series.KindForecast, s.opts.Labels.Forecast, window.TailDays(prediction, s.opts.ForecastDays)),
	).Select(selection)

	view := LiveView{
		Selection: selection,
		Options:   series.Selections,
		Series:    merged.Series,
		Axis:      merged.Axis(),
	}
	if len(view.Axis) == 0 {
		metrics.IncEmptyWindow(viewLive)
		view.Notice = "No data for the selected series."
		return view
	}
	view.Available = true
	return view
}

func (s *Service) summaryView(usage []timeline.Entry, latest time.Time) (SummaryView, error) {
	anchor := latest
	if s.opts.Anchor == AnchorToday {
		anchor = s.clock.Now()
	}
	anchor = timeline.CivilDate(anchor)
	days := s.opts.SummaryDays
	view := SummaryView{Days: days, From: anchor.AddDate(0, 0, -days), To: anchor}

	entries := window.LastNDays(usage, anchor, days)
	if len(entries) == 0 {
		metrics.IncEmptyWindow(viewSummary)
		view.Notice = fmt.Sprintf("No usage data in the last %d days.", days)
		return view, nil
	}

	total := aggregate.Total(entries)
	average, err := aggregate.AverageDaily(entries)
	if err != nil {
		return SummaryView{}, err
	}
	dayTotals := aggregate.GroupByDay(entries)
	highestDay, err := aggregate.ExtremeDay(dayTotals, aggregate.Highest)
	if err != nil {
		return SummaryView{}, err
	}
	lowestDay, err := aggregate.ExtremeDay(dayTotals, aggregate.Lowest)
	if err != nil {
		return SummaryView{}, err
	}
	hourTotals := aggregate.GroupByHour(entries)
	highestHour, err := aggregate.ExtremeHour(hourTotals, aggregate.Highest)
	if err != nil {
		return SummaryView{}, err
	}
	lowestHour, err := aggregate.ExtremeHour(hourTotals, aggregate.Lowest)
	if err != nil {
		return SummaryView{}, err
	}

	suffix := fmt.Sprintf(" (In Last %d Days)", days)
	view.Available = true
	view.Total = KPI{Title: "Total Usage Amount" + suffix, Value: total, Text: label.Currency(total)}
	view.Average = KPI{Title: "Average Daily Usage" + suffix, Value: average, Text: label.Currency(average)}
	view.HighestDay = dayKPI("Highest Daily Usage"+suffix, highestDay)
	view.LowestDay = dayKPI("Lowest Daily Usage"+suffix, lowestDay)
	view.HighestHour = hourKPI("Highest Hourly Usage"+suffix, highestHour)
	view.LowestHour = hourKPI("Lowest Hourly Usage"+suffix, lowestHour)
	return view, nil
}

func dayKPI(title string, day aggregate.DayTotal) KPI {
	return KPI{Title: title, Value: day.Amount, Text: label.Currency(day.Amount), Detail: label.KPIDay(day.Date)}
}

func hourKPI(title string, hour aggregate.HourTotal) KPI {
	return KPI{Title: title, Value: hour.Amount, Text: label.Currency(hour.Amount), Detail: label.KPIHour(hour.Date, hour.Hour)}
}

func dateText(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
