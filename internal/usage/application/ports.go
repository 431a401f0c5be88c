package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"usage-dashboard/internal/usage/domain/series"
	"usage-dashboard/internal/usage/domain/timeline"
)

// Source returns the raw hourly rows of one table or measurement.
type Source interface {
	Fetch(ctx context.Context) ([]timeline.RawRow, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]timeline.RawRow, error)

// Fetch calls f.
func (f SourceFunc) Fetch(ctx context.Context) ([]timeline.RawRow, error) { return f(ctx) }

// Clock provides time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now in UTC.
type SystemClock struct{}

// Now returns current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Anchor decides which date the trailing summary window counts back from.
type Anchor string

const (
	// AnchorLatest counts back from the latest usage date present.
	AnchorLatest Anchor = "latest"
	// AnchorToday counts back from the wall clock.
	AnchorToday Anchor = "today"
)

// ErrUnknownAnchor is returned for an unsupported summary anchor.
var ErrUnknownAnchor = errors.New("usage: unknown summary anchor")

// ParseAnchor parses "latest" or "today".
func ParseAnchor(value string) (Anchor, error) {
	switch Anchor(strings.ToLower(strings.TrimSpace(value))) {
	case "", AnchorLatest:
		return AnchorLatest, nil
	case AnchorToday:
		return AnchorToday, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAnchor, value)
}

// Options controls window sizes and labelling of a dashboard pass.
type Options struct {
	UsageDays      int
	PredictionDays int
	ForecastDays   int
	SummaryDays    int
	Anchor         Anchor
	Labels         series.Labels
}

// DefaultOptions returns 3/4/1 day live tails and a 30 day summary anchored at the latest data.
func DefaultOptions() Options {
	return Options{
		UsageDays:      3,
		PredictionDays: 4,
		ForecastDays:   1,
		SummaryDays:    30,
		Anchor:         AnchorLatest,
	}
}

// Option customizes Options.
type Option func(*Options)

// WithWindows overrides the live tails and the summary window, in days.
func WithWindows(usageDays, predictionDays, forecastDays, summaryDays int) Option {
	return func(o *Options) {
		o.UsageDays = usageDays
		o.PredictionDays = predictionDays
		o.ForecastDays = forecastDays
		o.SummaryDays = summaryDays
	}
}

// WithAnchor sets the summary anchor.
func WithAnchor(anchor Anchor) Option {
	return func(o *Options) {
		o.Anchor = anchor
	}
}

// WithLabels overrides the live series labels.
func WithLabels(labels series.Labels) Option {
	return func(o *Options) {
		o.Labels = labels
	}
}

func (o *Options) validate() error {
	if o.UsageDays <= 0 || o.PredictionDays <= 0 || o.ForecastDays <= 0 || o.SummaryDays <= 0 {
		return fmt.Errorf("dashboard service: window sizes must be positive (usage=%d prediction=%d forecast=%d summary=%d)",
			o.UsageDays, o.PredictionDays, o.ForecastDays, o.SummaryDays)
	}
	if o.Anchor != AnchorLatest && o.Anchor != AnchorToday {
		return fmt.Errorf("%w: %q", ErrUnknownAnchor, o.Anchor)
	}
	defaults := series.DefaultLabels(o.UsageDays, o.PredictionDays, o.ForecastDays)
	if o.Labels.Usage == "" {
		o.Labels.Usage = defaults.Usage
	}
	if o.Labels.Prediction == "" {
		o.Labels.Prediction = defaults.Prediction
	}
	if o.Labels.Forecast == "" {
		o.Labels.Forecast = defaults.Forecast
	}
	return nil
}
