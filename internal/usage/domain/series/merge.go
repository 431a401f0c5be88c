package series

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"usage-dashboard/internal/usage/domain/timeline"
)

// Kind identifies where a series comes from.
type Kind string

const (
	KindUsage      Kind = "usage"
	KindPrediction Kind = "prediction"
	KindForecast   Kind = "forecast"
)

// ErrUnknownSelection is returned when a selector value is not recognised.
var ErrUnknownSelection = errors.New("series: unknown selection")

// Point is one (key, amount) pair on the shared axis.
type Point struct {
	Key    timeline.TimestampKey `json:"key"`
	Amount float64               `json:"amount"`
}

// Series is a labelled sequence of points. The label is the legend identity.
type Series struct {
	Kind   Kind    `json:"kind"`
	Label  string  `json:"label"`
	Points []Point `json:"points"`
}

// LabelledPoint is a point that remembers which series it belongs to.
type LabelledPoint struct {
	Series string                `json:"series"`
	Kind   Kind                  `json:"kind"`
	Key    timeline.TimestampKey `json:"key"`
	Amount float64               `json:"amount"`
}

// FromEntries lifts entries into a series, keeping their order.
func FromEntries(kind Kind, label string, entries []timeline.Entry) Series {
	points := make([]Point, 0, len(entries))
	for _, entry := range entries {
		points = append(points, Point{Key: entry.Key, Amount: entry.Amount})
	}
	return Series{Kind: kind, Label: label, Points: points}
}

// Merged holds several series juxtaposed along one timestamp axis.
type Merged struct {
	Series []Series `json:"series"`
}

// Merge concatenates series for joint display. Points are not joined by key.
func Merge(series ...Series) Merged {
	merged := Merged{Series: make([]Series, 0, len(series))}
	merged.Series = append(merged.Series, series...)
	return merged
}

// Select keeps the series whose label contains the selector label, ignoring case.
// SelectAll returns the merged series unchanged.
func (m Merged) Select(sel Selection) Merged {
	if sel == SelectAll {
		return m
	}
	needle := strings.ToLower(string(sel))
	selected := Merged{Series: make([]Series, 0, 1)}
	for _, s := range m.Series {
		if strings.Contains(strings.ToLower(s.Label), needle) {
			selected.Series = append(selected.Series, s)
		}
	}
	return selected
}

// Points flattens every series in order, keeping the series label on each point.
func (m Merged) Points() []LabelledPoint {
	var points []LabelledPoint
	for _, s := range m.Series {
		for _, p := range s.Points {
			points = append(points, LabelledPoint{Series: s.Label, Kind: s.Kind, Key: p.Key, Amount: p.Amount})
		}
	}
	return points
}

// Axis returns the sorted union of keys across all series.
func (m Merged) Axis() []timeline.TimestampKey {
	seen := make(map[timeline.TimestampKey]struct{})
	var axis []timeline.TimestampKey
	for _, s := range m.Series {
		for _, p := range s.Points {
			if _, ok := seen[p.Key]; ok {
				continue
			}
			seen[p.Key] = struct{}{}
			axis = append(axis, p.Key)
		}
	}
	sort.Slice(axis, func(i, j int) bool { return axis[i] < axis[j] })
	return axis
}

// Selection is the single-choice series toggle.
type Selection string

const (
	SelectAll        Selection = "Usage + Prediction + Forecast Graph"
	SelectUsage      Selection = "Usage Graph"
	SelectPrediction Selection = "Prediction Graph"
	SelectForecast   Selection = "Forecast Graph"
)

// Selections lists the toggle options in display order.
var Selections = []Selection{SelectAll, SelectUsage, SelectPrediction, SelectForecast}

// ParseSelection accepts a toggle label or one of the codes all, usage, prediction, forecast.
// An empty value selects everything.
func ParseSelection(value string) (Selection, error) {
	value = strings.TrimSpace(value)
	switch strings.ToLower(value) {
	case "", "all":
		return SelectAll, nil
	case string(KindUsage):
		return SelectUsage, nil
	case string(KindPrediction):
		return SelectPrediction, nil
	case string(KindForecast):
		return SelectForecast, nil
	}
	for _, sel := range Selections {
		if strings.EqualFold(value, string(sel)) {
			return sel, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSelection, value)
}

// Labels names the three live series.
type Labels struct {
	Usage      string
	Prediction string
	Forecast   string
}

// DefaultLabels builds legend labels for the given trailing window sizes.
// Every label contains its toggle label, which is what Select matches on.
func DefaultLabels(usageDays, predictionDays, forecastDays int) Labels {
	forecast := fmt.Sprintf("%s (For Today)", SelectForecast)
	if forecastDays != 1 {
		forecast = fmt.Sprintf("%s (Next %s)", SelectForecast, dayCount(forecastDays))
	}
	return Labels{
		Usage:      fmt.Sprintf("%s (Last %s)", SelectUsage, dayCount(usageDays)),
		Prediction: fmt.Sprintf("%s (Last %s)", SelectPrediction, dayCount(predictionDays)),
		Forecast:   forecast,
	}
}

func dayCount(n int) string {
	if n == 1 {
		return "1 Day"
	}
	return fmt.Sprintf("%d Days", n)
}
