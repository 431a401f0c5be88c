package application

import (
	"time"

	"usage-dashboard/internal/usage/domain/series"
	"usage-dashboard/internal/usage/domain/timeline"
	"usage-dashboard/internal/usage/domain/window"
)

// Request selects the date range and live series of one dashboard pass.
// Zero Start or End fall back to the default range.
type Request struct {
	Start     time.Time
	End       time.Time
	Selection series.Selection
}

// Dashboard is everything a renderer needs. Renderers draw it, they never re-derive it.
type Dashboard struct {
	ID          string           `json:"id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Available   window.DateRange `json:"available"`
	Range       window.DateRange `json:"range"`
	RangeView   RangeView        `json:"range_view"`
	Live        LiveView         `json:"live"`
	Summary     SummaryView      `json:"summary"`
}

// KPI is a single card value with its preformatted text.
type KPI struct {
	Title  string  `json:"title"`
	Value  float64 `json:"value"`
	Text   string  `json:"text"`
	Detail string  `json:"detail,omitempty"`
}

// PeakBar is the highest hour of one day within the selected range.
type PeakBar struct {
	Date   time.Time             `json:"date"`
	Hour   int                   `json:"hour"`
	Key    timeline.TimestampKey `json:"key"`
	Amount float64               `json:"amount"`
	Axis   string                `json:"axis"`
	Text   string                `json:"text"`
}

// IntervalSlice is one time-of-day part of the pie breakdown.
type IntervalSlice struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
	Text   string  `json:"text"`
	Share  float64 `json:"share"`
}

// RangeView holds the charts and KPI of the selected date range.
type RangeView struct {
	Available bool            `json:"available"`
	Notice    string          `json:"notice,omitempty"`
	Bars      []series.Point  `json:"bars,omitempty"`
	Total     KPI             `json:"total"`
	Peaks     []PeakBar       `json:"peaks,omitempty"`
	Intervals []IntervalSlice `json:"intervals,omitempty"`
}

// LiveView holds the merged usage, prediction and forecast tails.
type LiveView struct {
	Available bool                    `json:"available"`
	Notice    string                  `json:"notice,omitempty"`
	Selection series.Selection        `json:"selection"`
	Options   []series.Selection      `json:"options"`
	Series    []series.Series         `json:"series"`
	Axis      []timeline.TimestampKey `json:"axis"`
}

// SummaryView holds the trailing-window KPI cards.
type SummaryView struct {
	Available   bool      `json:"available"`
	Notice      string    `json:"notice,omitempty"`
	Days        int       `json:"days"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	Total       KPI       `json:"total"`
	Average     KPI       `json:"average"`
	HighestDay  KPI       `json:"highest_day"`
	LowestDay   KPI       `json:"lowest_day"`
	HighestHour KPI       `json:"highest_hour"`
	LowestHour  KPI       `json:"lowest_hour"`
}

// Cards lists the summary KPIs in display order.
func (v SummaryView) Cards() []KPI {
	if !v.Available {
		return nil
	}
	return []KPI{v.Total, v.Average, v.HighestDay, v.LowestDay, v.HighestHour, v.LowestHour}
}
