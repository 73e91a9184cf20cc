package chart

import (
	"math"
	"sort"

	"github.com/planflow/planboard-api/internal/models"
)

// Axis layout constants. Labels are pushed apart to a minimum pixel
// margin after proportional placement, and the last label is pinned to
// the right edge before that push runs, so a crowded tail can still
// overflow past the edge rather than overlap.
const (
	AxisPadding    = 40.0
	MinLabelMargin = 28.0
	MinSvgWidth    = 340.0
	labelStep      = 18.0
	measureFloor   = 100.0
)

// AxisLabel is one x-axis tick: its pixel position, display text and
// the cumulative progress at that date.
type AxisLabel struct {
	Label    string  `json:"label"`
	X        float64 `json:"x"`
	Progress int     `json:"progress"`
	Date     string  `json:"date"`
}

// AxisLabels lays out one tick per distinct date: the chart start, each
// progress bar's date and the chart end, in date order. Positions are
// proportional to elapsed time across [AxisPadding, svgWidth-AxisPadding];
// a zero-date span is widened to exactly one day so a single-day chart
// still has nonzero extent. Returns nil when there are no bars.
func AxisLabels(startDate, endDate string, bars []models.ProgressBar, svgWidth float64) []AxisLabel {
	if len(bars) == 0 {
		return nil
	}
	dates := make([]string, 0, len(bars)+2)
	dates = append(dates, startDate)
	dates = append(dates, barDates(bars)...)
	dates = append(dates, endDate)
	sort.SliceStable(dates, func(i, j int) bool { return dates[i] < dates[j] })

	minDate, _ := parseDate(dates[0])
	maxDate, _ := parseDate(dates[len(dates)-1])
	span := maxDate.Sub(minDate).Hours() / 24
	if span == 0 {
		span = 1
	}
	xStart := AxisPadding
	xEnd := svgWidth - AxisPadding

	labels := make([]AxisLabel, 0, len(dates))
	lastX := math.Inf(-1)
	for i, d := range dates {
		t, ok := parseDate(d)
		if !ok {
			continue
		}
		ratio := t.Sub(minDate).Hours() / 24 / span
		x := xStart + ratio*(xEnd-xStart)
		if i == len(dates)-1 {
			x = xEnd
		}
		if x-lastX < MinLabelMargin {
			x = lastX + MinLabelMargin
		}
		lastX = x

		progress := 0
		switch {
		case i == 0:
			progress = 0
		case i == len(dates)-1:
			progress = 100
		default:
			// dates is [start, bar dates..., end], so interior
			// index i aligns with bars[i-1].
			progress = bars[i-1].Progress
		}
		labels = append(labels, AxisLabel{
			Label:    t.Format("01/02"),
			X:        x,
			Progress: progress,
			Date:     d,
		})
	}
	return labels
}

func barDates(bars []models.ProgressBar) []string {
	out := make([]string, len(bars))
	for i, b := range bars {
		out[i] = b.Date
	}
	return out
}

// ClampWidth substitutes the fallback width when the measured
// container width is too small to be a real measurement.
func ClampWidth(measured float64) float64 {
	if measured < measureFloor {
		return MinSvgWidth
	}
	return measured
}

// SvgWidth sizes the chart surface: wide enough for the container, for
// the label count at the per-label step, and never below the floor.
func SvgWidth(labelCount int, containerWidth float64) float64 {
	needed := float64(labelCount-1)*labelStep + 2*AxisPadding
	return math.Max(math.Max(containerWidth, needed), MinSvgWidth)
}
