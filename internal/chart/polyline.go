package chart

import (
	"strconv"
	"strings"

	"github.com/planflow/planboard-api/internal/models"
)

// Baselines and vertical scales for the two line charts. The burndown
// plot is 130px tall over 100 progress points, the burnup plot 260px.
const (
	burndownBaseY = 170.0
	burndownScale = 1.3
	burnupBaseY   = 340.0
	burnupScale   = 2.6
)

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func polyline(labels []AxisLabel, baseY, scale float64) string {
	if len(labels) == 0 {
		return ""
	}
	points := []string{coord(AxisPadding) + "," + coord(baseY)}
	// Endpoints are anchored by the leading point and the axis edge;
	// only interior labels contribute vertices.
	for i := 1; i < len(labels)-1; i++ {
		y := baseY - float64(labels[i].Progress)*scale
		points = append(points, coord(labels[i].X)+","+coord(y))
	}
	return strings.Join(points, " ")
}

// BurndownPolyline renders the remaining-work line over the axis
// labels.
func BurndownPolyline(labels []AxisLabel) string {
	return polyline(labels, burndownBaseY, burndownScale)
}

// BurnupPolyline renders the completed-work line over the axis labels.
func BurnupPolyline(labels []AxisLabel) string {
	return polyline(labels, burnupBaseY, burnupScale)
}

// Mini-chart geometry: completion markers on a fixed 340x120 surface.
const (
	circleXStart = 70.0
	circleXSpan  = 200.0
	circleTopY   = 100.0
	circleScale  = 80.0
)

// CircleX places the i-th date of the mini chart proportionally along
// [70, 270]. A single-date chart collapses to the left edge.
func CircleX(i int, dates []string) float64 {
	if len(dates) <= 1 {
		return circleXStart
	}
	first, ok1 := parseDate(dates[0])
	last, ok2 := parseDate(dates[len(dates)-1])
	if !ok1 || !ok2 || !last.After(first) {
		return circleXStart
	}
	cur, ok := parseDate(dates[i])
	if !ok {
		return circleXStart
	}
	ratio := cur.Sub(first).Hours() / last.Sub(first).Hours()
	return circleXStart + ratio*circleXSpan
}

// CircleY maps a point's completion ratio onto the mini chart's
// vertical axis, 100 at zero completion falling 80px at full.
func CircleY(p models.BurnupPoint) float64 {
	if p.Planned == 0 {
		return circleTopY
	}
	ratio := float64(p.Completed) / float64(p.Planned)
	return circleTopY - float64(int(ratio*circleScale+0.5))
}

// SvgPoints renders the mini chart's polyline from the burnup series
// and its date axis.
func SvgPoints(points []models.BurnupPoint, dates []string) string {
	if len(points) == 0 {
		return ""
	}
	dateIndex := make(map[string]int, len(dates))
	for i, d := range dates {
		dateIndex[d] = i
	}
	out := make([]string, 0, len(points))
	for _, p := range points {
		x := CircleX(dateIndex[p.Date], dates)
		out = append(out, coord(x)+","+coord(CircleY(p)))
	}
	return strings.Join(out, " ")
}
