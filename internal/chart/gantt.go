// Package chart computes the geometry for the gantt, burndown and
// burnup renderings: bar placement percentages, axis label positions
// and SVG polyline point strings. All functions are pure; callers
// supply dates as ISO yyyy-mm-dd strings.
package chart

import (
	"time"

	"github.com/planflow/planboard-api/internal/models"
)

const isoDate = "2006-01-02"

// Bar colors by task status.
const (
	ColorCompleted  = "#4CAF50"
	ColorInProgress = "#2196F3"
	ColorNotStarted = "#FFA07A"
	ColorDefault    = "#FFE4B5"
)

// BarPosition is one task bar placed on the timeline as percentages of
// the chart width.
type BarPosition struct {
	LeftPercent  float64 `json:"leftPercent"`
	WidthPercent float64 `json:"widthPercent"`
	Color        string  `json:"color"`
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(isoDate, s)
	return t, err == nil
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// StatusColor maps a task status to its bar color.
func StatusColor(status models.TaskStatus) string {
	switch status {
	case models.TaskStatusCompleted:
		return ColorCompleted
	case models.TaskStatusInProgress:
		return ColorInProgress
	case models.TaskStatusNotStarted:
		return ColorNotStarted
	default:
		return ColorDefault
	}
}

// Bar places one task on a chart spanning [chartStart, chartEnd]. The
// chart span and the bar width both count days inclusively, so a task
// starting and ending on the same day still gets one day of width.
func Bar(task models.GanttTask, chartStart, chartEnd string) BarPosition {
	pos := BarPosition{Color: StatusColor(task.Status)}
	start, ok1 := parseDate(chartStart)
	end, ok2 := parseDate(chartEnd)
	ts, ok3 := parseDate(task.StartDate)
	te, ok4 := parseDate(task.EndDate)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return pos
	}
	totalDays := daysBetween(start, end) + 1
	if totalDays <= 0 {
		return pos
	}
	startOffset := daysBetween(start, ts)
	duration := daysBetween(ts, te)
	pos.LeftPercent = float64(startOffset) / float64(totalDays) * 100
	pos.WidthPercent = float64(duration+1) / float64(totalDays) * 100
	return pos
}

// Range derives the chart span from the task set: the earliest start
// snapped back to the first of its month, the latest end snapped
// forward to the last day of its month, plus one "Jan 2006" label per
// month in the span. ok is false when no task carries a usable range.
func Range(tasks []models.GanttTask) (startDate, endDate string, months []string, ok bool) {
	var min, max time.Time
	for _, t := range tasks {
		ts, ok1 := parseDate(t.StartDate)
		te, ok2 := parseDate(t.EndDate)
		if !ok1 || !ok2 {
			continue
		}
		if !ok || ts.Before(min) {
			min = ts
		}
		if !ok || te.After(max) {
			max = te
		}
		ok = true
	}
	if !ok {
		return "", "", nil, false
	}
	first := time.Date(min.Year(), min.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(max.Year(), max.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		months = append(months, m.Format("Jan 2006"))
	}
	return first.Format(isoDate), last.Format(isoDate), months, true
}
