package agg

import (
	"math"
	"sort"
	"time"

	"github.com/planflow/planboard-api/internal/models"
)

func completedSorted(samples []Sample) []Sample {
	var done []Sample
	for _, s := range samples {
		if s.Status == models.TaskStatusCompleted && s.CompletedDate != "" {
			done = append(done, s)
		}
	}
	sort.SliceStable(done, func(i, j int) bool {
		return done[i].CompletedDate < done[j].CompletedDate
	})
	return done
}

// BurnupSeries builds the cumulative-completion series for a task set.
// The first point anchors the chart at the start date with zero
// completions; if the last completion leaves the set unfinished, a
// synthetic closing point on the last completion date carries the full
// planned count so the line visibly falls short of its own ceiling.
// Returns nil when the task set is empty or either boundary date is
// missing.
func BurnupSeries(startDate, endDate string, samples []Sample) []models.BurnupPoint {
	if len(samples) == 0 || startDate == "" || endDate == "" {
		return nil
	}
	total := len(samples)
	done := completedSorted(samples)

	points := make([]models.BurnupPoint, 0, len(done)+2)
	points = append(points, models.BurnupPoint{
		Date: startDate, Planned: total, Completed: 0, Label: startDate,
	})
	lastProgress, lastDate := 0, ""
	for i, s := range done {
		lastProgress = roundPercent(i+1, total)
		lastDate = s.CompletedDate
		points = append(points, models.BurnupPoint{
			Date:      s.CompletedDate,
			Planned:   total,
			Completed: i + 1,
			Label:     s.CompletedDate,
		})
	}
	if lastProgress < 100 && lastDate != "" {
		points = append(points, models.BurnupPoint{
			Date: lastDate, Planned: total, Completed: total, Label: lastDate,
		})
	}
	return points
}

func roundPercent(completed, total int) int {
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// ProgressBars maps each completion to a bar carrying the cumulative
// progress percentage at that completion.
func ProgressBars(samples []Sample) []models.ProgressBar {
	done := completedSorted(samples)
	if len(done) == 0 {
		return nil
	}
	total := len(samples)
	bars := make([]models.ProgressBar, len(done))
	for i, s := range done {
		bars[i] = models.ProgressBar{
			Date:     s.CompletedDate,
			Progress: roundPercent(i+1, total),
			Label:    slashDate(s.CompletedDate),
		}
	}
	return bars
}

// CompletedDates returns the unique completion dates in ascending
// order.
func CompletedDates(samples []Sample) []string {
	seen := make(map[string]bool)
	var dates []string
	for _, s := range completedSorted(samples) {
		if !seen[s.CompletedDate] {
			seen[s.CompletedDate] = true
			dates = append(dates, s.CompletedDate)
		}
	}
	return dates
}

func slashDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("2006/01/02")
}
