package agg

import (
	"testing"

	"github.com/planflow/planboard-api/internal/models"
	"github.com/stretchr/testify/require"
)

func TestBurnupSeries_PartialCompletion(t *testing.T) {
	samples := TaskSamples([]models.Task{
		task(models.TaskStatusCompleted, "2024-04-05"),
		task(models.TaskStatusNotStarted, ""),
	})

	points := BurnupSeries("2024-04-01", "2024-04-10", samples)
	require.Len(t, points, 3)

	require.Equal(t, models.BurnupPoint{Date: "2024-04-01", Planned: 2, Completed: 0, Label: "2024-04-01"}, points[0])
	require.Equal(t, models.BurnupPoint{Date: "2024-04-05", Planned: 2, Completed: 1, Label: "2024-04-05"}, points[1])
	// Unfinished set: a synthetic closing point carries the full plan.
	require.Equal(t, models.BurnupPoint{Date: "2024-04-05", Planned: 2, Completed: 2, Label: "2024-04-05"}, points[2])
}

func TestBurnupSeries_FullCompletionHasNoSyntheticPoint(t *testing.T) {
	samples := TaskSamples([]models.Task{
		task(models.TaskStatusCompleted, "2024-04-03"),
		task(models.TaskStatusCompleted, "2024-04-07"),
	})

	points := BurnupSeries("2024-04-01", "2024-04-10", samples)
	require.Len(t, points, 3)
	require.Equal(t, 0, points[0].Completed)
	require.Equal(t, 1, points[1].Completed)
	require.Equal(t, 2, points[2].Completed)
	require.Equal(t, "2024-04-07", points[2].Date)
}

func TestBurnupSeries_MonotonicCompleted(t *testing.T) {
	samples := TaskSamples([]models.Task{
		task(models.TaskStatusCompleted, "2024-04-09"),
		task(models.TaskStatusCompleted, "2024-04-02"),
		task(models.TaskStatusCompleted, "2024-04-05"),
		task(models.TaskStatusInProgress, ""),
	})

	points := BurnupSeries("2024-04-01", "2024-04-30", samples)
	for i := 1; i < len(points); i++ {
		require.GreaterOrEqual(t, points[i].Completed, points[i-1].Completed)
		require.GreaterOrEqual(t, points[i].Date, points[i-1].Date)
	}
}

func TestBurnupSeries_EmptyInputs(t *testing.T) {
	require.Nil(t, BurnupSeries("2024-04-01", "2024-04-10", nil))

	samples := TaskSamples([]models.Task{task(models.TaskStatusNotStarted, "")})
	require.Nil(t, BurnupSeries("", "2024-04-10", samples))
	require.Nil(t, BurnupSeries("2024-04-01", "", samples))
}

func TestBurnupSeries_NoCompletionsAnchorsOnly(t *testing.T) {
	samples := TaskSamples([]models.Task{
		task(models.TaskStatusNotStarted, ""),
		task(models.TaskStatusInProgress, ""),
	})

	points := BurnupSeries("2024-04-01", "2024-04-10", samples)
	require.Len(t, points, 1)
	require.Equal(t, "2024-04-01", points[0].Date)
	require.Equal(t, 0, points[0].Completed)
}

func TestProgressBars(t *testing.T) {
	samples := TaskSamples([]models.Task{
		task(models.TaskStatusCompleted, "2024-04-05"),
		task(models.TaskStatusCompleted, "2024-04-02"),
		task(models.TaskStatusNotStarted, ""),
		task(models.TaskStatusNotStarted, ""),
	})

	bars := ProgressBars(samples)
	require.Len(t, bars, 2)
	require.Equal(t, models.ProgressBar{Date: "2024-04-02", Progress: 25, Label: "2024/04/02"}, bars[0])
	require.Equal(t, models.ProgressBar{Date: "2024-04-05", Progress: 50, Label: "2024/04/05"}, bars[1])

	require.Nil(t, ProgressBars(nil))
}

func TestCompletedDates_UniqueSorted(t *testing.T) {
	samples := TaskSamples([]models.Task{
		task(models.TaskStatusCompleted, "2024-04-05"),
		task(models.TaskStatusCompleted, "2024-04-02"),
		task(models.TaskStatusCompleted, "2024-04-05"),
	})

	require.Equal(t, []string{"2024-04-02", "2024-04-05"}, CompletedDates(samples))
}
