// Package agg derives board, search and chart inputs from the live
// entity caches. Every function is pure over its arguments; the sync
// controller owns the caches and recomputes wholesale on each
// snapshot.
package agg

import (
	"math"

	"github.com/planflow/planboard-api/internal/models"
)

// Sample reduces any task flavor to the fields progress math needs.
type Sample struct {
	Status        models.TaskStatus
	CompletedDate string
}

// TaskSamples projects regular tasks into samples.
func TaskSamples(tasks []models.Task) []Sample {
	out := make([]Sample, len(tasks))
	for i, t := range tasks {
		out[i] = Sample{Status: t.Status, CompletedDate: t.CompletedDate}
	}
	return out
}

// SubTaskSamples projects sub-tasks into samples.
func SubTaskSamples(tasks []models.SubTask) []Sample {
	out := make([]Sample, len(tasks))
	for i, t := range tasks {
		out[i] = Sample{Status: t.Status, CompletedDate: t.CompletedDate}
	}
	return out
}

// CompletedCount counts completed samples.
func CompletedCount(samples []Sample) int {
	n := 0
	for _, s := range samples {
		if s.Status == models.TaskStatusCompleted {
			n++
		}
	}
	return n
}

// Progress is round(100 * completed / total), 0 for an empty set.
func Progress(samples []Sample) int {
	if len(samples) == 0 {
		return 0
	}
	return int(math.Round(float64(CompletedCount(samples)) / float64(len(samples)) * 100))
}

// SubProjectSamples is the union of a sub-project's embedded tasks and
// its separately subscribed sub-tasks.
func SubProjectSamples(sp models.SubProject, subTasks []models.SubTask) []Sample {
	return append(SubTaskSamples(sp.Tasks), SubTaskSamples(subTasks)...)
}

// SubProjectProgress computes progress over the union task set.
func SubProjectProgress(sp models.SubProject, subTasks []models.SubTask) int {
	return Progress(SubProjectSamples(sp, subTasks))
}

// BigProjectProgress is the rounded average of the sub-projects'
// progress values. Averaging at the sub-project level is intentional:
// a sub-project with one task and one with a hundred contribute
// equally.
func BigProjectProgress(subProjects []models.SubProject, subTasks map[string][]models.SubTask) int {
	if len(subProjects) == 0 {
		return 0
	}
	sum := 0
	for _, sp := range subProjects {
		sum += SubProjectProgress(sp, subTasks[sp.ID])
	}
	return int(math.Round(float64(sum) / float64(len(subProjects))))
}
