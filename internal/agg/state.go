package agg

import (
	"sort"

	"github.com/planflow/planboard-api/internal/models"
)

// State is a point-in-time copy of the entity caches. SubProjects are
// the parent-stamped aggregates across all big projects; SubTasks is
// keyed by sub-project id.
type State struct {
	Projects     []models.Project
	ProjectTasks map[string][]models.Task
	BigProjects  []models.BigProject
	SubProjects  []models.SubProject
	SubTasks     map[string][]models.SubTask
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
