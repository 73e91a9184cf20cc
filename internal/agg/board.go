package agg

import "github.com/planflow/planboard-api/internal/models"

// Partition groups every task and sub-task in the state into the three
// kanban columns.
func Partition(state State) models.BoardColumns {
	return models.BoardColumns{
		NotStarted: tasksByStatus(state, models.TaskStatusNotStarted),
		InProgress: tasksByStatus(state, models.TaskStatusInProgress),
		Completed:  tasksByStatus(state, models.TaskStatusCompleted),
	}
}

func tasksByStatus(state State, status models.TaskStatus) []models.BoardTask {
	names := make(map[string]string, len(state.Projects))
	for _, p := range state.Projects {
		names[p.ID] = p.Name
	}

	var out []models.BoardTask
	for _, projectID := range sortedKeys(state.ProjectTasks) {
		for _, t := range state.ProjectTasks[projectID] {
			if t.Status != status {
				continue
			}
			out = append(out, models.BoardTask{
				Kind:          models.KindTask,
				ID:            t.ID,
				Title:         t.Title,
				Status:        t.Status,
				StartDate:     t.StartDate,
				EndDate:       t.EndDate,
				CompletedDate: t.CompletedDate,
				Assignee:      t.Assignee,
				ProjectID:     t.ProjectID,
				ProjectName:   names[t.ProjectID],
			})
		}
	}

	subProjects := make(map[string]models.SubProject, len(state.SubProjects))
	for _, sp := range state.SubProjects {
		subProjects[sp.ID] = sp
	}
	for _, subProjectID := range sortedKeys(state.SubTasks) {
		sp := subProjects[subProjectID]
		for _, t := range state.SubTasks[subProjectID] {
			if t.Status != status {
				continue
			}
			out = append(out, models.BoardTask{
				Kind:           models.KindSubTask,
				ID:             t.ID,
				Title:          t.Title,
				Status:         t.Status,
				StartDate:      t.StartDate,
				EndDate:        t.EndDate,
				CompletedDate:  t.CompletedDate,
				Assignee:       t.Assignee,
				SubProjectID:   subProjectID,
				SubProjectName: sp.Name,
				BigProjectName: sp.BigProjectName,
			})
		}
	}
	return out
}
