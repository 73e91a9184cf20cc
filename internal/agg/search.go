package agg

import (
	"fmt"
	"strings"
	"time"

	"github.com/planflow/planboard-api/internal/models"
)

// StatusLabel maps stored status values to display text.
func StatusLabel(status string) string {
	switch status {
	case string(models.TaskStatusNotStarted):
		return "Not started"
	case string(models.TaskStatusInProgress):
		return "In progress"
	case string(models.TaskStatusCompleted):
		return "Completed"
	case string(models.BigProjectStatusPlanning):
		return "Planning"
	case string(models.BigProjectStatusActive):
		return "Active"
	case string(models.BigProjectStatusOnHold):
		return "On hold"
	default:
		return status
	}
}

// DateRangeLabel renders "start .. end (N days)" with the inclusive
// day count, or an empty string when either date is missing.
func DateRangeLabel(startDate, endDate string) string {
	if startDate == "" || endDate == "" {
		return ""
	}
	start, err1 := time.Parse("2006-01-02", startDate)
	end, err2 := time.Parse("2006-01-02", endDate)
	if err1 != nil || err2 != nil {
		return startDate + " .. " + endDate
	}
	days := int(end.Sub(start).Hours()/24) + 1
	unit := "days"
	if days == 1 {
		unit = "day"
	}
	return fmt.Sprintf("%s .. %s (%d %s)", startDate, endDate, days, unit)
}

func matches(query string, fields ...string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

// Search scans every cached entity type enabled by the filters for a
// case-insensitive substring match against name, description, assignee
// and category. A blank query returns no results.
func Search(state State, query string, filters models.SearchFilters) []models.SearchResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var results []models.SearchResult

	if filters.Projects {
		for _, p := range state.Projects {
			if !matches(query, p.Name, p.Description, p.Assignee, p.Category) {
				continue
			}
			results = append(results, models.SearchResult{
				ID:          p.ID,
				Title:       p.Name,
				Description: p.Description,
				Type:        models.SearchTypeProject,
				TypeLabel:   "Project",
				Dates:       DateRangeLabel(p.StartDate, p.EndDate),
				Status:      fmt.Sprintf("%d%%", p.Progress),
				ProjectID:   p.ID,
			})
		}
	}

	if filters.Tasks {
		names := make(map[string]string, len(state.Projects))
		for _, p := range state.Projects {
			names[p.ID] = p.Name
		}
		for _, projectID := range sortedKeys(state.ProjectTasks) {
			for _, t := range state.ProjectTasks[projectID] {
				if !matches(query, t.Title, t.Description, t.Assignee) {
					continue
				}
				results = append(results, models.SearchResult{
					ID:          t.ID,
					Title:       t.Title,
					Description: t.Description,
					Type:        models.SearchTypeTask,
					TypeLabel:   "Task",
					Parent:      names[t.ProjectID],
					Dates:       DateRangeLabel(t.StartDate, t.EndDate),
					Status:      StatusLabel(string(t.Status)),
					ProjectID:   t.ProjectID,
				})
			}
		}
	}

	if filters.BigProjects {
		for _, bp := range state.BigProjects {
			if !matches(query, bp.Name, bp.Description, bp.Assignee, bp.Category) {
				continue
			}
			results = append(results, models.SearchResult{
				ID:           bp.ID,
				Title:        bp.Name,
				Description:  bp.Description,
				Type:         models.SearchTypeBigProject,
				TypeLabel:    "Big project",
				Dates:        DateRangeLabel(bp.StartDate, bp.EndDate),
				Status:       StatusLabel(string(bp.Status)),
				BigProjectID: bp.ID,
			})
		}
	}

	if filters.SubProjects {
		for _, sp := range state.SubProjects {
			if matches(query, sp.Name, sp.Description, sp.Assignee) {
				results = append(results, models.SearchResult{
					ID:           sp.ID,
					Title:        sp.Name,
					Description:  sp.Description,
					Type:         models.SearchTypeSubProject,
					TypeLabel:    "Sub-project",
					Parent:       sp.BigProjectName,
					Dates:        DateRangeLabel(sp.StartDate, sp.EndDate),
					Status:       fmt.Sprintf("%d%%", SubProjectProgress(sp, state.SubTasks[sp.ID])),
					BigProjectID: sp.BigProjectID,
					SubProjectID: sp.ID,
				})
			}
			// Legacy sub-projects carry their tasks embedded on the
			// document itself. Those surface as sub-task results under
			// this filter too.
			for _, t := range sp.Tasks {
				if !matches(query, t.Title, t.Description, t.Assignee, t.Category) {
					continue
				}
				results = append(results, models.SearchResult{
					ID:           t.ID,
					Title:        t.Title,
					Description:  t.Description,
					Type:         models.SearchTypeSubTask,
					TypeLabel:    "Sub-task",
					Parent:       strings.TrimPrefix(sp.BigProjectName+" / "+sp.Name, " / "),
					Dates:        DateRangeLabel(t.StartDate, t.EndDate),
					Status:       StatusLabel(string(t.Status)),
					BigProjectID: sp.BigProjectID,
					SubProjectID: sp.ID,
				})
			}
		}
	}

	if filters.SubTasks {
		subProjects := make(map[string]models.SubProject, len(state.SubProjects))
		for _, sp := range state.SubProjects {
			subProjects[sp.ID] = sp
		}
		for _, subProjectID := range sortedKeys(state.SubTasks) {
			sp := subProjects[subProjectID]
			for _, t := range state.SubTasks[subProjectID] {
				if !matches(query, t.Title, t.Description, t.Assignee) {
					continue
				}
				results = append(results, models.SearchResult{
					ID:           t.ID,
					Title:        t.Title,
					Description:  t.Description,
					Type:         models.SearchTypeSubTask,
					TypeLabel:    "Sub-task",
					Parent:       strings.TrimPrefix(sp.BigProjectName+" / "+sp.Name, " / "),
					Dates:        DateRangeLabel(t.StartDate, t.EndDate),
					Status:       StatusLabel(string(t.Status)),
					BigProjectID: sp.BigProjectID,
					SubProjectID: subProjectID,
				})
			}
		}
	}

	return results
}
