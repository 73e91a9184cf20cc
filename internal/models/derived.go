package models

// GanttTask is a projection of a Task or SubTask used only for
// timeline rendering; always re-derivable from its source entity.
type GanttTask struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	StartDate string     `json:"startDate"`
	EndDate   string     `json:"endDate"`
	Assignee  string     `json:"assignee"`
	Status    TaskStatus `json:"status"`
}

// TaskKind discriminates board entries at construction time instead of
// by structural field checks.
type TaskKind string

const (
	KindTask    TaskKind = "task"
	KindSubTask TaskKind = "subTask"
)

// BoardTask is one kanban card: a Task or SubTask annotated with its
// ancestry so the board can render parent breadcrumbs.
type BoardTask struct {
	Kind           TaskKind   `json:"kind"`
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Status         TaskStatus `json:"status"`
	StartDate      string     `json:"startDate,omitempty"`
	EndDate        string     `json:"endDate,omitempty"`
	Assignee       string     `json:"assignee,omitempty"`
	CompletedDate  string     `json:"completedDate,omitempty"`
	ProjectID      string     `json:"projectId,omitempty"`
	ProjectName    string     `json:"projectName,omitempty"`
	SubProjectID   string     `json:"subProjectId,omitempty"`
	SubProjectName string     `json:"subProjectName,omitempty"`
	BigProjectName string     `json:"bigProjectName,omitempty"`
}

// BoardColumns partitions every task and sub-task by status.
type BoardColumns struct {
	NotStarted []BoardTask `json:"notStarted"`
	InProgress []BoardTask `json:"inProgress"`
	Completed  []BoardTask `json:"completed"`
}

type SearchResultType string

const (
	SearchTypeProject    SearchResultType = "project"
	SearchTypeTask       SearchResultType = "task"
	SearchTypeBigProject SearchResultType = "bigProject"
	SearchTypeSubProject SearchResultType = "subProject"
	SearchTypeSubTask    SearchResultType = "subTask"
)

// SearchResult is one tagged hit carrying enough to render and to
// re-locate the source entity.
type SearchResult struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description,omitempty"`
	Type         SearchResultType `json:"type"`
	TypeLabel    string           `json:"typeLabel"`
	Parent       string           `json:"parent,omitempty"`
	Dates        string           `json:"dates,omitempty"`
	Status       string           `json:"status,omitempty"`
	ProjectID    string           `json:"projectId,omitempty"`
	SubProjectID string           `json:"subProjectId,omitempty"`
	BigProjectID string           `json:"bigProjectId,omitempty"`
}

// SearchFilters enables entity types for search.
type SearchFilters struct {
	Projects    bool `json:"projects"`
	Tasks       bool `json:"tasks"`
	BigProjects bool `json:"bigProjects"`
	SubProjects bool `json:"subProjects"`
	SubTasks    bool `json:"subTasks"`
}

// AllSearchFilters returns filters with every entity type enabled.
func AllSearchFilters() SearchFilters {
	return SearchFilters{
		Projects:    true,
		Tasks:       true,
		BigProjects: true,
		SubProjects: true,
		SubTasks:    true,
	}
}

// BurnupPoint is one sample on the burnup/burndown series.
type BurnupPoint struct {
	Date      string `json:"date"`
	Planned   int    `json:"plannedTasks"`
	Completed int    `json:"completedTasks"`
	Label     string `json:"label"`
}

// ProgressBar is one per-completion bar on the progress bar chart.
type ProgressBar struct {
	Date     string `json:"date"`
	Progress int    `json:"progress"`
	Label    string `json:"label"`
}
