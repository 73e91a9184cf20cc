package models

type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "not-started"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Project is a top-level container owning tasks via the projectId
// back-reference. Dates are ISO yyyy-mm-dd strings, times HH:MM.
type Project struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	StartDate   string   `json:"startDate,omitempty"`
	StartTime   string   `json:"startTime,omitempty"`
	EndDate     string   `json:"endDate,omitempty"`
	EndTime     string   `json:"endTime,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Progress    int      `json:"progress"`
	Assignee    string   `json:"assignee,omitempty"`
}

// Task is a work item under a Project.
type Task struct {
	ID            string     `json:"id,omitempty"`
	ProjectID     string     `json:"projectId"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Status        TaskStatus `json:"status"`
	StartDate     string     `json:"startDate,omitempty"`
	StartTime     string     `json:"startTime,omitempty"`
	EndDate       string     `json:"endDate,omitempty"`
	EndTime       string     `json:"endTime,omitempty"`
	Assignee      string     `json:"assignee,omitempty"`
	Category      string     `json:"category,omitempty"`
	CompletedDate string     `json:"completedDate,omitempty"`
}
