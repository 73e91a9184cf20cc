package models

type BigProjectStatus string

const (
	BigProjectStatusPlanning  BigProjectStatus = "planning"
	BigProjectStatusActive    BigProjectStatus = "active"
	BigProjectStatusOnHold    BigProjectStatus = "on-hold"
	BigProjectStatusCompleted BigProjectStatus = "completed"
)

// BigProject owns sub-projects through the subProjects subcollection.
// The embedded SubProjects array is legacy document shape and is not
// maintained at runtime; the subcollection is authoritative.
type BigProject struct {
	ID          string           `json:"id,omitempty"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	StartDate   string           `json:"startDate,omitempty"`
	StartTime   string           `json:"startTime,omitempty"`
	EndDate     string           `json:"endDate,omitempty"`
	EndTime     string           `json:"endTime,omitempty"`
	Category    string           `json:"category,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	Progress    int              `json:"progress"`
	Assignee    string           `json:"assignee,omitempty"`
	Budget      int              `json:"budget,omitempty"`
	Status      BigProjectStatus `json:"status,omitempty"`
	SubProjects []SubProject     `json:"subProjects,omitempty"`
}

// SubProject belongs to exactly one BigProject. The subcollection
// documents do not carry the parent reference natively; BigProjectID
// and BigProjectName are stamped by the sync controller on delivery.
type SubProject struct {
	ID             string    `json:"id,omitempty"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	StartDate      string    `json:"startDate,omitempty"`
	StartTime      string    `json:"startTime,omitempty"`
	EndDate        string    `json:"endDate,omitempty"`
	EndTime        string    `json:"endTime,omitempty"`
	Assignee       string    `json:"assignee,omitempty"`
	Tasks          []SubTask `json:"tasks,omitempty"`
	BigProjectID   string    `json:"bigProjectId,omitempty"`
	BigProjectName string    `json:"bigProjectName,omitempty"`
}

// SubTask is a leaf work item under a SubProject.
type SubTask struct {
	ID            string     `json:"id,omitempty"`
	SubProjectID  string     `json:"subProjectId"`
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
