package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/planflow/planboard-api/internal/agg"
	"github.com/planflow/planboard-api/internal/constants"
	"github.com/planflow/planboard-api/internal/models"
	"github.com/planflow/planboard-api/internal/store"
)

var (
	ErrNameRequired          = errors.New("name is required")
	ErrTitleRequired         = errors.New("title is required")
	ErrDatesRequired         = errors.New("start and end dates are required")
	ErrEndBeforeStart        = errors.New("end date must not precede start date")
	ErrCompletedAfterEnd     = errors.New("completed date must not exceed end date")
	ErrCompletedDateRequired = errors.New("completed status requires a completed date")
	ErrSubProjectOutOfRange  = errors.New("sub-project dates must fall within the big project")
	ErrBigProjectNotFound    = errors.New("big project not found")
	ErrSubProjectNotFound    = errors.New("sub-project not found")
	ErrTaskNotFound          = errors.New("task not found")
)

// PlanService handles create, update and delete for every planning
// entity. All validation happens here, before anything reaches the
// store; listing goes through the live controller's caches instead.
type PlanService struct {
	store store.Store
}

// NewPlanService creates a new PlanService.
func NewPlanService(st store.Store) *PlanService {
	return &PlanService{store: st}
}

// Dates are ISO yyyy-mm-dd so lexical comparison is chronological.
func validateRange(startDate, endDate string) error {
	if startDate == "" || endDate == "" {
		return ErrDatesRequired
	}
	if endDate < startDate {
		return ErrEndBeforeStart
	}
	return nil
}

func validateTask(title, startDate, endDate, completedDate string, status models.TaskStatus) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	if err := validateRange(startDate, endDate); err != nil {
		return err
	}
	if completedDate != "" && completedDate > endDate {
		return ErrCompletedAfterEnd
	}
	if status == models.TaskStatusCompleted && completedDate == "" {
		return ErrCompletedDateRequired
	}
	return nil
}

func normalizeStatus(status models.TaskStatus, completedDate string) models.TaskStatus {
	if completedDate != "" {
		return models.TaskStatusCompleted
	}
	if status == "" {
		return models.TaskStatusNotStarted
	}
	return status
}

// CreateProject validates and stores a new project.
func (s *PlanService) CreateProject(p models.Project) (string, error) {
	if strings.TrimSpace(p.Name) == "" {
		return "", ErrNameRequired
	}
	if err := validateRange(p.StartDate, p.EndDate); err != nil {
		return "", err
	}
	p.ID = ""
	p.Progress = 0
	id, err := s.store.Add(constants.CollectionProjects, p)
	if err != nil {
		return "", fmt.Errorf("failed to create project: %w", err)
	}
	return id, nil
}

// UpdateProject validates and merges changed project fields.
func (s *PlanService) UpdateProject(id string, p models.Project) error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	if err := validateRange(p.StartDate, p.EndDate); err != nil {
		return err
	}
	p.ID = ""
	fields, err := store.Fields(p)
	if err != nil {
		return err
	}
	return s.store.Update(constants.CollectionProjects, id, fields)
}

// DeleteProject removes a project. Its tasks keep their documents; the
// live controller drops them once the project subscription closes.
func (s *PlanService) DeleteProject(id string) error {
	return s.store.Delete(constants.CollectionProjects, id)
}

// CreateTask validates and stores a new task under a project, then
// refreshes the project's persisted progress.
func (s *PlanService) CreateTask(projectID string, t models.Task) (string, error) {
	t.Status = normalizeStatus(t.Status, t.CompletedDate)
	if err := validateTask(t.Title, t.StartDate, t.EndDate, t.CompletedDate, t.Status); err != nil {
		return "", err
	}
	t.ID = ""
	t.ProjectID = projectID
	id, err := s.store.Add(constants.CollectionTasks, t)
	if err != nil {
		return "", fmt.Errorf("failed to create task: %w", err)
	}
	return id, s.refreshProjectProgress(projectID)
}

// UpdateTask validates and merges changed task fields.
func (s *PlanService) UpdateTask(id string, t models.Task) error {
	t.Status = normalizeStatus(t.Status, t.CompletedDate)
	if err := validateTask(t.Title, t.StartDate, t.EndDate, t.CompletedDate, t.Status); err != nil {
		return err
	}
	projectID := t.ProjectID
	t.ID = ""
	fields, err := store.Fields(t)
	if err != nil {
		return err
	}
	if t.CompletedDate == "" {
		fields["completedDate"] = nil
	}
	if err := s.store.Update(constants.CollectionTasks, id, fields); err != nil {
		return err
	}
	return s.refreshProjectProgress(projectID)
}

// UpdateTaskStatus transitions a task's status. Completing requires a
// completion date; leaving completed clears it.
func (s *PlanService) UpdateTaskStatus(id string, status models.TaskStatus, completedDate string) error {
	if status == models.TaskStatusCompleted && completedDate == "" {
		return ErrCompletedDateRequired
	}
	task, err := s.findTask(id)
	if err != nil {
		return err
	}
	if status == models.TaskStatusCompleted && task.EndDate != "" && completedDate > task.EndDate {
		return ErrCompletedAfterEnd
	}
	fields := map[string]any{"status": string(status)}
	if status == models.TaskStatusCompleted {
		fields["completedDate"] = completedDate
	} else {
		fields["completedDate"] = nil
	}
	if err := s.store.Update(constants.CollectionTasks, id, fields); err != nil {
		return err
	}
	return s.refreshProjectProgress(task.ProjectID)
}

// DeleteTask removes a task and refreshes its project's progress.
func (s *PlanService) DeleteTask(id string) error {
	task, err := s.findTask(id)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return nil
		}
		return err
	}
	if err := s.store.Delete(constants.CollectionTasks, id); err != nil {
		return err
	}
	return s.refreshProjectProgress(task.ProjectID)
}

func (s *PlanService) findTask(id string) (*models.Task, error) {
	snap, err := s.store.Load(store.Collection(constants.CollectionTasks))
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	for _, t := range store.DecodeAll[models.Task](snap) {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, ErrTaskNotFound
}

func (s *PlanService) refreshProjectProgress(projectID string) error {
	q := store.Collection(constants.CollectionTasks).Where("projectId", projectID)
	snap, err := s.store.Load(q)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	tasks := store.DecodeAll[models.Task](snap)
	progress := agg.Progress(agg.TaskSamples(tasks))
	return s.store.Update(constants.CollectionProjects, projectID, map[string]any{
		"progress": progress,
	})
}

// CreateBigProject validates and stores a new big project.
func (s *PlanService) CreateBigProject(bp models.BigProject) (string, error) {
	if strings.TrimSpace(bp.Name) == "" {
		return "", ErrNameRequired
	}
	if err := validateRange(bp.StartDate, bp.EndDate); err != nil {
		return "", err
	}
	if bp.Status == "" {
		bp.Status = models.BigProjectStatusPlanning
	}
	bp.ID = ""
	bp.SubProjects = nil
	id, err := s.store.Add(constants.CollectionBigProjects, bp)
	if err != nil {
		return "", fmt.Errorf("failed to create big project: %w", err)
	}
	return id, nil
}

// UpdateBigProject validates and merges changed big project fields.
func (s *PlanService) UpdateBigProject(id string, bp models.BigProject) error {
	if strings.TrimSpace(bp.Name) == "" {
		return ErrNameRequired
	}
	if err := validateRange(bp.StartDate, bp.EndDate); err != nil {
		return err
	}
	bp.ID = ""
	bp.SubProjects = nil
	fields, err := store.Fields(bp)
	if err != nil {
		return err
	}
	return s.store.Update(constants.CollectionBigProjects, id, fields)
}

// DeleteBigProject removes a big project document. Subcollection
// documents under it become unreachable once its subscription closes.
func (s *PlanService) DeleteBigProject(id string) error {
	return s.store.Delete(constants.CollectionBigProjects, id)
}

func (s *PlanService) findBigProject(id string) (*models.BigProject, error) {
	snap, err := s.store.Load(store.Collection(constants.CollectionBigProjects))
	if err != nil {
		return nil, fmt.Errorf("failed to load big projects: %w", err)
	}
	for _, bp := range store.DecodeAll[models.BigProject](snap) {
		if bp.ID == id {
			return &bp, nil
		}
	}
	return nil, ErrBigProjectNotFound
}

// CreateSubProject validates and stores a sub-project, constraining
// its range to the parent big project's.
func (s *PlanService) CreateSubProject(bigProjectID string, sp models.SubProject) (string, error) {
	if err := s.validateSubProject(bigProjectID, &sp); err != nil {
		return "", err
	}
	sp.ID = ""
	sp.BigProjectID = ""
	sp.BigProjectName = ""
	id, err := s.store.Add(store.SubProjectsPath(bigProjectID), sp)
	if err != nil {
		return "", fmt.Errorf("failed to create sub-project: %w", err)
	}
	return id, nil
}

// UpdateSubProject validates and merges changed sub-project fields.
func (s *PlanService) UpdateSubProject(bigProjectID, id string, sp models.SubProject) error {
	if err := s.validateSubProject(bigProjectID, &sp); err != nil {
		return err
	}
	sp.ID = ""
	sp.BigProjectID = ""
	sp.BigProjectName = ""
	fields, err := store.Fields(sp)
	if err != nil {
		return err
	}
	return s.store.Update(store.SubProjectsPath(bigProjectID), id, fields)
}

// DeleteSubProject removes a sub-project.
func (s *PlanService) DeleteSubProject(bigProjectID, id string) error {
	return s.store.Delete(store.SubProjectsPath(bigProjectID), id)
}

func (s *PlanService) validateSubProject(bigProjectID string, sp *models.SubProject) error {
	if strings.TrimSpace(sp.Name) == "" {
		return ErrNameRequired
	}
	if err := validateRange(sp.StartDate, sp.EndDate); err != nil {
		return err
	}
	parent, err := s.findBigProject(bigProjectID)
	if err != nil {
		return err
	}
	if (parent.StartDate != "" && sp.StartDate < parent.StartDate) ||
		(parent.EndDate != "" && sp.EndDate > parent.EndDate) {
		return ErrSubProjectOutOfRange
	}
	return nil
}

// CreateSubTask validates and stores a sub-task under a sub-project.
func (s *PlanService) CreateSubTask(bigProjectID, subProjectID string, t models.SubTask) (string, error) {
	t.Status = normalizeStatus(t.Status, t.CompletedDate)
	if err := validateTask(t.Title, t.StartDate, t.EndDate, t.CompletedDate, t.Status); err != nil {
		return "", err
	}
	t.ID = ""
	t.SubProjectID = subProjectID
	id, err := s.store.Add(store.SubTasksPath(bigProjectID, subProjectID), t)
	if err != nil {
		return "", fmt.Errorf("failed to create sub-task: %w", err)
	}
	return id, nil
}

// UpdateSubTask validates and merges changed sub-task fields.
func (s *PlanService) UpdateSubTask(bigProjectID, subProjectID, id string, t models.SubTask) error {
	t.Status = normalizeStatus(t.Status, t.CompletedDate)
	if err := validateTask(t.Title, t.StartDate, t.EndDate, t.CompletedDate, t.Status); err != nil {
		return err
	}
	t.ID = ""
	t.SubProjectID = subProjectID
	fields, err := store.Fields(t)
	if err != nil {
		return err
	}
	if t.CompletedDate == "" {
		fields["completedDate"] = nil
	}
	return s.store.Update(store.SubTasksPath(bigProjectID, subProjectID), id, fields)
}

// UpdateSubTaskStatus transitions a sub-task's status with the same
// completion rules as tasks.
func (s *PlanService) UpdateSubTaskStatus(bigProjectID, subProjectID, id string, status models.TaskStatus, completedDate string) error {
	if status == models.TaskStatusCompleted && completedDate == "" {
		return ErrCompletedDateRequired
	}
	fields := map[string]any{"status": string(status)}
	if status == models.TaskStatusCompleted {
		fields["completedDate"] = completedDate
	} else {
		fields["completedDate"] = nil
	}
	return s.store.Update(store.SubTasksPath(bigProjectID, subProjectID), id, fields)
}

// DeleteSubTask removes a sub-task.
func (s *PlanService) DeleteSubTask(bigProjectID, subProjectID, id string) error {
	return s.store.Delete(store.SubTasksPath(bigProjectID, subProjectID), id)
}
