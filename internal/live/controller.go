// Package live keeps in-memory entity caches synchronized with the
// document store and recomputes the derived views (board, gantt,
// burnup) on every snapshot.
package live

import (
	"sort"
	"strings"
	"sync"

	"github.com/planflow/planboard-api/internal/agg"
	"github.com/planflow/planboard-api/internal/chart"
	"github.com/planflow/planboard-api/internal/constants"
	"github.com/planflow/planboard-api/internal/models"
	"github.com/planflow/planboard-api/internal/store"
)

// Target id prefixes for the gantt and burnup selectors.
const (
	TargetProjectPrefix    = "project-"
	TargetSubProjectPrefix = "sub-"
)

// GanttView is the computed gantt state for the selected target.
type GanttView struct {
	Target    string              `json:"target"`
	StartDate string              `json:"startDate"`
	EndDate   string              `json:"endDate"`
	Months    []string            `json:"months"`
	Tasks     []models.GanttTask  `json:"tasks"`
	Bars      []chart.BarPosition `json:"bars"`
}

// BurnupView is the computed burnup state for the selected target.
// EndDate is the last completion date when the series ends early,
// otherwise the entity's end date.
type BurnupView struct {
	Target    string               `json:"target"`
	StartDate string               `json:"startDate"`
	EndDate   string               `json:"endDate"`
	Points    []models.BurnupPoint `json:"points"`
	Bars      []models.ProgressBar `json:"bars"`
}

// Controller owns every live subscription and the caches they feed.
// Nested subscriptions follow the data: a projects snapshot opens one
// task subscription per project, a big-projects snapshot opens one
// sub-project subscription per big project, and each sub-project
// snapshot opens one sub-task subscription per sub-project. Cancelling
// always precedes replacing, and subscriptions for vanished parents
// are cancelled instead of left running.
type Controller struct {
	store store.Store

	mu             sync.Mutex
	projects       []models.Project
	projectTasks   map[string][]models.Task
	bigProjects    []models.BigProject
	subProjectsMap map[string][]models.SubProject
	subTasksMap    map[string][]models.SubTask

	rootCancels    []store.CancelFunc
	taskSubs       map[string]store.CancelFunc
	subProjectSubs map[string]store.CancelFunc
	subTaskSubs    map[string]store.CancelFunc

	board        models.BoardColumns
	ganttTarget  string
	gantt        GanttView
	burnupTarget string
	burnup       BurnupView

	closed bool
}

// NewController builds a controller over st. Call Start to begin
// syncing and Close to tear every subscription down.
func NewController(st store.Store) *Controller {
	return &Controller{
		store:          st,
		projectTasks:   make(map[string][]models.Task),
		subProjectsMap: make(map[string][]models.SubProject),
		subTasksMap:    make(map[string][]models.SubTask),
		taskSubs:       make(map[string]store.CancelFunc),
		subProjectSubs: make(map[string]store.CancelFunc),
		subTaskSubs:    make(map[string]store.CancelFunc),
	}
}

// Start opens the root subscriptions on projects and big projects.
func (c *Controller) Start() error {
	cancelProjects, err := c.store.Subscribe(
		store.Collection(constants.CollectionProjects), c.onProjects)
	if err != nil {
		return err
	}
	cancelBig, err := c.store.Subscribe(
		store.Collection(constants.CollectionBigProjects), c.onBigProjects)
	if err != nil {
		cancelProjects()
		return err
	}
	c.mu.Lock()
	c.rootCancels = append(c.rootCancels, cancelProjects, cancelBig)
	c.mu.Unlock()
	return nil
}

// Close cancels every subscription. The controller is unusable after.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	cancels := append([]store.CancelFunc{}, c.rootCancels...)
	for _, cancel := range c.taskSubs {
		cancels = append(cancels, cancel)
	}
	for _, cancel := range c.subProjectSubs {
		cancels = append(cancels, cancel)
	}
	for _, cancel := range c.subTaskSubs {
		cancels = append(cancels, cancel)
	}
	c.rootCancels = nil
	c.taskSubs = map[string]store.CancelFunc{}
	c.subProjectSubs = map[string]store.CancelFunc{}
	c.subTaskSubs = map[string]store.CancelFunc{}
	c.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

func (c *Controller) onProjects(snap store.Snapshot) {
	projects := store.DecodeAll[models.Project](snap)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.projects = projects

	current := make(map[string]bool, len(projects))
	for _, p := range projects {
		current[p.ID] = true
		if _, ok := c.taskSubs[p.ID]; ok {
			continue
		}
		projectID := p.ID
		q := store.Collection(constants.CollectionTasks).Where("projectId", projectID)
		cancel, err := c.store.Subscribe(q, func(snap store.Snapshot) {
			c.onTasks(projectID, snap)
		})
		if err != nil {
			continue
		}
		c.taskSubs[projectID] = cancel
	}
	for id, cancel := range c.taskSubs {
		if !current[id] {
			cancel()
			delete(c.taskSubs, id)
			delete(c.projectTasks, id)
		}
	}

	if c.burnupTarget == "" && len(projects) > 0 {
		c.burnupTarget = TargetProjectPrefix + projects[0].ID
	}
	if c.ganttTarget == "" && len(projects) > 0 {
		c.ganttTarget = TargetProjectPrefix + projects[0].ID
	}
	c.recompute()
}

func (c *Controller) onTasks(projectID string, snap store.Snapshot) {
	tasks := store.DecodeAll[models.Task](snap)
	for i := range tasks {
		if tasks[i].Status == "" {
			tasks[i].Status = models.TaskStatusNotStarted
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if _, ok := c.taskSubs[projectID]; !ok {
		return
	}
	c.projectTasks[projectID] = tasks
	c.recompute()
}

func (c *Controller) onBigProjects(snap store.Snapshot) {
	bigProjects := store.DecodeAll[models.BigProject](snap)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.bigProjects = bigProjects

	current := make(map[string]bool, len(bigProjects))
	for _, bp := range bigProjects {
		current[bp.ID] = true
		if cancel, ok := c.subProjectSubs[bp.ID]; ok {
			cancel()
		}
		bigProjectID, bigProjectName := bp.ID, bp.Name
		q := store.Collection(store.SubProjectsPath(bigProjectID))
		cancel, err := c.store.Subscribe(q, func(snap store.Snapshot) {
			c.onSubProjects(bigProjectID, bigProjectName, snap)
		})
		if err != nil {
			delete(c.subProjectSubs, bigProjectID)
			continue
		}
		c.subProjectSubs[bigProjectID] = cancel
	}
	for id, cancel := range c.subProjectSubs {
		if !current[id] {
			cancel()
			delete(c.subProjectSubs, id)
			c.dropSubProjectsLocked(id)
		}
	}
	c.recompute()
}

func (c *Controller) onSubProjects(bigProjectID, bigProjectName string, snap store.Snapshot) {
	subProjects := store.DecodeAll[models.SubProject](snap)
	for i := range subProjects {
		subProjects[i].BigProjectID = bigProjectID
		subProjects[i].BigProjectName = bigProjectName
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if _, ok := c.subProjectSubs[bigProjectID]; !ok {
		return
	}
	c.subProjectsMap[bigProjectID] = subProjects

	current := make(map[string]bool, len(subProjects))
	for _, sp := range subProjects {
		current[sp.ID] = true
		if cancel, ok := c.subTaskSubs[sp.ID]; ok {
			cancel()
		}
		subProjectID := sp.ID
		q := store.Collection(store.SubTasksPath(bigProjectID, subProjectID))
		cancel, err := c.store.Subscribe(q, func(snap store.Snapshot) {
			c.onSubTasks(subProjectID, snap)
		})
		if err != nil {
			delete(c.subTaskSubs, subProjectID)
			continue
		}
		c.subTaskSubs[subProjectID] = cancel
	}
	for id, cancel := range c.subTaskSubs {
		if current[id] {
			continue
		}
		if c.findSubProjectLocked(id) == nil {
			cancel()
			delete(c.subTaskSubs, id)
			delete(c.subTasksMap, id)
		}
	}
	c.recompute()
}

func (c *Controller) onSubTasks(subProjectID string, snap store.Snapshot) {
	subTasks := store.DecodeAll[models.SubTask](snap)
	for i := range subTasks {
		subTasks[i].SubProjectID = subProjectID
		if subTasks[i].Status == "" {
			subTasks[i].Status = models.TaskStatusNotStarted
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if _, ok := c.subTaskSubs[subProjectID]; !ok {
		return
	}
	c.subTasksMap[subProjectID] = subTasks
	c.recompute()
}

func (c *Controller) dropSubProjectsLocked(bigProjectID string) {
	for _, sp := range c.subProjectsMap[bigProjectID] {
		if cancel, ok := c.subTaskSubs[sp.ID]; ok {
			cancel()
			delete(c.subTaskSubs, sp.ID)
		}
		delete(c.subTasksMap, sp.ID)
	}
	delete(c.subProjectsMap, bigProjectID)
}

func (c *Controller) findSubProjectLocked(subProjectID string) *models.SubProject {
	for _, bp := range c.bigProjects {
		for i := range c.subProjectsMap[bp.ID] {
			if c.subProjectsMap[bp.ID][i].ID == subProjectID {
				return &c.subProjectsMap[bp.ID][i]
			}
		}
	}
	return nil
}

func (c *Controller) stateLocked() agg.State {
	subProjects := make([]models.SubProject, 0)
	for _, bp := range c.bigProjects {
		subProjects = append(subProjects, c.subProjectsMap[bp.ID]...)
	}
	return agg.State{
		Projects:     c.projects,
		ProjectTasks: c.projectTasks,
		BigProjects:  c.bigProjects,
		SubProjects:  subProjects,
		SubTasks:     c.subTasksMap,
	}
}

func (c *Controller) recompute() {
	state := c.stateLocked()
	c.board = agg.Partition(state)
	c.gantt = c.computeGanttLocked(state)
	c.burnup = c.computeBurnupLocked(state)
}

func (c *Controller) computeGanttLocked(state agg.State) GanttView {
	view := GanttView{Target: c.ganttTarget}
	var tasks []models.GanttTask
	switch {
	case strings.HasPrefix(c.ganttTarget, TargetProjectPrefix):
		projectID := strings.TrimPrefix(c.ganttTarget, TargetProjectPrefix)
		for _, t := range state.ProjectTasks[projectID] {
			if t.StartDate == "" || t.EndDate == "" {
				continue
			}
			tasks = append(tasks, models.GanttTask{
				ID: t.ID, Name: t.Title, StartDate: t.StartDate,
				EndDate: t.EndDate, Assignee: t.Assignee, Status: t.Status,
			})
		}
	case strings.HasPrefix(c.ganttTarget, TargetSubProjectPrefix):
		subProjectID := strings.TrimPrefix(c.ganttTarget, TargetSubProjectPrefix)
		if sp := c.findSubProjectLocked(subProjectID); sp != nil {
			all := append(append([]models.SubTask{}, sp.Tasks...), c.subTasksMap[subProjectID]...)
			for _, t := range all {
				if t.StartDate == "" || t.EndDate == "" {
					continue
				}
				tasks = append(tasks, models.GanttTask{
					ID: t.ID, Name: t.Title, StartDate: t.StartDate,
					EndDate: t.EndDate, Assignee: t.Assignee, Status: t.Status,
				})
			}
		}
	}
	sortGanttTasks(tasks)
	start, end, months, ok := chart.Range(tasks)
	if !ok {
		view.Tasks = tasks
		return view
	}
	view.StartDate, view.EndDate, view.Months = start, end, months
	view.Tasks = tasks
	view.Bars = make([]chart.BarPosition, len(tasks))
	for i, t := range tasks {
		view.Bars[i] = chart.Bar(t, start, end)
	}
	return view
}

func sortGanttTasks(tasks []models.GanttTask) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].StartDate < tasks[j].StartDate
	})
}

func (c *Controller) computeBurnupLocked(state agg.State) BurnupView {
	view := BurnupView{Target: c.burnupTarget}
	var samples []agg.Sample
	var start, end string
	switch {
	case strings.HasPrefix(c.burnupTarget, TargetProjectPrefix):
		projectID := strings.TrimPrefix(c.burnupTarget, TargetProjectPrefix)
		for _, p := range state.Projects {
			if p.ID == projectID {
				start, end = p.StartDate, p.EndDate
				break
			}
		}
		samples = agg.TaskSamples(state.ProjectTasks[projectID])
	case strings.HasPrefix(c.burnupTarget, TargetSubProjectPrefix):
		subProjectID := strings.TrimPrefix(c.burnupTarget, TargetSubProjectPrefix)
		if sp := c.findSubProjectLocked(subProjectID); sp != nil {
			start, end = sp.StartDate, sp.EndDate
			samples = agg.SubProjectSamples(*sp, c.subTasksMap[subProjectID])
		}
	}
	points := agg.BurnupSeries(start, end, samples)
	view.Points = points
	view.Bars = agg.ProgressBars(samples)
	view.StartDate = start
	view.EndDate = end
	if len(points) > 0 {
		view.EndDate = points[len(points)-1].Date
	}
	return view
}

// Board returns the current kanban partition.
func (c *Controller) Board() models.BoardColumns {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board
}

// Gantt returns the current gantt view.
func (c *Controller) Gantt() GanttView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gantt
}

// Burnup returns the current burnup view.
func (c *Controller) Burnup() BurnupView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.burnup
}

// SetGanttTarget switches the gantt chart to a "project-<id>" or
// "sub-<id>" target and recomputes.
func (c *Controller) SetGanttTarget(target string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ganttTarget = target
	c.recompute()
}

// SetBurnupTarget switches the burnup chart target and recomputes.
func (c *Controller) SetBurnupTarget(target string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.burnupTarget = target
	c.recompute()
}

// State returns a copy of the entity caches for search and listings.
func (c *Controller) State() agg.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := c.stateLocked()
	state.Projects = append([]models.Project(nil), state.Projects...)
	state.BigProjects = append([]models.BigProject(nil), state.BigProjects...)
	tasks := make(map[string][]models.Task, len(state.ProjectTasks))
	for k, v := range state.ProjectTasks {
		tasks[k] = append([]models.Task(nil), v...)
	}
	state.ProjectTasks = tasks
	subTasks := make(map[string][]models.SubTask, len(state.SubTasks))
	for k, v := range state.SubTasks {
		subTasks[k] = append([]models.SubTask(nil), v...)
	}
	state.SubTasks = subTasks
	return state
}

// Projects returns the cached projects.
func (c *Controller) Projects() []models.Project {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Project(nil), c.projects...)
}

// Tasks returns the cached tasks for one project.
func (c *Controller) Tasks(projectID string) []models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Task(nil), c.projectTasks[projectID]...)
}

// BigProjects returns the cached big projects.
func (c *Controller) BigProjects() []models.BigProject {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.BigProject(nil), c.bigProjects...)
}

// SubProjects returns the stamped sub-projects of one big project.
func (c *Controller) SubProjects(bigProjectID string) []models.SubProject {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.SubProject(nil), c.subProjectsMap[bigProjectID]...)
}

// SubTasks returns the cached sub-tasks of one sub-project.
func (c *Controller) SubTasks(subProjectID string) []models.SubTask {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.SubTask(nil), c.subTasksMap[subProjectID]...)
}
