package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/planflow/planboard-api/internal/errors"
	"github.com/planflow/planboard-api/internal/live"
	"github.com/planflow/planboard-api/internal/models"
	"github.com/planflow/planboard-api/internal/services"
)

// ProjectHandler serves projects and their tasks. Reads come from the
// live controller's caches; writes go through the plan service and
// flow back via snapshots.
type ProjectHandler struct {
	planService *services.PlanService
	controller  *live.Controller
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(planService *services.PlanService, controller *live.Controller) *ProjectHandler {
	return &ProjectHandler{
		planService: planService,
		controller:  controller,
	}
}

// ListProjects returns the cached projects.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"projects": h.controller.Projects()})
}

// CreateProject validates and stores a new project.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req models.Project
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	id, err := h.planService.CreateProject(req)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// UpdateProject validates and merges project changes.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	var req models.Project
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.planService.UpdateProject(c.Param("id"), req); err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project updated"})
}

// DeleteProject removes a project.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.planService.DeleteProject(c.Param("id")); err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

// ListTasks returns the cached tasks of one project.
func (h *ProjectHandler) ListTasks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tasks": h.controller.Tasks(c.Param("id"))})
}

// CreateTask validates and stores a new task under a project.
func (h *ProjectHandler) CreateTask(c *gin.Context) {
	var req models.Task
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	id, err := h.planService.CreateTask(c.Param("id"), req)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// UpdateTask validates and merges task changes.
func (h *ProjectHandler) UpdateTask(c *gin.Context) {
	var req models.Task
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.planService.UpdateTask(c.Param("id"), req); err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task updated"})
}

// UpdateTaskStatus transitions a task between board columns.
func (h *ProjectHandler) UpdateTaskStatus(c *gin.Context) {
	type StatusRequest struct {
		Status        models.TaskStatus `json:"status" binding:"required"`
		CompletedDate string            `json:"completedDate"`
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.planService.UpdateTaskStatus(c.Param("id"), req.Status, req.CompletedDate); err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task status updated"})
}

// DeleteTask removes a task.
func (h *ProjectHandler) DeleteTask(c *gin.Context) {
	if err := h.planService.DeleteTask(c.Param("id")); err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

func respondPlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrDatesRequired),
		errors.Is(err, services.ErrEndBeforeStart),
		errors.Is(err, services.ErrCompletedAfterEnd),
		errors.Is(err, services.ErrCompletedDateRequired),
		errors.Is(err, services.ErrSubProjectOutOfRange):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrBigProjectNotFound),
		errors.Is(err, services.ErrSubProjectNotFound),
		errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
