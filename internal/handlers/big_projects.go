package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/planflow/planboard-api/internal/errors"
	"github.com/planflow/planboard-api/internal/live"
	"github.com/planflow/planboard-api/internal/models"
	"github.com/planflow/planboard-api/internal/services"
)

// BigProjectHandler serves the big project hierarchy: big projects,
// their sub-projects and the sub-tasks beneath those.
type BigProjectHandler struct {
	planService *services.PlanService
	controller  *live.Controller
}

// NewBigProjectHandler creates a new BigProjectHandler.
func NewBigProjectHandler(planService *services.PlanService, controller *live.Controller) *BigProjectHandler {
	return &BigProjectHandler{
		planService: planService,
		controller:  controller,
	}
}

// ListBigProjects returns the cached big projects.
func (h *BigProjectHandler) ListBigProjects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"bigProjects": h.controller.BigProjects()})
}

// CreateBigProject validates and stores a new big project.
func (h *BigProjectHandler) CreateBigProject(c *gin.Context) {
	var req models.BigProject
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	id, err := h.planService.CreateBigProject(req)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// UpdateBigProject validates and merges big project changes.
func (h *BigProjectHandler) UpdateBigProject(c *gin.Context) {
	var req models.BigProject
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.planService.UpdateBigProject(c.Param("id"), req); err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Big project updated"})
}

// DeleteBigProject removes a big project.
func (h *BigProjectHandler) DeleteBigProject(c *gin.Context) {
	if err := h.planService.DeleteBigProject(c.Param("id")); err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Big project deleted"})
}

// ListSubProjects returns the stamped sub-projects of one big project.
func (h *BigProjectHandler) ListSubProjects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"subProjects": h.controller.SubProjects(c.Param("id"))})
}

// CreateSubProject validates and stores a sub-project under a big
// project.
func (h *BigProjectHandler) CreateSubProject(c *gin.Context) {
	var req models.SubProject
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	id, err := h.planService.CreateSubProject(c.Param("id"), req)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// UpdateSubProject validates and merges sub-project changes.
func (h *BigProjectHandler) UpdateSubProject(c *gin.Context) {
	var req models.SubProject
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.planService.UpdateSubProject(c.Param("id"), c.Param("subId"), req); err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sub-project updated"})
}

// DeleteSubProject removes a sub-project.
func (h *BigProjectHandler) DeleteSubProject(c *gin.Context) {
	if err := h.planService.DeleteSubProject(c.Param("id"), c.Param("subId")); err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sub-project deleted"})
}

// ListSubTasks returns the cached sub-tasks of one sub-project.
func (h *BigProjectHandler) ListSubTasks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"subTasks": h.controller.SubTasks(c.Param("subId"))})
}

// CreateSubTask validates and stores a sub-task.
func (h *BigProjectHandler) CreateSubTask(c *gin.Context) {
	var req models.SubTask
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	id, err := h.planService.CreateSubTask(c.Param("id"), c.Param("subId"), req)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// UpdateSubTask validates and merges sub-task changes.
func (h *BigProjectHandler) UpdateSubTask(c *gin.Context) {
	var req models.SubTask
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.planService.UpdateSubTask(c.Param("id"), c.Param("subId"), c.Param("taskId"), req); err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sub-task updated"})
}

// UpdateSubTaskStatus transitions a sub-task between board columns.
func (h *BigProjectHandler) UpdateSubTaskStatus(c *gin.Context) {
	type StatusRequest struct {
		Status        models.TaskStatus `json:"status" binding:"required"`
		CompletedDate string            `json:"completedDate"`
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	err := h.planService.UpdateSubTaskStatus(c.Param("id"), c.Param("subId"), c.Param("taskId"), req.Status, req.CompletedDate)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sub-task status updated"})
}

// DeleteSubTask removes a sub-task.
func (h *BigProjectHandler) DeleteSubTask(c *gin.Context) {
	if err := h.planService.DeleteSubTask(c.Param("id"), c.Param("subId"), c.Param("taskId")); err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sub-task deleted"})
}
