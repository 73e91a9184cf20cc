package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/planflow/planboard-api/internal/agg"
	"github.com/planflow/planboard-api/internal/chart"
	apierrors "github.com/planflow/planboard-api/internal/errors"
	"github.com/planflow/planboard-api/internal/live"
	"github.com/planflow/planboard-api/internal/models"
)

// ViewHandler serves the derived read models: kanban board, gantt
// chart, burnup chart and cross-entity search.
type ViewHandler struct {
	controller *live.Controller
}

// NewViewHandler creates a new ViewHandler.
func NewViewHandler(controller *live.Controller) *ViewHandler {
	return &ViewHandler{controller: controller}
}

// Board returns the current kanban columns.
func (h *ViewHandler) Board(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.Board())
}

// Gantt returns the gantt view, switching the target first when the
// target query parameter is present.
func (h *ViewHandler) Gantt(c *gin.Context) {
	if target := c.Query("target"); target != "" {
		if !validTarget(target) {
			apierrors.BadRequest(c, "Invalid target")
			return
		}
		h.controller.SetGanttTarget(target)
	}

	c.JSON(http.StatusOK, h.controller.Gantt())
}

// BurnupResponse is the full burnup rendering: the series plus the
// axis layout and polylines sized to the requested width.
type BurnupResponse struct {
	live.BurnupView
	SvgWidth         float64           `json:"svgWidth"`
	Labels           []chart.AxisLabel `json:"labels"`
	BurndownPolyline string            `json:"burndownPolyline"`
	BurnupPolyline   string            `json:"burnupPolyline"`
	MiniPoints       string            `json:"miniPoints"`
}

// Burnup returns the burnup view for the selected target, laid out
// for the container width in the width query parameter.
func (h *ViewHandler) Burnup(c *gin.Context) {
	if target := c.Query("target"); target != "" {
		if !validTarget(target) {
			apierrors.BadRequest(c, "Invalid target")
			return
		}
		h.controller.SetBurnupTarget(target)
	}

	width := 0.0
	if raw := c.Query("width"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			apierrors.BadRequest(c, "Invalid width")
			return
		}
		width = parsed
	}

	view := h.controller.Burnup()
	labelCount := len(view.Bars) + 2
	svgWidth := chart.SvgWidth(labelCount, chart.ClampWidth(width))
	labels := chart.AxisLabels(view.StartDate, view.EndDate, view.Bars, svgWidth)

	var miniDates []string
	seen := make(map[string]bool)
	for _, p := range view.Points {
		if !seen[p.Date] {
			seen[p.Date] = true
			miniDates = append(miniDates, p.Date)
		}
	}

	c.JSON(http.StatusOK, BurnupResponse{
		BurnupView:       view,
		SvgWidth:         svgWidth,
		Labels:           labels,
		BurndownPolyline: chart.BurndownPolyline(labels),
		BurnupPolyline:   chart.BurnupPolyline(labels),
		MiniPoints:       chart.SvgPoints(view.Points, miniDates),
	})
}

// Search scans the cached entities for the q query, optionally
// narrowed by a comma-separated types parameter.
func (h *ViewHandler) Search(c *gin.Context) {
	filters := models.AllSearchFilters()
	if raw := c.Query("types"); raw != "" {
		filters = models.SearchFilters{}
		for _, t := range strings.Split(raw, ",") {
			switch models.SearchResultType(strings.TrimSpace(t)) {
			case models.SearchTypeProject:
				filters.Projects = true
			case models.SearchTypeTask:
				filters.Tasks = true
			case models.SearchTypeBigProject:
				filters.BigProjects = true
			case models.SearchTypeSubProject:
				filters.SubProjects = true
			case models.SearchTypeSubTask:
				filters.SubTasks = true
			default:
				apierrors.BadRequest(c, "Invalid search type")
				return
			}
		}
	}

	results := agg.Search(h.controller.State(), c.Query("q"), filters)
	if results == nil {
		results = []models.SearchResult{}
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func validTarget(target string) bool {
	return strings.HasPrefix(target, live.TargetProjectPrefix) ||
		strings.HasPrefix(target, live.TargetSubProjectPrefix)
}
