package handler

import (
	"github.com/gin-gonic/gin"

	"sawit-ops/backend/internal/service"
	"sawit-ops/backend/pkg/response"
)

// DashboardHandler serves the role dashboards.
type DashboardHandler struct {
	dashSvc service.DashboardService
}

// NewDashboardHandler creates the DashboardHandler.
func NewDashboardHandler(dashSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashSvc: dashSvc}
}

// Gate is the security-post dashboard.
// GET /api/v1/dashboard/gate
func (h *DashboardHandler) Gate(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.dashSvc.Gate(c.Request.Context(), actor.CompanyID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Harvest is the field-operations dashboard.
// GET /api/v1/dashboard/harvest
func (h *DashboardHandler) Harvest(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.dashSvc.Harvest(c.Request.Context(), actor.CompanyID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Manager is the estate-level summary dashboard.
// GET /api/v1/dashboard/manager
func (h *DashboardHandler) Manager(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.dashSvc.Manager(c.Request.Context(), actor.CompanyID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
