package handler

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"sawit-ops/backend/internal/dto"
	"sawit-ops/backend/internal/service"
	pkgerrors "sawit-ops/backend/pkg/errors"
	"sawit-ops/backend/pkg/response"
)

// HarvestHandler serves the harvest record and export endpoints.
type HarvestHandler struct {
	harvestSvc service.HarvestService
	exportSvc  service.ExportService
}

// NewHarvestHandler creates the HarvestHandler.
func NewHarvestHandler(harvestSvc service.HarvestService, exportSvc service.ExportService) *HarvestHandler {
	return &HarvestHandler{harvestSvc: harvestSvc, exportSvc: exportSvc}
}

// Create records a harvest entry.
// POST /api/v1/harvest/records
func (h *HarvestHandler) Create(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.CreateHarvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.harvestSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyHarvest):
			response.BadRequest(c, 30001, "at least one quantity must be non-zero")
		case errors.Is(err, service.ErrBlockNotFound):
			response.NotFound(c, 30002, "block not found")
		case errors.Is(err, pkgerrors.ErrForbidden):
			response.Forbidden(c, 10003, "insufficient permissions")
		default:
			response.InternalError(c)
		}
		return
	}
	response.Created(c, result)
}

// Get returns one harvest record.
// GET /api/v1/harvest/records/:id
func (h *HarvestHandler) Get(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.harvestSvc.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeHarvestError(c, err)
		return
	}
	response.OK(c, result)
}

// List lists harvest records with filters.
// GET /api/v1/harvest/records
func (h *HarvestHandler) List(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var filters dto.HarvestListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.BadRequest(c, 10001, "invalid query parameters")
		return
	}

	list, total, err := h.harvestSvc.List(c.Request.Context(), actor, filters)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, list, total, filters.Page, filters.PageSize)
}

// Update amends a pending harvest record.
// PATCH /api/v1/harvest/records/:id
func (h *HarvestHandler) Update(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.UpdateHarvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.harvestSvc.Update(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyHarvest):
			response.BadRequest(c, 30001, "at least one quantity must be non-zero")
		case errors.Is(err, service.ErrHarvestNotPending):
			response.Conflict(c, 30003, "harvest record is not pending review")
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			response.Conflict(c, 30004, "record was modified concurrently, retry")
		default:
			writeHarvestError(c, err)
		}
		return
	}
	response.OK(c, result)
}

// Approve approves a pending harvest record.
// POST /api/v1/harvest/records/:id/approve
func (h *HarvestHandler) Approve(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.harvestSvc.Approve(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrHarvestNotPending) {
			response.Conflict(c, 30003, "harvest record is not pending review")
			return
		}
		writeHarvestError(c, err)
		return
	}
	response.OK(c, result)
}

// Reject rejects a pending harvest record with a reason.
// POST /api/v1/harvest/records/:id/reject
func (h *HarvestHandler) Reject(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.RejectHarvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "a rejection reason is required")
		return
	}

	result, err := h.harvestSvc.Reject(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrHarvestNotPending) {
			response.Conflict(c, 30003, "harvest record is not pending review")
			return
		}
		writeHarvestError(c, err)
		return
	}
	response.OK(c, result)
}

// Estimate converts bunch counts into an estimated weight.
// POST /api/v1/harvest/estimate
func (h *HarvestHandler) Estimate(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.HarvestEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.harvestSvc.Estimate(c.Request.Context(), actor, &req)
	if err != nil {
		if errors.Is(err, service.ErrBlockNotFound) {
			response.NotFound(c, 30002, "block not found")
			return
		}
		writeHarvestError(c, err)
		return
	}
	response.OK(c, result)
}

// Statistics aggregates harvest output over a period.
// GET /api/v1/harvest/statistics?from=2026-08-01&to=2026-08-31
func (h *HarvestHandler) Statistics(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	from, to, ok := periodParams(c)
	if !ok {
		return
	}

	result, err := h.harvestSvc.Statistics(c.Request.Context(), actor, from, to)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// ExportRecap streams the harvest recap workbook.
// GET /api/v1/harvest/export?from=2026-08-01&to=2026-08-31
func (h *HarvestHandler) ExportRecap(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	from, to, ok := periodParams(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportHarvestRecap(c.Request.Context(), actor.CompanyID, from, to)
	if err != nil {
		if errors.Is(err, service.ErrExportNoRecords) {
			response.NotFound(c, 30005, "no harvest records in the requested period")
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func periodParams(c *gin.Context) (time.Time, time.Time, bool) {
	const layout = "2006-01-02"
	from, err := time.Parse(layout, c.Query("from"))
	if err != nil {
		response.BadRequest(c, 10001, "from must be a YYYY-MM-DD date")
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse(layout, c.Query("to"))
	if err != nil {
		response.BadRequest(c, 10001, "to must be a YYYY-MM-DD date")
		return time.Time{}, time.Time{}, false
	}
	if to.Before(from) {
		response.BadRequest(c, 10001, "to must not be before from")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func writeHarvestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrHarvestNotFound):
		response.NotFound(c, 30006, "harvest record not found")
	case errors.Is(err, pkgerrors.ErrForbidden):
		response.Forbidden(c, 10003, "insufficient permissions")
	default:
		writeClassifiedError(c, err)
	}
}
