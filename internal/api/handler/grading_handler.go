package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"sawit-ops/backend/internal/dto"
	"sawit-ops/backend/internal/service"
	pkgerrors "sawit-ops/backend/pkg/errors"
	"sawit-ops/backend/pkg/response"
)

// GradingHandler serves the quality-grading endpoints.
type GradingHandler struct {
	gradingSvc service.GradingService
}

// NewGradingHandler creates the GradingHandler.
func NewGradingHandler(gradingSvc service.GradingService) *GradingHandler {
	return &GradingHandler{gradingSvc: gradingSvc}
}

// Create records a grading for a harvest record.
// POST /api/v1/grading/records
func (h *GradingHandler) Create(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.CreateGradingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.gradingSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGradingNotHarvest):
			response.NotFound(c, 41001, "harvest record not found")
		case errors.Is(err, service.ErrGradingDuplicate):
			response.Conflict(c, 41002, "harvest record already graded")
		case errors.Is(err, service.ErrGradingInvalid):
			response.BadRequest(c, 41003, "grading values out of range")
		case errors.Is(err, pkgerrors.ErrForbidden):
			response.Forbidden(c, 10003, "insufficient permissions")
		default:
			response.InternalError(c)
		}
		return
	}
	response.Created(c, result)
}

// Get returns one grading record.
// GET /api/v1/grading/records/:id
func (h *GradingHandler) Get(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.gradingSvc.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeGradingError(c, err)
		return
	}
	response.OK(c, result)
}

// GetByHarvest returns the grading attached to a harvest record.
// GET /api/v1/harvest/records/:id/grading
func (h *GradingHandler) GetByHarvest(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.gradingSvc.GetByHarvest(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrGradingNotHarvest) {
			response.NotFound(c, 30006, "harvest record not found")
			return
		}
		writeGradingError(c, err)
		return
	}
	response.OK(c, result)
}

// Update amends an unapproved grading record.
// PATCH /api/v1/grading/records/:id
func (h *GradingHandler) Update(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.UpdateGradingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.gradingSvc.Update(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGradingLocked):
			response.Conflict(c, 41004, "grading record is already approved")
		case errors.Is(err, service.ErrGradingInvalid):
			response.BadRequest(c, 41003, "grading values out of range")
		default:
			writeGradingError(c, err)
		}
		return
	}
	response.OK(c, result)
}

// Approve locks a grading record.
// POST /api/v1/grading/records/:id/approve
func (h *GradingHandler) Approve(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.gradingSvc.Approve(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrGradingLocked) {
			response.Conflict(c, 41004, "grading record is already approved")
			return
		}
		writeGradingError(c, err)
		return
	}
	response.OK(c, result)
}

func writeGradingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGradingNotFound):
		response.NotFound(c, 41005, "grading record not found")
	case errors.Is(err, pkgerrors.ErrForbidden):
		response.Forbidden(c, 10003, "insufficient permissions")
	default:
		writeClassifiedError(c, err)
	}
}
