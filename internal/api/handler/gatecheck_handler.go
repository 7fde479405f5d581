package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"sawit-ops/backend/internal/dto"
	"sawit-ops/backend/internal/service"
	pkgerrors "sawit-ops/backend/pkg/errors"
	"sawit-ops/backend/pkg/response"
)

// GateCheckHandler serves the satpam gate endpoints.
type GateCheckHandler struct {
	gateSvc service.GateCheckService
}

// NewGateCheckHandler creates the GateCheckHandler.
func NewGateCheckHandler(gateSvc service.GateCheckService) *GateCheckHandler {
	return &GateCheckHandler{gateSvc: gateSvc}
}

// CreateGuestLog registers a vehicle at the gate.
// POST /api/v1/gate/guest-logs
func (h *GateCheckHandler) CreateGuestLog(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.CreateGuestLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.gateSvc.CreateGuestLog(c.Request.Context(), actor, &req)
	if err != nil {
		response.BadRequest(c, 20001, err.Error())
		return
	}
	response.Created(c, result)
}

// GetGuestLog returns one guest log.
// GET /api/v1/gate/guest-logs/:id
func (h *GateCheckHandler) GetGuestLog(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.gateSvc.GetGuestLog(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeGateError(c, err)
		return
	}
	response.OK(c, result)
}

// ListGuestLogs lists guest logs with filters.
// GET /api/v1/gate/guest-logs
func (h *GateCheckHandler) ListGuestLogs(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var filters dto.GuestLogListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.BadRequest(c, 10001, "invalid query parameters")
		return
	}

	list, total, err := h.gateSvc.ListGuestLogs(c.Request.Context(), actor, filters)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, list, total, filters.Page, filters.PageSize)
}

// ListInside lists vehicles currently inside the estate.
// GET /api/v1/gate/guest-logs/inside
func (h *GateCheckHandler) ListInside(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, err := h.gateSvc.ListInside(c.Request.Context(), actor)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// ProcessExit closes a guest log at the exit gate.
// POST /api/v1/gate/exit
func (h *GateCheckHandler) ProcessExit(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.ProcessExitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.gateSvc.ProcessExit(c.Request.Context(), actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyExited):
			response.Conflict(c, 20002, "vehicle has already exited")
		case errors.Is(err, service.ErrTokenNotUsable):
			response.BadRequest(c, 20003, "qr token cannot be used for this exit")
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			response.Conflict(c, 20004, "record was modified concurrently, retry")
		default:
			writeGateError(c, err)
		}
		return
	}
	response.OK(c, result)
}

// GenerateQRToken issues a gate pass.
// POST /api/v1/gate/qr-tokens
func (h *GateCheckHandler) GenerateQRToken(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.GenerateQRTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.gateSvc.GenerateQRToken(c.Request.Context(), actor, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidIntent) {
			response.BadRequest(c, 20005, "invalid gate intent")
			return
		}
		writeGateError(c, err)
		return
	}
	response.Created(c, result)
}

// ValidateQRToken validates a scanned gate pass.
// POST /api/v1/gate/qr-tokens/validate
func (h *GateCheckHandler) ValidateQRToken(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.ValidateQRTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.gateSvc.ValidateQRToken(c.Request.Context(), actor, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidIntent) {
			response.BadRequest(c, 20005, "invalid gate intent")
			return
		}
		writeGateError(c, err)
		return
	}
	response.OK(c, result)
}

func writeGateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGuestLogNotFound):
		response.NotFound(c, 20006, "guest log not found")
	case errors.Is(err, pkgerrors.ErrForbidden):
		response.Forbidden(c, 10003, "insufficient permissions")
	default:
		writeClassifiedError(c, err)
	}
}
