package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"sawit-ops/backend/internal/dto"
	"sawit-ops/backend/internal/service"
	pkgerrors "sawit-ops/backend/pkg/errors"
	"sawit-ops/backend/pkg/response"
)

// WeighingHandler serves the weighbridge endpoints.
type WeighingHandler struct {
	weighingSvc service.WeighingService
}

// NewWeighingHandler creates the WeighingHandler.
func NewWeighingHandler(weighingSvc service.WeighingService) *WeighingHandler {
	return &WeighingHandler{weighingSvc: weighingSvc}
}

// Create records a weighbridge ticket.
// POST /api/v1/weighing/records
func (h *WeighingHandler) Create(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.CreateWeighingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.weighingSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidWeights):
			response.BadRequest(c, 40001, "gross weight must cover tare weight")
		case errors.Is(err, service.ErrDuplicateTicket):
			response.Conflict(c, 40002, "ticket number already recorded")
		default:
			writeClassifiedError(c, err)
		}
		return
	}
	response.Created(c, result)
}

// Get returns one weighing record.
// GET /api/v1/weighing/records/:id
func (h *WeighingHandler) Get(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.weighingSvc.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWeighingNotFound):
			response.NotFound(c, 40003, "weighing record not found")
		case errors.Is(err, pkgerrors.ErrForbidden):
			response.Forbidden(c, 10003, "insufficient permissions")
		default:
			writeClassifiedError(c, err)
		}
		return
	}
	response.OK(c, result)
}

// List lists weighing records with filters.
// GET /api/v1/weighing/records
func (h *WeighingHandler) List(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var filters dto.WeighingListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.BadRequest(c, 10001, "invalid query parameters")
		return
	}

	list, total, err := h.weighingSvc.List(c.Request.Context(), actor, filters)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, list, total, filters.Page, filters.PageSize)
}
