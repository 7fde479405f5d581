package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sawit-ops/backend/internal/dto"
	"sawit-ops/backend/internal/service"
	pkgerrors "sawit-ops/backend/pkg/errors"
	"sawit-ops/backend/pkg/response"
)

// SyncHandler serves the offline-sync endpoints.
type SyncHandler struct {
	syncSvc service.SyncService
}

// NewSyncHandler creates the SyncHandler.
func NewSyncHandler(syncSvc service.SyncService) *SyncHandler {
	return &SyncHandler{syncSvc: syncSvc}
}

// ProcessBatch reconciles a device's offline batch.
// POST /api/v1/sync/batches
func (h *SyncHandler) ProcessBatch(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var input dto.SyncBatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "invalid request body", err.Error())
		return
	}

	result, err := h.syncSvc.ProcessBatch(c.Request.Context(), actor, &input)
	if err != nil {
		if errors.Is(err, service.ErrBatchTooLarge) {
			response.BadRequest(c, 21001, "sync batch exceeds the record limit")
			return
		}
		writeClassifiedError(c, err)
		return
	}
	response.OK(c, result)
}

// ListConflicts lists pending sync conflicts for review.
// GET /api/v1/sync/conflicts
func (h *SyncHandler) ListConflicts(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	page, pageSize := pageParams(c)

	list, total, err := h.syncSvc.ListConflicts(c.Request.Context(), actor, page, pageSize)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, list, total, page, pageSize)
}

// ResolveConflict applies a resolution to a stored conflict.
// POST /api/v1/sync/conflicts/:id/resolve
func (h *SyncHandler) ResolveConflict(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.ResolveConflictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.syncSvc.ResolveConflict(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConflictNotFound):
			response.NotFound(c, 21002, "sync conflict not found")
		case errors.Is(err, service.ErrConflictNotPending):
			response.Conflict(c, 21003, "sync conflict is not pending")
		case errors.Is(err, pkgerrors.ErrForbidden):
			response.Forbidden(c, 10003, "insufficient permissions")
		default:
			response.BadRequest(c, 21004, err.Error())
		}
		return
	}
	response.OK(c, result)
}

// IgnoreConflict dismisses a pending conflict without applying either side.
// POST /api/v1/sync/conflicts/:id/ignore
func (h *SyncHandler) IgnoreConflict(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.syncSvc.IgnoreConflict(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConflictNotFound):
			response.NotFound(c, 21002, "sync conflict not found")
		case errors.Is(err, service.ErrConflictNotPending):
			response.Conflict(c, 21003, "sync conflict is not pending")
		case errors.Is(err, pkgerrors.ErrForbidden):
			response.Forbidden(c, 10003, "insufficient permissions")
		default:
			writeClassifiedError(c, err)
		}
		return
	}
	response.OK(c, result)
}

// ListTransactions lists the sync audit trail for the caller's device.
// GET /api/v1/sync/transactions
func (h *SyncHandler) ListTransactions(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	deviceID := c.Query("device_id")
	if deviceID == "" {
		deviceID = actor.DeviceID
	}
	if deviceID == "" {
		response.BadRequest(c, 10001, "device_id is required")
		return
	}
	page, pageSize := pageParams(c)

	list, total, err := h.syncSvc.ListTransactions(c.Request.Context(), deviceID, page, pageSize)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, list, total, page, pageSize)
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
