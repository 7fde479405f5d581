package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sawit-ops/backend/internal/dto"
	"sawit-ops/backend/internal/service"
	"sawit-ops/backend/pkg/response"
)

// PreferenceHandler serves the per-user UI preference endpoints.
type PreferenceHandler struct {
	prefSvc service.PreferenceService
}

// NewPreferenceHandler creates the PreferenceHandler.
func NewPreferenceHandler(prefSvc service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{prefSvc: prefSvc}
}

// Get returns stored preferences. ?keys=theme,language narrows the read.
// GET /api/v1/preferences
func (h *PreferenceHandler) Get(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	keys := c.QueryArray("keys")

	result, err := h.prefSvc.Get(c.Request.Context(), actor.UserID, keys)
	if err != nil {
		if errors.Is(err, service.ErrPreferencesUnavailable) {
			response.Error(c, http.StatusServiceUnavailable, 12001, "preference storage is unavailable")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Update stores preferences for the caller.
// PUT /api/v1/preferences
func (h *PreferenceHandler) Update(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.prefSvc.Update(c.Request.Context(), actor.UserID, &req)
	if err != nil {
		if errors.Is(err, service.ErrPreferencesUnavailable) {
			response.Error(c, http.StatusServiceUnavailable, 12001, "preference storage is unavailable")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
