package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sawit-ops/backend/internal/model"
	"sawit-ops/backend/internal/service"
	pkgerrors "sawit-ops/backend/pkg/errors"
	"sawit-ops/backend/pkg/response"
)

// MustGetActor extracts the authenticated caller injected by the JWT
// middleware. Callers should return immediately when ok is false; the 401
// response has already been written.
func MustGetActor(c *gin.Context) (*service.Actor, bool) {
	userID, ok := contextString(c, "user_id")
	if !ok {
		response.Unauthorized(c, 10002, "unauthenticated")
		return nil, false
	}
	role, ok := contextString(c, "role")
	if !ok {
		response.Unauthorized(c, 10002, "unauthenticated")
		return nil, false
	}
	companyID, ok := contextString(c, "company_id")
	if !ok {
		response.Unauthorized(c, 10002, "unauthenticated")
		return nil, false
	}
	deviceID := c.GetString("device_id")

	return &service.Actor{
		UserID:    userID,
		CompanyID: companyID,
		Role:      model.Role(role),
		DeviceID:  deviceID,
	}, true
}

// writeClassifiedError handles errors that fell through a handler's
// domain-specific matching, mapping the category onto the envelope.
func writeClassifiedError(c *gin.Context, err error) {
	cls := pkgerrors.Classify(err)
	switch cls.Category {
	case pkgerrors.CategoryNotFound:
		response.NotFound(c, 10006, "record not found")
	case pkgerrors.CategoryAuthentication:
		response.Unauthorized(c, 10002, "unauthenticated")
	case pkgerrors.CategoryAuthorization:
		response.Forbidden(c, 10003, "insufficient permissions")
	case pkgerrors.CategoryConflict:
		response.Conflict(c, 10007, "record was modified by another operation")
	case pkgerrors.CategoryValidation:
		response.BadRequest(c, 10001, err.Error())
	default:
		if cls.ShouldRetry {
			response.Error(c, http.StatusServiceUnavailable, 50001, "temporarily unavailable, retry the request")
			return
		}
		response.InternalError(c)
	}
}

func contextString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
