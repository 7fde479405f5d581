package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sawit-ops/backend/internal/dto"
	"sawit-ops/backend/internal/service"
	pkgjwt "sawit-ops/backend/pkg/jwt"
	"sawit-ops/backend/pkg/response"
)

// AuthHandler serves the authentication endpoints.
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler creates the AuthHandler.
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login authenticates by email and password.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, 11001, "invalid email or password")
		case errors.Is(err, service.ErrAccountDisabled):
			response.Error(c, http.StatusForbidden, 11002, "account is disabled")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// RefreshToken exchanges a refresh token for a new pair.
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefresh):
			response.Error(c, http.StatusUnauthorized, 11003, "invalid refresh token")
		case errors.Is(err, service.ErrAccountDisabled):
			response.Error(c, http.StatusForbidden, 11002, "account is disabled")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Me returns the authenticated user's profile.
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.authSvc.Me(c.Request.Context(), actor.UserID)
	if err != nil {
		if errors.Is(err, service.ErrAccountDisabled) {
			response.Error(c, http.StatusForbidden, 11002, "account is disabled")
			return
		}
		writeClassifiedError(c, err)
		return
	}
	response.OK(c, result)
}

// Logout revokes the presented access token.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	v, exists := c.Get("claims")
	if !exists {
		response.Unauthorized(c, 10002, "unauthenticated")
		return
	}
	claims, ok := v.(*pkgjwt.Claims)
	if !ok {
		response.Unauthorized(c, 10002, "unauthenticated")
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}
