package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"sawit-ops/backend/internal/model"
	"sawit-ops/backend/internal/realtime"
	"sawit-ops/backend/pkg/jwt"
	"sawit-ops/backend/pkg/response"
)

// WSHandler upgrades authenticated connections into the realtime hub.
type WSHandler struct {
	hub        *realtime.Hub
	jwtMgr     *jwt.Manager
	sendBuffer int
	upgrader   websocket.Upgrader
	logger     *zap.Logger
}

// NewWSHandler creates the WSHandler. allowOrigins mirrors the HTTP CORS
// list; an empty list allows same-origin only.
func NewWSHandler(hub *realtime.Hub, jwtMgr *jwt.Manager, sendBuffer int, allowOrigins []string, logger *zap.Logger) *WSHandler {
	originsMap := make(map[string]bool, len(allowOrigins))
	for _, o := range allowOrigins {
		originsMap[o] = true
	}
	return &WSHandler{
		hub:        hub,
		jwtMgr:     jwtMgr,
		sendBuffer: sendBuffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// Native apps send no Origin header.
				return origin == "" || originsMap[origin]
			},
		},
		logger: logger,
	}
}

// Serve upgrades the connection. Browsers cannot set an Authorization
// header on a websocket handshake, so the token rides in ?token=.
// GET /ws?token=<access token>
func (h *WSHandler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Unauthorized(c, 10002, "missing token")
		return
	}
	claims, err := h.jwtMgr.ParseToken(token)
	if err != nil || claims.TokenType != "access" {
		response.Unauthorized(c, 10002, "token is invalid or expired")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := realtime.NewClient(
		h.hub, conn,
		claims.UserID, claims.CompanyID, claims.DeviceID,
		model.Role(claims.Role),
		h.sendBuffer, h.logger,
	)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
