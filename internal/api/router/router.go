package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sawit-ops/backend/config"
	"sawit-ops/backend/internal/api/handler"
	"sawit-ops/backend/internal/api/middleware"
	"sawit-ops/backend/internal/model"
	"sawit-ops/backend/pkg/jwt"
	"sawit-ops/backend/pkg/redis"
)

const (
	roleSatpam  = string(model.RoleSatpam)
	roleMandor  = string(model.RoleMandor)
	roleAsisten = string(model.RoleAsisten)
	roleManager = string(model.RoleManager)
	roleAdmin   = string(model.RoleAdmin)
)

// Setup builds the Gin engine with all routes and middleware.
func Setup(cfg *config.Config, h *handler.Handler, ws *handler.WSHandler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(2 << 20))

	// ── health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── realtime ──
	r.GET("/ws", ws.Serve)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// auth (unauthenticated)
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 10, time.Minute))
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// authenticated routes
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// preferences (any role)
			authorized.GET("/preferences", h.Preference.Get)
			authorized.PUT("/preferences", h.Preference.Update)

			// gate check — satpam operates it, supervisors read it
			gate := authorized.Group("/gate")
			{
				gate.POST("/guest-logs", middleware.RoleAuth(roleSatpam, roleAdmin), h.GateCheck.CreateGuestLog)
				gate.GET("/guest-logs", h.GateCheck.ListGuestLogs)
				gate.GET("/guest-logs/inside", h.GateCheck.ListInside)
				gate.GET("/guest-logs/:id", h.GateCheck.GetGuestLog)
				gate.POST("/exit", middleware.RoleAuth(roleSatpam, roleAdmin), h.GateCheck.ProcessExit)
				gate.POST("/qr-tokens", middleware.RoleAuth(roleSatpam, roleAdmin), h.GateCheck.GenerateQRToken)
				gate.POST("/qr-tokens/validate", middleware.RoleAuth(roleSatpam, roleAdmin), h.GateCheck.ValidateQRToken)
			}

			// offline sync — satpam devices push, supervisors review
			sync := authorized.Group("/sync")
			sync.Use(middleware.RateLimit(rdb, 30, time.Minute))
			{
				sync.POST("/batches", middleware.RoleAuth(roleSatpam, roleAdmin), h.Sync.ProcessBatch)
				sync.GET("/transactions", h.Sync.ListTransactions)
				sync.GET("/conflicts", middleware.RoleAuth(roleAsisten, roleManager, roleAdmin), h.Sync.ListConflicts)
				sync.POST("/conflicts/:id/resolve", middleware.RoleAuth(roleAsisten, roleManager, roleAdmin), h.Sync.ResolveConflict)
				sync.POST("/conflicts/:id/ignore", middleware.RoleAuth(roleAsisten, roleManager, roleAdmin), h.Sync.IgnoreConflict)
			}

			// harvest — mandor records, asisten reviews
			harvest := authorized.Group("/harvest")
			{
				harvest.POST("/records", middleware.RoleAuth(roleMandor, roleAdmin), h.Harvest.Create)
				harvest.GET("/records", h.Harvest.List)
				harvest.GET("/records/:id", h.Harvest.Get)
				harvest.PATCH("/records/:id", middleware.RoleAuth(roleMandor, roleAdmin), h.Harvest.Update)
				harvest.POST("/records/:id/approve", middleware.RoleAuth(roleAsisten, roleManager, roleAdmin), h.Harvest.Approve)
				harvest.POST("/records/:id/reject", middleware.RoleAuth(roleAsisten, roleManager, roleAdmin), h.Harvest.Reject)
				harvest.POST("/estimate", h.Harvest.Estimate)
				harvest.GET("/records/:id/grading", h.Grading.GetByHarvest)
				harvest.GET("/statistics", middleware.RoleAuth(roleAsisten, roleManager, roleAdmin), h.Harvest.Statistics)
				harvest.GET("/export", middleware.RoleAuth(roleManager, roleAdmin), h.Harvest.ExportRecap)
			}

			// weighbridge
			weighing := authorized.Group("/weighing")
			{
				weighing.POST("/records", middleware.RoleAuth(roleSatpam, roleAsisten, roleAdmin), h.Weighing.Create)
				weighing.GET("/records", h.Weighing.List)
				weighing.GET("/records/:id", h.Weighing.Get)
			}

			// quality grading
			grading := authorized.Group("/grading")
			{
				grading.POST("/records", middleware.RoleAuth(roleAsisten, roleAdmin), h.Grading.Create)
				grading.GET("/records/:id", h.Grading.Get)
				grading.PATCH("/records/:id", middleware.RoleAuth(roleAsisten, roleAdmin), h.Grading.Update)
				grading.POST("/records/:id/approve", middleware.RoleAuth(roleManager, roleAdmin), h.Grading.Approve)
			}

			// dashboards
			dashboard := authorized.Group("/dashboard")
			{
				dashboard.GET("/gate", middleware.RoleAuth(roleSatpam, roleManager, roleAdmin), h.Dashboard.Gate)
				dashboard.GET("/harvest", middleware.RoleAuth(roleMandor, roleAsisten, roleManager, roleAdmin), h.Dashboard.Harvest)
				dashboard.GET("/manager", middleware.RoleAuth(roleManager, roleAdmin), h.Dashboard.Manager)
			}
		}
	}

	return r
}
