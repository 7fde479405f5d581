package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"sawit-ops/backend/config"
	"sawit-ops/backend/internal/api/handler"
	"sawit-ops/backend/internal/api/router"
	"sawit-ops/backend/internal/realtime"
	"sawit-ops/backend/internal/repository"
	"sawit-ops/backend/internal/service"
	"sawit-ops/backend/pkg/database"
	"sawit-ops/backend/pkg/jwt"
	applogger "sawit-ops/backend/pkg/logger"
	"sawit-ops/backend/pkg/media"
	"sawit-ops/backend/pkg/redis"
)

func main() {
	// 1. Load configuration.
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize logging.
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting up",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. Connect to the database and run migrations.
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("failed to access underlying sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}
	logger.Info("database ready")

	// 4. Connect to Redis. Failure degrades token revocation, rate
	// limiting, and preferences rather than blocking startup.
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis connection failed, running degraded", zap.Error(err))
		rdb = nil
	}

	// 5. JWT manager and media resolver.
	jwtMgr := jwt.NewManager(&cfg.Auth)
	resolver := media.NewResolver(cfg.Media.BaseURL)

	// 6. Realtime hub and refresh coordinator.
	hub := realtime.NewHub(logger)

	// 7. Dependency wiring: Repository → Service → Handler. The refresh
	// coordinator needs the dashboard refetch, so it is wired in two steps.
	repo := repository.NewRepository(db)
	var coord *realtime.Coordinator
	dashboardSvc := service.NewDashboardService(cfg, repo, resolver, logger)
	coord = realtime.NewCoordinator(hub, dashboardSvc.Refetch, cfg.Realtime.RefreshDebounce, logger)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, hub, coord, resolver, logger)
	h := handler.NewHandler(svc)
	ws := handler.NewWSHandler(hub, jwtMgr, cfg.Realtime.SendBuffer, cfg.Server.CORS.AllowOrigins, logger)

	// 8. Router.
	engine := router.Setup(cfg, h, ws, jwtMgr, rdb, logger)

	// 9. Background sweeps (overstay alerts, QR token expiry).
	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	sweeper := service.NewSweeper(cfg, repo, svc.GateCheck, logger)
	go sweeper.Run(sweepCtx)

	// 10. HTTP server with graceful shutdown.
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// 11. Wait for a shutdown signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", zap.String("signal", sig.String()))

	cancelSweep()
	coord.Stop()
	hub.CloseAll()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	if closeDB, _ := db.DB(); closeDB != nil {
		closeDB.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
