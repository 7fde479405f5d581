package service

import (
	"go.uber.org/zap"

	"sawit-ops/backend/config"
	"sawit-ops/backend/internal/realtime"
	"sawit-ops/backend/internal/repository"
	"sawit-ops/backend/pkg/jwt"
	"sawit-ops/backend/pkg/media"
	"sawit-ops/backend/pkg/redis"
)

// Service is the aggregate entry point to all business services.
type Service struct {
	Auth       AuthService
	GateCheck  GateCheckService
	Sync       SyncService
	Harvest    HarvestService
	Weighing   WeighingService
	Grading    GradingService
	Dashboard  DashboardService
	Export     ExportService
	Preference PreferenceService
}

// NewService wires the business services.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	hub *realtime.Hub,
	coord *realtime.Coordinator,
	resolver *media.Resolver,
	logger *zap.Logger,
) *Service {
	dashboard := NewDashboardService(cfg, repo, resolver, logger)
	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		GateCheck:  NewGateCheckService(cfg, repo, hub, coord, resolver, logger),
		Sync:       NewSyncService(cfg, repo, hub, coord, logger),
		Harvest:    NewHarvestService(repo, hub, coord, resolver, logger),
		Weighing:   NewWeighingService(repo, coord, logger),
		Grading:    NewGradingService(repo, coord, logger),
		Dashboard:  dashboard,
		Export:     NewExportService(repo, logger),
		Preference: NewPreferenceService(rdb, logger),
	}
}
