package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"sawit-ops/backend/config"
	"sawit-ops/backend/internal/repository"
)

// Sweeper runs the periodic background passes: flagging overstayed
// vehicles and expiring stale QR passes.
type Sweeper struct {
	cfg     *config.Config
	repo    *repository.Repository
	gateSvc GateCheckService
	logger  *zap.Logger
}

// NewSweeper creates the Sweeper.
func NewSweeper(cfg *config.Config, repo *repository.Repository, gateSvc GateCheckService, logger *zap.Logger) *Sweeper {
	return &Sweeper{cfg: cfg, repo: repo, gateSvc: gateSvc, logger: logger}
}

// Run loops until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	interval := s.cfg.Realtime.OverstaySweepInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if expired, err := s.repo.QRToken.ExpireStale(ctx, time.Now()); err != nil {
		s.logger.Error("qr token expiry sweep failed", zap.Error(err))
	} else if expired > 0 {
		s.logger.Info("expired stale qr tokens", zap.Int64("count", expired))
	}

	companies, err := s.repo.Company.ListAll(ctx)
	if err != nil {
		s.logger.Error("company list for overstay sweep failed", zap.Error(err))
		return
	}
	for i := range companies {
		flagged, err := s.gateSvc.SweepOverstays(ctx, companies[i].CompanyID)
		if err != nil {
			s.logger.Error("overstay sweep failed",
				zap.String("company_id", companies[i].CompanyID), zap.Error(err))
			continue
		}
		if flagged > 0 {
			s.logger.Info("overstay vehicles flagged",
				zap.String("company_id", companies[i].CompanyID),
				zap.Int("count", flagged))
		}
	}
}
