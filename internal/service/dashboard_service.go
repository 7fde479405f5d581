package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"sawit-ops/backend/config"
	"sawit-ops/backend/internal/dto"
	"sawit-ops/backend/internal/model"
	"sawit-ops/backend/internal/repository"
	"sawit-ops/backend/pkg/media"
)

// DashboardService builds the aggregate views each role's home screen
// shows. Refetch is also what the refresh coordinator calls after a
// debounce window closes.
type DashboardService interface {
	Gate(ctx context.Context, companyID string) (*dto.GateDashboard, error)
	Harvest(ctx context.Context, companyID string) (*dto.HarvestDashboard, error)
	Manager(ctx context.Context, companyID string) (*dto.ManagerDashboard, error)
	// Refetch builds the payload broadcast with a dashboard refresh.
	Refetch(ctx context.Context, companyID string) (interface{}, error)
}

type dashboardService struct {
	cfg      *config.Config
	repo     *repository.Repository
	resolver *media.Resolver
	logger   *zap.Logger
}

// NewDashboardService creates the DashboardService.
func NewDashboardService(cfg *config.Config, repo *repository.Repository, resolver *media.Resolver, logger *zap.Logger) DashboardService {
	return &dashboardService{cfg: cfg, repo: repo, resolver: resolver, logger: logger}
}

func (s *dashboardService) Gate(ctx context.Context, companyID string) (*dto.GateDashboard, error) {
	inside, err := s.repo.GuestLog.ListInside(ctx, companyID)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.GuestLog.CountToday(ctx, companyID, model.GuestLogEntry)
	if err != nil {
		return nil, err
	}
	exits, err := s.repo.GuestLog.CountToday(ctx, companyID, model.GuestLogExit)
	if err != nil {
		return nil, err
	}
	pendingSync, err := s.repo.GuestLog.CountPendingSync(ctx, companyID)
	if err != nil {
		return nil, err
	}

	threshold := s.cfg.Realtime.OverstayThreshold
	var overstay int64
	vehicles := make([]dto.GuestLogResponse, 0, len(inside))
	for i := range inside {
		log := &inside[i]
		if log.IsOverstay(threshold) {
			overstay++
		}
		vehicles = append(vehicles, dto.GuestLogResponse{
			ID:            log.GuestLogID,
			DriverName:    log.DriverName,
			VehiclePlate:  log.VehiclePlate,
			VehicleType:   string(log.VehicleType),
			Destination:   log.Destination,
			GatePosition:  log.GatePosition,
			EntryTime:     log.EntryTime,
			EntryGate:     log.EntryGate,
			CargoOwner:    log.CargoOwner,
			PhotoURL:      s.resolver.ResolvePtr(log.PhotoPath),
			Status:        string(log.Status),
			SyncStatus:    string(log.SyncStatus),
			DurationLabel: durationLabel(log),
			IsOverstay:    log.IsOverstay(threshold),
			Version:       log.Version,
			CreatedAt:     log.CreatedAt,
		})
	}

	return &dto.GateDashboard{
		VehiclesInside:   int64(len(inside)),
		TodayEntries:     entries,
		TodayExits:       exits,
		OverstayCount:    overstay,
		PendingSyncCount: pendingSync,
		InsideVehicles:   vehicles,
		GeneratedAt:      time.Now(),
	}, nil
}

func (s *dashboardService) Harvest(ctx context.Context, companyID string) (*dto.HarvestDashboard, error) {
	today := time.Now().Truncate(24 * time.Hour)
	stats, err := s.repo.Harvest.Statistics(ctx, companyID, today, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	pending, err := s.repo.Harvest.ListPendingApproval(ctx, companyID, 10)
	if err != nil {
		return nil, err
	}

	recent := make([]dto.HarvestResponse, 0, len(pending))
	for i := range pending {
		r := &pending[i]
		resp := dto.HarvestResponse{
			ID:             r.HarvestRecordID,
			Tanggal:        r.Tanggal,
			BlockID:        r.BlockID,
			MandorID:       r.MandorID,
			Karyawan:       r.Karyawan,
			BeratTbs:       r.BeratTbs,
			JumlahJanjang:  r.JumlahJanjang,
			TotalBrondolan: r.TotalBrondolan,
			Status:         string(r.Status),
			SyncStatus:     string(r.SyncStatus),
			CreatedAt:      r.CreatedAt,
		}
		if r.Block != nil {
			resp.BlockName = r.Block.Name
			resp.EstimatedWeight = r.Block.EstimateWeight(r.JumlahJanjang)
		}
		recent = append(recent, resp)
	}

	return &dto.HarvestDashboard{
		TodayJjg:         stats.TotalJanjang,
		TodayTonnage:     stats.TotalBeratTbs / 1000,
		PendingApprovals: stats.PendingApprovals,
		ActiveBlocks:     stats.ActiveBlocks,
		RecentRecords:    recent,
		GeneratedAt:      time.Now(),
	}, nil
}

func (s *dashboardService) Manager(ctx context.Context, companyID string) (*dto.ManagerDashboard, error) {
	gate, err := s.Gate(ctx, companyID)
	if err != nil {
		return nil, err
	}
	harvest, err := s.Harvest(ctx, companyID)
	if err != nil {
		return nil, err
	}
	weighings, netTotal, err := s.repo.Weighing.TodaySummary(ctx, companyID)
	if err != nil {
		return nil, err
	}
	avgScore, err := s.repo.Grading.AverageScore(ctx, companyID, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	openConflicts, err := s.repo.Sync.CountPendingConflicts(ctx, companyID)
	if err != nil {
		return nil, err
	}

	return &dto.ManagerDashboard{
		Gate:              *gate,
		Harvest:           *harvest,
		WeighingsToday:    weighings,
		NetTonnageToday:   netTotal / 1000,
		AvgQualityScore:   avgScore,
		OpenSyncConflicts: openConflicts,
		GeneratedAt:       time.Now(),
	}, nil
}

func (s *dashboardService) Refetch(ctx context.Context, companyID string) (interface{}, error) {
	// The broadcast payload is the light-weight gate summary; each client
	// refetches its own role view over HTTP when it needs detail.
	gate, err := s.Gate(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"vehicles_inside":    gate.VehiclesInside,
		"today_entries":      gate.TodayEntries,
		"today_exits":        gate.TodayExits,
		"overstay_count":     gate.OverstayCount,
		"pending_sync_count": gate.PendingSyncCount,
		"generated_at":       gate.GeneratedAt,
	}, nil
}
