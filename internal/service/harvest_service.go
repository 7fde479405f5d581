package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sawit-ops/backend/internal/dto"
	"sawit-ops/backend/internal/model"
	"sawit-ops/backend/internal/realtime"
	"sawit-ops/backend/internal/repository"
	pkgerrors "sawit-ops/backend/pkg/errors"
	"sawit-ops/backend/pkg/media"
)

var (
	ErrHarvestNotFound   = errors.New("harvest record not found")
	ErrEmptyHarvest      = errors.New("harvest record must have at least one non-zero quantity")
	ErrHarvestNotPending = errors.New("harvest record is not pending review")
	ErrBlockNotFound     = errors.New("block not found")
)

// HarvestService covers the mandor harvest workflow and the asisten
// approval queue.
type HarvestService interface {
	Create(ctx context.Context, actor *Actor, req *dto.CreateHarvestRequest) (*dto.HarvestResponse, error)
	Get(ctx context.Context, actor *Actor, id string) (*dto.HarvestResponse, error)
	List(ctx context.Context, actor *Actor, filters dto.HarvestListFilters) ([]dto.HarvestResponse, int64, error)
	Update(ctx context.Context, actor *Actor, id string, req *dto.UpdateHarvestRequest) (*dto.HarvestResponse, error)
	Approve(ctx context.Context, actor *Actor, id string) (*dto.HarvestResponse, error)
	Reject(ctx context.Context, actor *Actor, id string, req *dto.RejectHarvestRequest) (*dto.HarvestResponse, error)
	Estimate(ctx context.Context, actor *Actor, req *dto.HarvestEstimateRequest) (*dto.HarvestEstimateResponse, error)
	Statistics(ctx context.Context, actor *Actor, from, to time.Time) (*dto.HarvestStatistics, error)
}

type harvestService struct {
	repo     *repository.Repository
	hub      *realtime.Hub
	coord    *realtime.Coordinator
	resolver *media.Resolver
	logger   *zap.Logger
}

// NewHarvestService creates the HarvestService.
func NewHarvestService(
	repo *repository.Repository,
	hub *realtime.Hub,
	coord *realtime.Coordinator,
	resolver *media.Resolver,
	logger *zap.Logger,
) HarvestService {
	return &harvestService{
		repo:     repo,
		hub:      hub,
		coord:    coord,
		resolver: resolver,
		logger:   logger,
	}
}

func (s *harvestService) Create(ctx context.Context, actor *Actor, req *dto.CreateHarvestRequest) (*dto.HarvestResponse, error) {
	block, err := s.repo.Block.GetByID(ctx, req.BlockID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlockNotFound
		}
		return nil, err
	}
	if block.CompanyID != actor.CompanyID {
		return nil, pkgerrors.ErrForbidden
	}

	record := &model.HarvestRecord{
		LocalID:           req.LocalID,
		DeviceID:          req.DeviceID,
		Tanggal:           req.Tanggal,
		MandorID:          actor.UserID,
		BlockID:           req.BlockID,
		CompanyID:         actor.CompanyID,
		Karyawan:          req.Karyawan,
		NIK:               req.NIK,
		BeratTbs:          req.BeratTbs,
		JumlahJanjang:     req.JumlahJanjang,
		JjgMatang:         req.JjgMatang,
		JjgMentah:         req.JjgMentah,
		JjgLewatMatang:    req.JjgLewatMatang,
		JjgBusukAbnormal:  req.JjgBusukAbnormal,
		JjgTangkaiPanjang: req.JjgTangkaiPanjang,
		TotalBrondolan:    req.TotalBrondolan,
		Status:            model.HarvestPending,
		Notes:             req.Notes,
		PhotoPath:         req.PhotoPath,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		SyncStatus:        model.SyncStatusSynced,
		Version:           1,
	}
	if !record.HasQuantities() {
		return nil, ErrEmptyHarvest
	}

	if err := s.repo.Harvest.Create(ctx, record); err != nil {
		s.logger.Error("harvest create failed", zap.Error(err))
		return nil, err
	}
	record.Block = block

	resp := s.toResponse(record)
	s.hub.Publish(realtime.Event{
		Type:      "harvest:created",
		Channel:   realtime.ChannelHarvest,
		CompanyID: actor.CompanyID,
		Payload:   resp,
	})
	s.hub.Publish(realtime.Event{
		Type:      "mandor:data_update",
		Channel:   realtime.ChannelHarvest,
		CompanyID: actor.CompanyID,
	})
	s.coord.Notify(actor.CompanyID)
	return resp, nil
}

func (s *harvestService) Get(ctx context.Context, actor *Actor, id string) (*dto.HarvestResponse, error) {
	record, err := s.getScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(record), nil
}

func (s *harvestService) List(ctx context.Context, actor *Actor, filters dto.HarvestListFilters) ([]dto.HarvestResponse, int64, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}
	// A mandor only sees their own records; reviewers see the company.
	if actor.Role == model.RoleMandor {
		filters.MandorID = &actor.UserID
	}
	records, total, err := s.repo.Harvest.List(ctx, actor.CompanyID, filters)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.HarvestResponse, 0, len(records))
	for i := range records {
		out = append(out, *s.toResponse(&records[i]))
	}
	return out, total, nil
}

func (s *harvestService) Update(ctx context.Context, actor *Actor, id string, req *dto.UpdateHarvestRequest) (*dto.HarvestResponse, error) {
	record, err := s.getScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == model.RoleMandor && record.MandorID != actor.UserID {
		return nil, pkgerrors.ErrForbidden
	}
	if !record.IsPending() {
		return nil, ErrHarvestNotPending
	}

	if req.Karyawan != nil {
		record.Karyawan = *req.Karyawan
	}
	if req.BeratTbs != nil {
		record.BeratTbs = *req.BeratTbs
	}
	if req.JumlahJanjang != nil {
		record.JumlahJanjang = *req.JumlahJanjang
	}
	if req.JjgMatang != nil {
		record.JjgMatang = *req.JjgMatang
	}
	if req.JjgMentah != nil {
		record.JjgMentah = *req.JjgMentah
	}
	if req.JjgLewatMatang != nil {
		record.JjgLewatMatang = *req.JjgLewatMatang
	}
	if req.JjgBusukAbnormal != nil {
		record.JjgBusukAbnormal = *req.JjgBusukAbnormal
	}
	if req.JjgTangkaiPanjang != nil {
		record.JjgTangkaiPanjang = *req.JjgTangkaiPanjang
	}
	if req.TotalBrondolan != nil {
		record.TotalBrondolan = *req.TotalBrondolan
	}
	if req.Notes != nil {
		record.Notes = req.Notes
	}
	if !record.HasQuantities() {
		return nil, ErrEmptyHarvest
	}

	if err := s.repo.Harvest.Update(ctx, record); err != nil {
		return nil, err
	}
	s.coord.Notify(actor.CompanyID)
	return s.toResponse(record), nil
}

func (s *harvestService) Approve(ctx context.Context, actor *Actor, id string) (*dto.HarvestResponse, error) {
	record, err := s.getScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !record.IsPending() {
		return nil, ErrHarvestNotPending
	}
	record.Approve(actor.UserID)
	if err := s.repo.Harvest.Update(ctx, record); err != nil {
		return nil, err
	}

	resp := s.toResponse(record)
	s.hub.Publish(realtime.Event{
		Type:      "harvest:approved",
		Channel:   realtime.ChannelApproval,
		CompanyID: actor.CompanyID,
		OwnerID:   record.MandorID,
		Payload:   resp,
	})
	s.coord.Notify(actor.CompanyID)
	return resp, nil
}

func (s *harvestService) Reject(ctx context.Context, actor *Actor, id string, req *dto.RejectHarvestRequest) (*dto.HarvestResponse, error) {
	record, err := s.getScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !record.IsPending() {
		return nil, ErrHarvestNotPending
	}
	record.Reject(req.Reason)
	if err := s.repo.Harvest.Update(ctx, record); err != nil {
		return nil, err
	}

	resp := s.toResponse(record)
	s.hub.Publish(realtime.Event{
		Type:      "harvest:rejected",
		Channel:   realtime.ChannelApproval,
		CompanyID: actor.CompanyID,
		OwnerID:   record.MandorID,
		Payload:   resp,
	})
	s.coord.Notify(actor.CompanyID)
	return resp, nil
}

func (s *harvestService) Estimate(ctx context.Context, actor *Actor, req *dto.HarvestEstimateRequest) (*dto.HarvestEstimateResponse, error) {
	block, err := s.repo.Block.GetByID(ctx, req.BlockID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlockNotFound
		}
		return nil, err
	}
	if block.CompanyID != actor.CompanyID {
		return nil, pkgerrors.ErrForbidden
	}
	return &dto.HarvestEstimateResponse{
		BlockID:           block.BlockID,
		BJR:               block.BJR,
		JumlahJanjang:     req.JumlahJanjang,
		EstimatedWeightKg: block.EstimateWeight(req.JumlahJanjang),
	}, nil
}

func (s *harvestService) Statistics(ctx context.Context, actor *Actor, from, to time.Time) (*dto.HarvestStatistics, error) {
	return s.repo.Harvest.Statistics(ctx, actor.CompanyID, from, to)
}

func (s *harvestService) getScoped(ctx context.Context, actor *Actor, id string) (*model.HarvestRecord, error) {
	record, err := s.repo.Harvest.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHarvestNotFound
		}
		return nil, err
	}
	if record.CompanyID != actor.CompanyID {
		return nil, pkgerrors.ErrForbidden
	}
	return record, nil
}

func (s *harvestService) toResponse(record *model.HarvestRecord) *dto.HarvestResponse {
	resp := &dto.HarvestResponse{
		ID:                record.HarvestRecordID,
		Tanggal:           record.Tanggal,
		BlockID:           record.BlockID,
		MandorID:          record.MandorID,
		Karyawan:          record.Karyawan,
		NIK:               record.NIK,
		BeratTbs:          record.BeratTbs,
		JumlahJanjang:     record.JumlahJanjang,
		JjgMatang:         record.JjgMatang,
		JjgMentah:         record.JjgMentah,
		JjgLewatMatang:    record.JjgLewatMatang,
		JjgBusukAbnormal:  record.JjgBusukAbnormal,
		JjgTangkaiPanjang: record.JjgTangkaiPanjang,
		TotalBrondolan:    record.TotalBrondolan,
		Status:            string(record.Status),
		ApprovedBy:        record.ApprovedBy,
		ApprovedAt:        record.ApprovedAt,
		RejectedReason:    record.RejectedReason,
		PhotoURL:          s.resolver.ResolvePtr(record.PhotoPath),
		Notes:             record.Notes,
		SyncStatus:        string(record.SyncStatus),
		CreatedAt:         record.CreatedAt,
	}
	if record.Block != nil {
		resp.BlockName = record.Block.Name
		resp.EstimatedWeight = record.Block.EstimateWeight(record.JumlahJanjang)
	}
	if record.Mandor != nil {
		resp.MandorName = record.Mandor.Name
	}
	return resp
}
