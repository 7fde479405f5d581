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
)

var (
	ErrWeighingNotFound = errors.New("weighing record not found")
	ErrInvalidWeights   = errors.New("gross weight must cover tare weight")
	ErrDuplicateTicket  = errors.New("ticket number already recorded")
)

// WeighingService records weighbridge tickets.
type WeighingService interface {
	Create(ctx context.Context, actor *Actor, req *dto.CreateWeighingRequest) (*dto.WeighingResponse, error)
	Get(ctx context.Context, actor *Actor, id string) (*dto.WeighingResponse, error)
	List(ctx context.Context, actor *Actor, filters dto.WeighingListFilters) ([]dto.WeighingResponse, int64, error)
}

type weighingService struct {
	repo   *repository.Repository
	coord  *realtime.Coordinator
	logger *zap.Logger
}

// NewWeighingService creates the WeighingService.
func NewWeighingService(repo *repository.Repository, coord *realtime.Coordinator, logger *zap.Logger) WeighingService {
	return &weighingService{repo: repo, coord: coord, logger: logger}
}

func (s *weighingService) Create(ctx context.Context, actor *Actor, req *dto.CreateWeighingRequest) (*dto.WeighingResponse, error) {
	record := &model.WeighingRecord{
		TicketNumber: req.TicketNumber,
		VehiclePlate: req.VehiclePlate,
		DriverName:   req.DriverName,
		VendorName:   req.VendorName,
		GrossWeight:  req.GrossWeight,
		TareWeight:   req.TareWeight,
		CargoType:    req.CargoType,
		CompanyID:    actor.CompanyID,
		WeighingTime: time.Now(),
	}
	if req.WeighingTime != nil {
		record.WeighingTime = *req.WeighingTime
	}
	if !record.IsValidWeights() {
		return nil, ErrInvalidWeights
	}
	record.ComputeNet()

	if _, err := s.repo.Weighing.GetByTicketNumber(ctx, actor.CompanyID, req.TicketNumber); err == nil {
		return nil, ErrDuplicateTicket
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.repo.Weighing.Create(ctx, record); err != nil {
		s.logger.Error("weighing create failed", zap.Error(err))
		return nil, err
	}
	s.coord.Notify(actor.CompanyID)
	return toWeighingResponse(record), nil
}

func (s *weighingService) Get(ctx context.Context, actor *Actor, id string) (*dto.WeighingResponse, error) {
	record, err := s.repo.Weighing.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWeighingNotFound
		}
		return nil, err
	}
	if record.CompanyID != actor.CompanyID {
		return nil, pkgerrors.ErrForbidden
	}
	return toWeighingResponse(record), nil
}

func (s *weighingService) List(ctx context.Context, actor *Actor, filters dto.WeighingListFilters) ([]dto.WeighingResponse, int64, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}
	records, total, err := s.repo.Weighing.List(ctx, actor.CompanyID, filters)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.WeighingResponse, 0, len(records))
	for i := range records {
		out = append(out, *toWeighingResponse(&records[i]))
	}
	return out, total, nil
}

func toWeighingResponse(record *model.WeighingRecord) *dto.WeighingResponse {
	return &dto.WeighingResponse{
		ID:           record.WeighingRecordID,
		TicketNumber: record.TicketNumber,
		VehiclePlate: record.VehiclePlate,
		DriverName:   record.DriverName,
		VendorName:   record.VendorName,
		GrossWeight:  record.GrossWeight,
		TareWeight:   record.TareWeight,
		NetWeight:    record.NetWeight,
		CargoType:    record.CargoType,
		WeighingTime: record.WeighingTime,
		CreatedAt:    record.CreatedAt,
	}
}
