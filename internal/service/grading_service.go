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
	ErrGradingNotFound   = errors.New("grading record not found")
	ErrGradingInvalid    = errors.New("grading values out of range")
	ErrGradingLocked     = errors.New("grading record is already approved")
	ErrGradingDuplicate  = errors.New("harvest record already graded")
	ErrGradingNotHarvest = errors.New("harvest record for grading not found")
)

// GradingService records fruit-quality assessments against approved
// harvest records.
type GradingService interface {
	Create(ctx context.Context, actor *Actor, req *dto.CreateGradingRequest) (*dto.GradingResponse, error)
	Get(ctx context.Context, actor *Actor, id string) (*dto.GradingResponse, error)
	GetByHarvest(ctx context.Context, actor *Actor, harvestID string) (*dto.GradingResponse, error)
	Update(ctx context.Context, actor *Actor, id string, req *dto.UpdateGradingRequest) (*dto.GradingResponse, error)
	Approve(ctx context.Context, actor *Actor, id string) (*dto.GradingResponse, error)
}

type gradingService struct {
	repo   *repository.Repository
	coord  *realtime.Coordinator
	logger *zap.Logger
}

// NewGradingService creates the GradingService.
func NewGradingService(repo *repository.Repository, coord *realtime.Coordinator, logger *zap.Logger) GradingService {
	return &gradingService{repo: repo, coord: coord, logger: logger}
}

func (s *gradingService) Create(ctx context.Context, actor *Actor, req *dto.CreateGradingRequest) (*dto.GradingResponse, error) {
	harvest, err := s.repo.Harvest.GetByID(ctx, req.HarvestRecordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradingNotHarvest
		}
		return nil, err
	}
	if harvest.CompanyID != actor.CompanyID {
		return nil, pkgerrors.ErrForbidden
	}

	if _, err := s.repo.Grading.GetByHarvestRecord(ctx, req.HarvestRecordID); err == nil {
		return nil, ErrGradingDuplicate
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	gradingDate := time.Now()
	if req.GradingDate != nil {
		gradingDate = *req.GradingDate
	}
	record := &model.GradingRecord{
		HarvestRecordID:      req.HarvestRecordID,
		GraderID:             actor.UserID,
		QualityScore:         req.QualityScore,
		MaturityLevel:        model.MaturityLevel(req.MaturityLevel),
		BrondolanPercentage:  req.BrondolanPercentage,
		LooseFruitPercentage: req.LooseFruitPercentage,
		DirtPercentage:       req.DirtPercentage,
		GradingNotes:         req.GradingNotes,
		GradingDate:          gradingDate,
	}
	if !record.Validate() {
		return nil, ErrGradingInvalid
	}

	if err := s.repo.Grading.Create(ctx, record); err != nil {
		s.logger.Error("grading create failed", zap.Error(err))
		return nil, err
	}
	s.coord.Notify(actor.CompanyID)
	return toGradingResponse(record), nil
}

func (s *gradingService) Get(ctx context.Context, actor *Actor, id string) (*dto.GradingResponse, error) {
	record, err := s.getScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toGradingResponse(record), nil
}

// GetByHarvest looks up the grading attached to a harvest record, if any.
func (s *gradingService) GetByHarvest(ctx context.Context, actor *Actor, harvestID string) (*dto.GradingResponse, error) {
	harvest, err := s.repo.Harvest.GetByID(ctx, harvestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradingNotHarvest
		}
		return nil, err
	}
	if harvest.CompanyID != actor.CompanyID {
		return nil, pkgerrors.ErrForbidden
	}

	record, err := s.repo.Grading.GetByHarvestRecord(ctx, harvestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradingNotFound
		}
		return nil, err
	}
	return toGradingResponse(record), nil
}

func (s *gradingService) Update(ctx context.Context, actor *Actor, id string, req *dto.UpdateGradingRequest) (*dto.GradingResponse, error) {
	record, err := s.getScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !record.CanBeUpdated() {
		return nil, ErrGradingLocked
	}

	if req.QualityScore != nil {
		record.QualityScore = *req.QualityScore
	}
	if req.MaturityLevel != nil {
		record.MaturityLevel = model.MaturityLevel(*req.MaturityLevel)
	}
	if req.BrondolanPercentage != nil {
		record.BrondolanPercentage = *req.BrondolanPercentage
	}
	if req.LooseFruitPercentage != nil {
		record.LooseFruitPercentage = *req.LooseFruitPercentage
	}
	if req.DirtPercentage != nil {
		record.DirtPercentage = *req.DirtPercentage
	}
	if req.GradingNotes != nil {
		record.GradingNotes = req.GradingNotes
	}
	if !record.Validate() {
		return nil, ErrGradingInvalid
	}

	if err := s.repo.Grading.Update(ctx, record); err != nil {
		return nil, err
	}
	s.coord.Notify(actor.CompanyID)
	return toGradingResponse(record), nil
}

func (s *gradingService) Approve(ctx context.Context, actor *Actor, id string) (*dto.GradingResponse, error) {
	record, err := s.getScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if record.IsApproved {
		return nil, ErrGradingLocked
	}
	record.Approve(actor.UserID)
	if err := s.repo.Grading.Update(ctx, record); err != nil {
		return nil, err
	}
	s.coord.Notify(actor.CompanyID)
	return toGradingResponse(record), nil
}

// getScoped loads a grading and checks company scope through its harvest.
func (s *gradingService) getScoped(ctx context.Context, actor *Actor, id string) (*model.GradingRecord, error) {
	record, err := s.repo.Grading.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradingNotFound
		}
		return nil, err
	}
	harvest, err := s.repo.Harvest.GetByID(ctx, record.HarvestRecordID)
	if err != nil {
		return nil, err
	}
	if harvest.CompanyID != actor.CompanyID {
		return nil, pkgerrors.ErrForbidden
	}
	return record, nil
}

func toGradingResponse(record *model.GradingRecord) *dto.GradingResponse {
	return &dto.GradingResponse{
		ID:                   record.GradingRecordID,
		HarvestRecordID:      record.HarvestRecordID,
		GraderID:             record.GraderID,
		QualityScore:         record.QualityScore,
		MaturityLevel:        string(record.MaturityLevel),
		BrondolanPercentage:  record.BrondolanPercentage,
		LooseFruitPercentage: record.LooseFruitPercentage,
		DirtPercentage:       record.DirtPercentage,
		GradingNotes:         record.GradingNotes,
		GradingDate:          record.GradingDate,
		IsApproved:           record.IsApproved,
		ApprovedBy:           record.ApprovedBy,
		ApprovedAt:           record.ApprovedAt,
		CreatedAt:            record.CreatedAt,
	}
}
