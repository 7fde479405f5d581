package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"sawit-ops/backend/internal/model"
)

// GradingRepository is the quality-grading data-access interface.
type GradingRepository interface {
	Create(ctx context.Context, record *model.GradingRecord) error
	GetByID(ctx context.Context, id string) (*model.GradingRecord, error)
	GetByHarvestRecord(ctx context.Context, harvestRecordID string) (*model.GradingRecord, error)
	ListByGrader(ctx context.Context, graderID string, offset, limit int) ([]model.GradingRecord, int64, error)
	Update(ctx context.Context, record *model.GradingRecord) error
	AverageScore(ctx context.Context, graderCompanyID string, since time.Time) (float64, error)
}

type gradingRepo struct {
	db *gorm.DB
}

// NewGradingRepo creates the GORM-backed GradingRepository.
func NewGradingRepo(db *gorm.DB) GradingRepository {
	return &gradingRepo{db: db}
}

func (r *gradingRepo) Create(ctx context.Context, record *model.GradingRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *gradingRepo) GetByID(ctx context.Context, id string) (*model.GradingRecord, error) {
	var record model.GradingRecord
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *gradingRepo) GetByHarvestRecord(ctx context.Context, harvestRecordID string) (*model.GradingRecord, error) {
	var record model.GradingRecord
	err := r.db.WithContext(ctx).
		Where("harvest_record_id = ?", harvestRecordID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *gradingRepo) ListByGrader(ctx context.Context, graderID string, offset, limit int) ([]model.GradingRecord, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.GradingRecord{}).Where("grader_id = ?", graderID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.GradingRecord
	err := q.Order("grading_date DESC").Offset(offset).Limit(limit).Find(&records).Error
	return records, total, err
}

func (r *gradingRepo) Update(ctx context.Context, record *model.GradingRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *gradingRepo) AverageScore(ctx context.Context, companyID string, since time.Time) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).
		Model(&model.GradingRecord{}).
		Select("COALESCE(AVG(grading_records.quality_score), 0)").
		Joins("JOIN harvest_records ON harvest_records.id = grading_records.harvest_record_id").
		Where("harvest_records.company_id = ? AND grading_records.grading_date >= ?", companyID, since).
		Scan(&avg).Error
	return avg, err
}
