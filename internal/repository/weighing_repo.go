package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"sawit-ops/backend/internal/dto"
	"sawit-ops/backend/internal/model"
)

// WeighingRepository is the weighbridge-record data-access interface.
type WeighingRepository interface {
	Create(ctx context.Context, record *model.WeighingRecord) error
	GetByID(ctx context.Context, id string) (*model.WeighingRecord, error)
	GetByTicketNumber(ctx context.Context, companyID, ticketNumber string) (*model.WeighingRecord, error)
	List(ctx context.Context, companyID string, filters dto.WeighingListFilters) ([]model.WeighingRecord, int64, error)
	TodaySummary(ctx context.Context, companyID string) (count int64, netTotal float64, err error)
}

type weighingRepo struct {
	db *gorm.DB
}

// NewWeighingRepo creates the GORM-backed WeighingRepository.
func NewWeighingRepo(db *gorm.DB) WeighingRepository {
	return &weighingRepo{db: db}
}

func (r *weighingRepo) Create(ctx context.Context, record *model.WeighingRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *weighingRepo) GetByID(ctx context.Context, id string) (*model.WeighingRecord, error) {
	var record model.WeighingRecord
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *weighingRepo) GetByTicketNumber(ctx context.Context, companyID, ticketNumber string) (*model.WeighingRecord, error) {
	var record model.WeighingRecord
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND ticket_number = ?", companyID, ticketNumber).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *weighingRepo) List(ctx context.Context, companyID string, filters dto.WeighingListFilters) ([]model.WeighingRecord, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.WeighingRecord{}).Where("company_id = ?", companyID)

	if filters.VehiclePlate != nil {
		q = q.Where("vehicle_plate = ?", *filters.VehiclePlate)
	}
	if filters.CargoType != nil {
		q = q.Where("cargo_type = ?", *filters.CargoType)
	}
	if filters.DateFrom != nil {
		q = q.Where("weighing_time >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		q = q.Where("weighing_time < ?", filters.DateTo.AddDate(0, 0, 1))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.WeighingRecord
	offset := (filters.Page - 1) * filters.PageSize
	err := q.Order("weighing_time DESC").Offset(offset).Limit(filters.PageSize).Find(&records).Error
	return records, total, err
}

func (r *weighingRepo) TodaySummary(ctx context.Context, companyID string) (int64, float64, error) {
	startOfDay := time.Now().Truncate(24 * time.Hour)
	type row struct {
		Count    int64
		NetTotal float64
	}
	var agg row
	err := r.db.WithContext(ctx).
		Model(&model.WeighingRecord{}).
		Select("COUNT(*) AS count, COALESCE(SUM(net_weight), 0) AS net_total").
		Where("company_id = ? AND weighing_time >= ?", companyID, startOfDay).
		Scan(&agg).Error
	return agg.Count, agg.NetTotal, err
}
