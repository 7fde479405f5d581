package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"sawit-ops/backend/internal/dto"
	"sawit-ops/backend/internal/model"
	pkgerrors "sawit-ops/backend/pkg/errors"
)

// HarvestRepository is the harvest-record data-access interface.
type HarvestRepository interface {
	Create(ctx context.Context, record *model.HarvestRecord) error
	GetByID(ctx context.Context, id string) (*model.HarvestRecord, error)
	GetByLocalID(ctx context.Context, companyID, localID string) (*model.HarvestRecord, error)
	List(ctx context.Context, companyID string, filters dto.HarvestListFilters) ([]model.HarvestRecord, int64, error)
	ListPendingApproval(ctx context.Context, companyID string, limit int) ([]model.HarvestRecord, error)
	ListForExport(ctx context.Context, companyID string, from, to time.Time) ([]model.HarvestRecord, error)
	Update(ctx context.Context, record *model.HarvestRecord) error
	Statistics(ctx context.Context, companyID string, from, to time.Time) (*dto.HarvestStatistics, error)
}

type harvestRepo struct {
	db *gorm.DB
}

// NewHarvestRepo creates the GORM-backed HarvestRepository.
func NewHarvestRepo(db *gorm.DB) HarvestRepository {
	return &harvestRepo{db: db}
}

func (r *harvestRepo) Create(ctx context.Context, record *model.HarvestRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *harvestRepo) GetByID(ctx context.Context, id string) (*model.HarvestRecord, error) {
	var record model.HarvestRecord
	err := r.db.WithContext(ctx).
		Preload("Block").
		Preload("Mandor").
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *harvestRepo) GetByLocalID(ctx context.Context, companyID, localID string) (*model.HarvestRecord, error) {
	var record model.HarvestRecord
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND local_id = ?", companyID, localID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *harvestRepo) List(ctx context.Context, companyID string, filters dto.HarvestListFilters) ([]model.HarvestRecord, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.HarvestRecord{}).Where("company_id = ?", companyID)

	if filters.BlockID != nil {
		q = q.Where("block_id = ?", *filters.BlockID)
	}
	if filters.MandorID != nil {
		q = q.Where("mandor_id = ?", *filters.MandorID)
	}
	if filters.Status != nil {
		q = q.Where("status = ?", *filters.Status)
	}
	if filters.DateFrom != nil {
		q = q.Where("tanggal >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		q = q.Where("tanggal <= ?", *filters.DateTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.HarvestRecord
	offset := (filters.Page - 1) * filters.PageSize
	err := q.Preload("Block").
		Order("tanggal DESC, created_at DESC").
		Offset(offset).Limit(filters.PageSize).
		Find(&records).Error
	return records, total, err
}

func (r *harvestRepo) ListPendingApproval(ctx context.Context, companyID string, limit int) ([]model.HarvestRecord, error) {
	var records []model.HarvestRecord
	err := r.db.WithContext(ctx).
		Preload("Block").
		Where("company_id = ? AND status = ?", companyID, model.HarvestPending).
		Order("tanggal ASC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

func (r *harvestRepo) ListForExport(ctx context.Context, companyID string, from, to time.Time) ([]model.HarvestRecord, error) {
	var records []model.HarvestRecord
	err := r.db.WithContext(ctx).
		Preload("Block").
		Preload("Mandor").
		Where("company_id = ? AND tanggal >= ? AND tanggal <= ?", companyID, from, to).
		Order("tanggal ASC, created_at ASC").
		Find(&records).Error
	return records, err
}

func (r *harvestRepo) Update(ctx context.Context, record *model.HarvestRecord) error {
	oldVersion := record.Version
	result := r.db.WithContext(ctx).
		Model(record).
		Where("id = ? AND version = ?", record.HarvestRecordID, oldVersion).
		Updates(map[string]interface{}{
			"karyawan":            record.Karyawan,
			"berat_tbs":           record.BeratTbs,
			"jumlah_janjang":      record.JumlahJanjang,
			"jjg_matang":          record.JjgMatang,
			"jjg_mentah":          record.JjgMentah,
			"jjg_lewat_matang":    record.JjgLewatMatang,
			"jjg_busuk_abnormal":  record.JjgBusukAbnormal,
			"jjg_tangkai_panjang": record.JjgTangkaiPanjang,
			"total_brondolan":     record.TotalBrondolan,
			"status":              record.Status,
			"approved_by":         record.ApprovedBy,
			"approved_at":         record.ApprovedAt,
			"rejected_reason":     record.RejectedReason,
			"notes":               record.Notes,
			"sync_status":         record.SyncStatus,
			"version":             oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	record.Version = oldVersion + 1
	return nil
}

func (r *harvestRepo) Statistics(ctx context.Context, companyID string, from, to time.Time) (*dto.HarvestStatistics, error) {
	stats := &dto.HarvestStatistics{PeriodStart: from, PeriodEnd: to}

	type row struct {
		TotalRecords   int64
		TotalJanjang   int64
		TotalBeratTbs  float64
		TotalBrondolan float64
		ActiveBlocks   int64
	}
	var agg row
	err := r.db.WithContext(ctx).
		Model(&model.HarvestRecord{}).
		Select(`COUNT(*) AS total_records,
			COALESCE(SUM(jumlah_janjang), 0) AS total_janjang,
			COALESCE(SUM(berat_tbs), 0) AS total_berat_tbs,
			COALESCE(SUM(total_brondolan), 0) AS total_brondolan,
			COUNT(DISTINCT block_id) AS active_blocks`).
		Where("company_id = ? AND tanggal >= ? AND tanggal <= ?", companyID, from, to).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	stats.TotalRecords = agg.TotalRecords
	stats.TotalJanjang = agg.TotalJanjang
	stats.TotalBeratTbs = agg.TotalBeratTbs
	stats.TotalBrondolan = agg.TotalBrondolan
	stats.ActiveBlocks = agg.ActiveBlocks

	byStatus := func(status model.HarvestStatus) (int64, error) {
		var n int64
		err := r.db.WithContext(ctx).
			Model(&model.HarvestRecord{}).
			Where("company_id = ? AND tanggal >= ? AND tanggal <= ? AND status = ?", companyID, from, to, status).
			Count(&n).Error
		return n, err
	}
	if stats.PendingApprovals, err = byStatus(model.HarvestPending); err != nil {
		return nil, err
	}
	if stats.ApprovedRecords, err = byStatus(model.HarvestApproved); err != nil {
		return nil, err
	}
	if stats.RejectedRecords, err = byStatus(model.HarvestRejected); err != nil {
		return nil, err
	}
	return stats, nil
}
