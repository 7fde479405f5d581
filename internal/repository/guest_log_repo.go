package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"sawit-ops/backend/internal/dto"
	"sawit-ops/backend/internal/model"
	pkgerrors "sawit-ops/backend/pkg/errors"
)

// GuestLogRepository is the gate-record data-access interface. Update uses
// the version column so concurrent edits and sync replays never silently
// overwrite each other.
type GuestLogRepository interface {
	Create(ctx context.Context, log *model.GuestLog) error
	GetByID(ctx context.Context, id string) (*model.GuestLog, error)
	// GetByLocalID looks up a record by its device-assigned identifier.
	// This is the idempotency key for offline-sync replays.
	GetByLocalID(ctx context.Context, companyID, localID string) (*model.GuestLog, error)
	List(ctx context.Context, companyID string, filters dto.GuestLogListFilters) ([]model.GuestLog, int64, error)
	ListInside(ctx context.Context, companyID string) ([]model.GuestLog, error)
	ListOverstay(ctx context.Context, companyID string, enteredBefore time.Time) ([]model.GuestLog, error)
	Update(ctx context.Context, log *model.GuestLog) error
	// Delete soft-deletes the record; it stays in the table under its
	// deleted_at marker for audit.
	Delete(ctx context.Context, id string) error
	CountToday(ctx context.Context, companyID string, status model.GuestLogStatus) (int64, error)
	CountPendingSync(ctx context.Context, companyID string) (int64, error)
}

type guestLogRepo struct {
	db *gorm.DB
}

// NewGuestLogRepo creates the GORM-backed GuestLogRepository.
func NewGuestLogRepo(db *gorm.DB) GuestLogRepository {
	return &guestLogRepo{db: db}
}

func (r *guestLogRepo) Create(ctx context.Context, log *model.GuestLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *guestLogRepo) GetByID(ctx context.Context, id string) (*model.GuestLog, error) {
	var log model.GuestLog
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *guestLogRepo) GetByLocalID(ctx context.Context, companyID, localID string) (*model.GuestLog, error) {
	var log model.GuestLog
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND local_id = ?", companyID, localID).
		First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *guestLogRepo) List(ctx context.Context, companyID string, filters dto.GuestLogListFilters) ([]model.GuestLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.GuestLog{}).Where("company_id = ?", companyID)

	if filters.Status != nil {
		q = q.Where("status = ?", *filters.Status)
	}
	if filters.VehicleType != nil {
		q = q.Where("vehicle_type = ?", *filters.VehicleType)
	}
	if filters.DateFrom != nil {
		q = q.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		q = q.Where("created_at < ?", filters.DateTo.AddDate(0, 0, 1))
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		q = q.Where("driver_name ILIKE ? OR vehicle_plate ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []model.GuestLog
	offset := (filters.Page - 1) * filters.PageSize
	err := q.Order("created_at DESC").Offset(offset).Limit(filters.PageSize).Find(&logs).Error
	return logs, total, err
}

func (r *guestLogRepo) ListInside(ctx context.Context, companyID string) ([]model.GuestLog, error) {
	var logs []model.GuestLog
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND entry_time IS NOT NULL AND exit_time IS NULL", companyID).
		Order("entry_time ASC").
		Find(&logs).Error
	return logs, err
}

func (r *guestLogRepo) ListOverstay(ctx context.Context, companyID string, enteredBefore time.Time) ([]model.GuestLog, error) {
	var logs []model.GuestLog
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND entry_time IS NOT NULL AND exit_time IS NULL AND entry_time < ?",
			companyID, enteredBefore).
		Order("entry_time ASC").
		Find(&logs).Error
	return logs, err
}

func (r *guestLogRepo) Update(ctx context.Context, log *model.GuestLog) error {
	oldVersion := log.Version
	result := r.db.WithContext(ctx).
		Model(log).
		Where("id = ? AND version = ?", log.GuestLogID, oldVersion).
		Updates(map[string]interface{}{
			"driver_name":           log.DriverName,
			"vehicle_plate":         log.VehiclePlate,
			"vehicle_type":          log.VehicleType,
			"id_card_number":        log.IDCardNumber,
			"destination":           log.Destination,
			"entry_time":            log.EntryTime,
			"exit_time":             log.ExitTime,
			"entry_gate":            log.EntryGate,
			"exit_gate":             log.ExitGate,
			"load_type":             log.LoadType,
			"cargo_volume":          log.CargoVolume,
			"cargo_owner":           log.CargoOwner,
			"estimated_weight":      log.EstimatedWeight,
			"delivery_order_number": log.DeliveryOrderNumber,
			"second_cargo":          log.SecondCargo,
			"photo_path":            log.PhotoPath,
			"notes":                 log.Notes,
			"status":                log.Status,
			"sync_status":           log.SyncStatus,
			"version":               oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	log.Version = oldVersion + 1
	return nil
}

func (r *guestLogRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.GuestLog{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *guestLogRepo) CountToday(ctx context.Context, companyID string, status model.GuestLogStatus) (int64, error) {
	var count int64
	startOfDay := time.Now().Truncate(24 * time.Hour)
	col := "entry_time"
	if status == model.GuestLogExit {
		col = "exit_time"
	}
	err := r.db.WithContext(ctx).
		Model(&model.GuestLog{}).
		Where("company_id = ? AND "+col+" >= ?", companyID, startOfDay).
		Count(&count).Error
	return count, err
}

func (r *guestLogRepo) CountPendingSync(ctx context.Context, companyID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.GuestLog{}).
		Where("company_id = ? AND sync_status = ?", companyID, model.SyncStatusPending).
		Count(&count).Error
	return count, err
}
