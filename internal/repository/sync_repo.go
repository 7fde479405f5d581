package repository

import (
	"context"

	"gorm.io/gorm"

	"sawit-ops/backend/internal/model"
)

// SyncRepository covers the sync audit trail: batch transactions and the
// conflicts stored for manual resolution.
type SyncRepository interface {
	CreateTransaction(ctx context.Context, tx *model.SyncTransaction) error
	UpdateTransaction(ctx context.Context, tx *model.SyncTransaction) error
	GetTransaction(ctx context.Context, id string) (*model.SyncTransaction, error)
	ListTransactionsByDevice(ctx context.Context, deviceID string, offset, limit int) ([]model.SyncTransaction, int64, error)

	CreateConflict(ctx context.Context, conflict *model.SyncConflict) error
	GetConflict(ctx context.Context, id string) (*model.SyncConflict, error)
	ListPendingConflicts(ctx context.Context, companyID string, offset, limit int) ([]model.SyncConflict, int64, error)
	UpdateConflict(ctx context.Context, conflict *model.SyncConflict) error
	CountPendingConflicts(ctx context.Context, companyID string) (int64, error)
}

type syncRepo struct {
	db *gorm.DB
}

// NewSyncRepo creates the GORM-backed SyncRepository.
func NewSyncRepo(db *gorm.DB) SyncRepository {
	return &syncRepo{db: db}
}

func (r *syncRepo) CreateTransaction(ctx context.Context, tx *model.SyncTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *syncRepo) UpdateTransaction(ctx context.Context, tx *model.SyncTransaction) error {
	return r.db.WithContext(ctx).Save(tx).Error
}

func (r *syncRepo) GetTransaction(ctx context.Context, id string) (*model.SyncTransaction, error) {
	var tx model.SyncTransaction
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&tx).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *syncRepo) ListTransactionsByDevice(ctx context.Context, deviceID string, offset, limit int) ([]model.SyncTransaction, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.SyncTransaction{}).Where("device_id = ?", deviceID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txs []model.SyncTransaction
	err := q.Order("started_at DESC").Offset(offset).Limit(limit).Find(&txs).Error
	return txs, total, err
}

func (r *syncRepo) CreateConflict(ctx context.Context, conflict *model.SyncConflict) error {
	return r.db.WithContext(ctx).Create(conflict).Error
}

func (r *syncRepo) GetConflict(ctx context.Context, id string) (*model.SyncConflict, error) {
	var conflict model.SyncConflict
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&conflict).Error
	if err != nil {
		return nil, err
	}
	return &conflict, nil
}

func (r *syncRepo) ListPendingConflicts(ctx context.Context, companyID string, offset, limit int) ([]model.SyncConflict, int64, error) {
	// Conflicts reach a company's review queue through the batch's user;
	// the join keeps conflicts scoped to the caller's company.
	q := r.db.WithContext(ctx).
		Model(&model.SyncConflict{}).
		Joins("JOIN sync_transactions ON sync_transactions.id = sync_conflicts.sync_transaction_id").
		Joins("JOIN users ON users.id = sync_transactions.user_id").
		Where("users.company_id = ? AND sync_conflicts.status = ?", companyID, model.ConflictPending)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var conflicts []model.SyncConflict
	err := q.Order("sync_conflicts.created_at ASC").Offset(offset).Limit(limit).Find(&conflicts).Error
	return conflicts, total, err
}

func (r *syncRepo) UpdateConflict(ctx context.Context, conflict *model.SyncConflict) error {
	return r.db.WithContext(ctx).Save(conflict).Error
}

func (r *syncRepo) CountPendingConflicts(ctx context.Context, companyID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.SyncConflict{}).
		Joins("JOIN sync_transactions ON sync_transactions.id = sync_conflicts.sync_transaction_id").
		Joins("JOIN users ON users.id = sync_transactions.user_id").
		Where("users.company_id = ? AND sync_conflicts.status = ?", companyID, model.ConflictPending).
		Count(&count).Error
	return count, err
}
