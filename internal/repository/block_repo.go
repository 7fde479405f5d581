package repository

import (
	"context"

	"gorm.io/gorm"

	"sawit-ops/backend/internal/model"
)

// BlockRepository is the estate-block data-access interface.
type BlockRepository interface {
	Create(ctx context.Context, block *model.Block) error
	GetByID(ctx context.Context, id string) (*model.Block, error)
	ListByCompany(ctx context.Context, companyID string) ([]model.Block, error)
	Update(ctx context.Context, block *model.Block) error
}

type blockRepo struct {
	db *gorm.DB
}

// NewBlockRepo creates the GORM-backed BlockRepository.
func NewBlockRepo(db *gorm.DB) BlockRepository {
	return &blockRepo{db: db}
}

func (r *blockRepo) Create(ctx context.Context, block *model.Block) error {
	return r.db.WithContext(ctx).Create(block).Error
}

func (r *blockRepo) GetByID(ctx context.Context, id string) (*model.Block, error) {
	var block model.Block
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&block).Error
	if err != nil {
		return nil, err
	}
	return &block, nil
}

func (r *blockRepo) ListByCompany(ctx context.Context, companyID string) ([]model.Block, error) {
	var blocks []model.Block
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("block_code ASC").
		Find(&blocks).Error
	return blocks, err
}

func (r *blockRepo) Update(ctx context.Context, block *model.Block) error {
	return r.db.WithContext(ctx).Save(block).Error
}
