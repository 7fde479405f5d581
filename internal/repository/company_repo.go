package repository

import (
	"context"

	"gorm.io/gorm"

	"sawit-ops/backend/internal/model"
)

// CompanyRepository is the operating-company data-access interface.
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*model.Company, error)
	ListAll(ctx context.Context) ([]model.Company, error)
}

type companyRepo struct {
	db *gorm.DB
}

// NewCompanyRepo creates the GORM-backed CompanyRepository.
func NewCompanyRepo(db *gorm.DB) CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) GetByID(ctx context.Context, id string) (*model.Company, error) {
	var company model.Company
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepo) ListAll(ctx context.Context) ([]model.Company, error) {
	var companies []model.Company
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&companies).Error
	return companies, err
}
