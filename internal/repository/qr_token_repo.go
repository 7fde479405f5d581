package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"sawit-ops/backend/internal/model"
)

// QRTokenRepository is the gate-pass data-access interface.
type QRTokenRepository interface {
	Create(ctx context.Context, token *model.QRToken) error
	GetByJTI(ctx context.Context, jti string) (*model.QRToken, error)
	Update(ctx context.Context, token *model.QRToken) error
	// ExpireStale flips ACTIVE tokens past their expiry to EXPIRED and
	// returns how many were flipped.
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
	ListByGuestLog(ctx context.Context, guestLogID string) ([]model.QRToken, error)
}

type qrTokenRepo struct {
	db *gorm.DB
}

// NewQRTokenRepo creates the GORM-backed QRTokenRepository.
func NewQRTokenRepo(db *gorm.DB) QRTokenRepository {
	return &qrTokenRepo{db: db}
}

func (r *qrTokenRepo) Create(ctx context.Context, token *model.QRToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *qrTokenRepo) GetByJTI(ctx context.Context, jti string) (*model.QRToken, error) {
	var token model.QRToken
	err := r.db.WithContext(ctx).
		Where("jti = ?", jti).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *qrTokenRepo) Update(ctx context.Context, token *model.QRToken) error {
	return r.db.WithContext(ctx).Save(token).Error
}

func (r *qrTokenRepo) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.QRToken{}).
		Where("status = ? AND expires_at < ?", model.QRTokenActive, now).
		Update("status", model.QRTokenExpired)
	return result.RowsAffected, result.Error
}

func (r *qrTokenRepo) ListByGuestLog(ctx context.Context, guestLogID string) ([]model.QRToken, error) {
	var tokens []model.QRToken
	err := r.db.WithContext(ctx).
		Where("guest_log_id = ?", guestLogID).
		Order("generated_at DESC").
		Find(&tokens).Error
	return tokens, err
}
