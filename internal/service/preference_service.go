package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"sawit-ops/backend/internal/dto"
	"sawit-ops/backend/pkg/redis"
)

var ErrPreferencesUnavailable = errors.New("preference storage is unavailable")

// knownPreferenceKeys are the UI preferences the apps read back. Unknown
// keys are stored as-is so older servers never reject newer clients.
var knownPreferenceKeys = map[string]struct{}{
	"theme":              {},
	"language":           {},
	"dashboard_layout":   {},
	"default_gate":       {},
	"notification_sound": {},
}

// PreferenceService stores per-user UI preferences in Redis.
type PreferenceService interface {
	Get(ctx context.Context, userID string, keys []string) (*dto.PreferencesResponse, error)
	Update(ctx context.Context, userID string, req *dto.UpdatePreferencesRequest) (*dto.PreferencesResponse, error)
}

type preferenceService struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewPreferenceService creates the PreferenceService.
func NewPreferenceService(rdb *redis.Client, logger *zap.Logger) PreferenceService {
	return &preferenceService{rdb: rdb, logger: logger}
}

func (s *preferenceService) Get(ctx context.Context, userID string, keys []string) (*dto.PreferencesResponse, error) {
	if s.rdb == nil {
		return nil, ErrPreferencesUnavailable
	}
	if len(keys) == 0 {
		keys = make([]string, 0, len(knownPreferenceKeys))
		for k := range knownPreferenceKeys {
			keys = append(keys, k)
		}
	}
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		v, ok, err := s.rdb.GetPreference(ctx, userID, key)
		if err != nil {
			s.logger.Error("preference read failed", zap.String("key", key), zap.Error(err))
			return nil, err
		}
		if ok {
			out[key] = v
		}
	}
	return &dto.PreferencesResponse{Preferences: out}, nil
}

func (s *preferenceService) Update(ctx context.Context, userID string, req *dto.UpdatePreferencesRequest) (*dto.PreferencesResponse, error) {
	if s.rdb == nil {
		return nil, ErrPreferencesUnavailable
	}
	for key, value := range req.Preferences {
		if err := s.rdb.SetPreference(ctx, userID, key, value); err != nil {
			s.logger.Error("preference write failed", zap.String("key", key), zap.Error(err))
			return nil, err
		}
	}
	return s.Get(ctx, userID, nil)
}
