package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sawit-ops/backend/config"
	"sawit-ops/backend/internal/dto"
	"sawit-ops/backend/internal/model"
	"sawit-ops/backend/internal/realtime"
	"sawit-ops/backend/internal/repository"
	pkgerrors "sawit-ops/backend/pkg/errors"
	"sawit-ops/backend/pkg/media"
)

var (
	ErrGuestLogNotFound = errors.New("guest log not found")
	ErrAlreadyExited    = errors.New("vehicle has already exited")
	ErrInvalidIntent    = errors.New("invalid gate intent")
	ErrTokenNotUsable   = errors.New("qr token cannot be used")
)

// justArrivedLabel is what the duration renders as before a vehicle has an
// entry timestamp, instead of a negative or garbage value.
const justArrivedLabel = "Baru tiba"

// GateCheckService covers the satpam gate workflow: registering vehicles,
// processing exits, and the single-use QR gate passes.
type GateCheckService interface {
	CreateGuestLog(ctx context.Context, actor *Actor, req *dto.CreateGuestLogRequest) (*dto.GuestLogResponse, error)
	GetGuestLog(ctx context.Context, actor *Actor, id string) (*dto.GuestLogResponse, error)
	ListGuestLogs(ctx context.Context, actor *Actor, filters dto.GuestLogListFilters) ([]dto.GuestLogResponse, int64, error)
	ListInside(ctx context.Context, actor *Actor) ([]dto.GuestLogResponse, error)
	ProcessExit(ctx context.Context, actor *Actor, req *dto.ProcessExitRequest) (*dto.ProcessExitResponse, error)

	GenerateQRToken(ctx context.Context, actor *Actor, req *dto.GenerateQRTokenRequest) (*dto.QRTokenResponse, error)
	ValidateQRToken(ctx context.Context, actor *Actor, req *dto.ValidateQRTokenRequest) (*dto.ValidateQRTokenResponse, error)

	// SweepOverstays flags vehicles inside past the threshold and raises
	// security alerts. Returns how many were flagged.
	SweepOverstays(ctx context.Context, companyID string) (int, error)
}

// Actor identifies the authenticated caller to a service operation.
type Actor struct {
	UserID    string
	CompanyID string
	Role      model.Role
	DeviceID  string
}

type gateCheckService struct {
	cfg      *config.Config
	repo     *repository.Repository
	hub      *realtime.Hub
	coord    *realtime.Coordinator
	resolver *media.Resolver
	logger   *zap.Logger
}

// NewGateCheckService creates the GateCheckService.
func NewGateCheckService(
	cfg *config.Config,
	repo *repository.Repository,
	hub *realtime.Hub,
	coord *realtime.Coordinator,
	resolver *media.Resolver,
	logger *zap.Logger,
) GateCheckService {
	return &gateCheckService{
		cfg:      cfg,
		repo:     repo,
		hub:      hub,
		coord:    coord,
		resolver: resolver,
		logger:   logger,
	}
}

func (s *gateCheckService) CreateGuestLog(ctx context.Context, actor *Actor, req *dto.CreateGuestLogRequest) (*dto.GuestLogResponse, error) {
	vehicleType := model.VehicleType(req.VehicleType)
	if !vehicleType.IsValid() {
		return nil, fmt.Errorf("unknown vehicle type %q", req.VehicleType)
	}

	gate := req.GatePosition
	if gate == "" {
		gate = "MAIN_GATE"
	}

	log := &model.GuestLog{
		DeviceID:            req.DeviceID,
		CompanyID:           actor.CompanyID,
		CreatedBy:           actor.UserID,
		DriverName:          req.DriverName,
		VehiclePlate:        req.VehiclePlate,
		VehicleType:         vehicleType,
		IDCardNumber:        req.IDCardNumber,
		Destination:         req.Destination,
		GatePosition:        gate,
		LoadType:            req.LoadType,
		CargoVolume:         req.CargoVolume,
		CargoOwner:          req.CargoOwner,
		EstimatedWeight:     req.EstimatedWeight,
		DeliveryOrderNumber: req.DeliveryOrderNumber,
		SecondCargo:         req.SecondCargo,
		PhotoPath:           req.PhotoPath,
		Notes:               req.Notes,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		Status:              model.GuestLogEntry,
		SyncStatus:          model.SyncStatusSynced, // created online
	}
	log.MarkEntry(gate)
	log.Version = 1

	if err := s.repo.GuestLog.Create(ctx, log); err != nil {
		s.logger.Error("guest log create failed", zap.Error(err))
		return nil, err
	}

	resp := s.toResponse(log)
	s.hub.Publish(realtime.Event{
		Type:      "gate_check:created",
		Channel:   realtime.ChannelGateCheck,
		CompanyID: actor.CompanyID,
		Payload:   resp,
	})
	s.hub.Publish(realtime.Event{
		Type:      "satpam:data_update",
		Channel:   realtime.ChannelGateCheck,
		CompanyID: actor.CompanyID,
	})
	s.coord.Notify(actor.CompanyID)
	return resp, nil
}

func (s *gateCheckService) GetGuestLog(ctx context.Context, actor *Actor, id string) (*dto.GuestLogResponse, error) {
	log, err := s.getScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(log), nil
}

func (s *gateCheckService) ListGuestLogs(ctx context.Context, actor *Actor, filters dto.GuestLogListFilters) ([]dto.GuestLogResponse, int64, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}
	logs, total, err := s.repo.GuestLog.List(ctx, actor.CompanyID, filters)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.GuestLogResponse, 0, len(logs))
	for i := range logs {
		out = append(out, *s.toResponse(&logs[i]))
	}
	return out, total, nil
}

func (s *gateCheckService) ListInside(ctx context.Context, actor *Actor) ([]dto.GuestLogResponse, error) {
	logs, err := s.repo.GuestLog.ListInside(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.GuestLogResponse, 0, len(logs))
	for i := range logs {
		out = append(out, *s.toResponse(&logs[i]))
	}
	return out, nil
}

func (s *gateCheckService) ProcessExit(ctx context.Context, actor *Actor, req *dto.ProcessExitRequest) (*dto.ProcessExitResponse, error) {
	log, err := s.getScoped(ctx, actor, req.GuestLogID)
	if err != nil {
		return nil, err
	}
	if log.ExitTime != nil {
		return nil, ErrAlreadyExited
	}

	// An exit scanned with a QR pass consumes the pass first.
	if req.QRTokenJTI != nil {
		if _, err := s.consumeToken(ctx, actor, *req.QRTokenJTI, model.GateIntentExit); err != nil {
			return nil, err
		}
	}

	wasOverstay := log.IsOverstay(s.cfg.Realtime.OverstayThreshold)

	gate := req.ExitGate
	if gate == "" {
		gate = log.GatePosition
	}
	log.MarkExit(gate)
	if !log.ValidateTimes() {
		return nil, errors.New("exit time must be after entry time")
	}
	if err := s.repo.GuestLog.Update(ctx, log); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, err
		}
		s.logger.Error("guest log exit update failed", zap.Error(err))
		return nil, err
	}

	resp := &dto.ProcessExitResponse{
		GuestLog:    s.toResponse(log),
		WasOverstay: wasOverstay,
	}
	s.hub.Publish(realtime.Event{
		Type:      "gate_check:exit",
		Channel:   realtime.ChannelGateCheck,
		CompanyID: actor.CompanyID,
		Payload:   resp.GuestLog,
	})
	s.coord.Notify(actor.CompanyID)
	return resp, nil
}

// ── QR gate passes ──

func (s *gateCheckService) GenerateQRToken(ctx context.Context, actor *Actor, req *dto.GenerateQRTokenRequest) (*dto.QRTokenResponse, error) {
	intent := model.GateIntent(req.Intent)
	if !intent.IsValid() {
		return nil, ErrInvalidIntent
	}
	log, err := s.getScoped(ctx, actor, req.GuestLogID)
	if err != nil {
		return nil, err
	}

	expiry := req.ExpiryMinutes
	if expiry <= 0 {
		expiry = s.cfg.Auth.QRTokenExpiryMinutes
	}

	now := time.Now()
	token := &model.QRToken{
		JTI:         uuid.NewString(),
		CompanyID:   actor.CompanyID,
		GuestLogID:  &log.GuestLogID,
		GeneratedBy: actor.UserID,
		Intent:      intent,
		// A pass issued at entry is scanned at exit, and vice versa.
		AllowedScan: intent.Opposite(),
		Status:      model.QRTokenActive,
		MaxUsage:    1,
		DeviceID:    req.DeviceID,
		ExpiresAt:   now.Add(time.Duration(expiry) * time.Minute),
		GeneratedAt: now,
	}
	if err := s.repo.QRToken.Create(ctx, token); err != nil {
		s.logger.Error("qr token create failed", zap.Error(err))
		return nil, err
	}
	return toQRTokenResponse(token), nil
}

func (s *gateCheckService) ValidateQRToken(ctx context.Context, actor *Actor, req *dto.ValidateQRTokenRequest) (*dto.ValidateQRTokenResponse, error) {
	intent := model.GateIntent(req.Intent)
	if !intent.IsValid() {
		return nil, ErrInvalidIntent
	}

	token, err := s.consumeToken(ctx, actor, req.JTI, intent)
	if err != nil {
		reason := err.Error()
		if errors.Is(err, ErrTokenNotUsable) || errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.ValidateQRTokenResponse{Valid: false, Reason: &reason}, nil
		}
		return nil, err
	}

	resp := &dto.ValidateQRTokenResponse{Valid: true, Token: toQRTokenResponse(token)}
	if token.GuestLogID != nil {
		if log, err := s.getScoped(ctx, actor, *token.GuestLogID); err == nil {
			resp.GuestLog = s.toResponse(log)
		}
	}
	return resp, nil
}

// consumeToken validates scan direction, expiry, and usage, then marks one
// usage on behalf of the scanning device.
func (s *gateCheckService) consumeToken(ctx context.Context, actor *Actor, jti string, intent model.GateIntent) (*model.QRToken, error) {
	token, err := s.repo.QRToken.GetByJTI(ctx, jti)
	if err != nil {
		return nil, err
	}
	if token.CompanyID != actor.CompanyID {
		return nil, pkgerrors.ErrForbidden
	}
	if !token.CanBeUsedFor(intent) {
		return nil, ErrTokenNotUsable
	}
	token.MarkUsed(actor.DeviceID)
	if err := s.repo.QRToken.Update(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// ── overstay sweep ──

func (s *gateCheckService) SweepOverstays(ctx context.Context, companyID string) (int, error) {
	cutoff := time.Now().Add(-s.cfg.Realtime.OverstayThreshold)
	logs, err := s.repo.GuestLog.ListOverstay(ctx, companyID, cutoff)
	if err != nil {
		return 0, err
	}
	for i := range logs {
		s.hub.Publish(realtime.Event{
			Type:      "security:overstay",
			Channel:   realtime.ChannelSecurityAlerts,
			CompanyID: companyID,
			Payload:   s.toResponse(&logs[i]),
		})
	}
	if len(logs) > 0 {
		s.coord.Notify(companyID)
	}
	return len(logs), nil
}

// ── helpers ──

func (s *gateCheckService) getScoped(ctx context.Context, actor *Actor, id string) (*model.GuestLog, error) {
	log, err := s.repo.GuestLog.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuestLogNotFound
		}
		return nil, err
	}
	if log.CompanyID != actor.CompanyID {
		return nil, pkgerrors.ErrForbidden
	}
	return log, nil
}

func (s *gateCheckService) toResponse(log *model.GuestLog) *dto.GuestLogResponse {
	return &dto.GuestLogResponse{
		ID:                  log.GuestLogID,
		LocalID:             log.LocalID,
		DriverName:          log.DriverName,
		VehiclePlate:        log.VehiclePlate,
		VehicleType:         string(log.VehicleType),
		Destination:         log.Destination,
		GatePosition:        log.GatePosition,
		EntryTime:           log.EntryTime,
		ExitTime:            log.ExitTime,
		EntryGate:           log.EntryGate,
		ExitGate:            log.ExitGate,
		LoadType:            log.LoadType,
		CargoOwner:          log.CargoOwner,
		DeliveryOrderNumber: log.DeliveryOrderNumber,
		SecondCargo:         log.SecondCargo,
		PhotoURL:            s.resolver.ResolvePtr(log.PhotoPath),
		Status:              string(log.Status),
		SyncStatus:          string(log.SyncStatus),
		DurationLabel:       durationLabel(log),
		IsOverstay:          log.IsOverstay(s.cfg.Realtime.OverstayThreshold),
		Version:             log.Version,
		CreatedAt:           log.CreatedAt,
	}
}

func toQRTokenResponse(token *model.QRToken) *dto.QRTokenResponse {
	return &dto.QRTokenResponse{
		ID:          token.QRTokenID,
		JTI:         token.JTI,
		GuestLogID:  token.GuestLogID,
		Intent:      string(token.Intent),
		AllowedScan: string(token.AllowedScan),
		Status:      string(token.Status),
		ExpiresAt:   token.ExpiresAt,
		GeneratedAt: token.GeneratedAt,
	}
}

// durationLabel renders the time inside the estate. A record without an
// entry timestamp reads as just arrived.
func durationLabel(log *model.GuestLog) string {
	if log.EntryTime == nil {
		return justArrivedLabel
	}
	end := time.Now()
	if log.ExitTime != nil {
		end = *log.ExitTime
	}
	d := end.Sub(*log.EntryTime)
	if d < 0 {
		return justArrivedLabel
	}
	if d < time.Minute {
		return justArrivedLabel
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours == 0 {
		return fmt.Sprintf("%d menit", minutes)
	}
	return fmt.Sprintf("%d jam %d menit", hours, minutes)
}
