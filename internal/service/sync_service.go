package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sawit-ops/backend/config"
	"sawit-ops/backend/internal/dto"
	"sawit-ops/backend/internal/model"
	"sawit-ops/backend/internal/realtime"
	"sawit-ops/backend/internal/repository"
	pkgerrors "sawit-ops/backend/pkg/errors"
)

var (
	ErrBatchTooLarge      = errors.New("sync batch exceeds the record limit")
	ErrConflictNotFound   = errors.New("sync conflict not found")
	ErrConflictNotPending = errors.New("sync conflict is not pending")
)

// SyncService reconciles offline-captured gate records against the server
// state. Each record in a batch is processed independently: one bad record
// never fails the batch, and every record gets exactly one result.
type SyncService interface {
	ProcessBatch(ctx context.Context, actor *Actor, input *dto.SyncBatchInput) (*dto.SyncBatchResult, error)
	ListConflicts(ctx context.Context, actor *Actor, page, pageSize int) ([]dto.SyncConflictResponse, int64, error)
	ResolveConflict(ctx context.Context, actor *Actor, conflictID string, req *dto.ResolveConflictRequest) (*dto.SyncConflictResponse, error)
	// IgnoreConflict dismisses a pending conflict without touching either
	// side of the data.
	IgnoreConflict(ctx context.Context, actor *Actor, conflictID string) (*dto.SyncConflictResponse, error)
	ListTransactions(ctx context.Context, deviceID string, page, pageSize int) ([]dto.SyncTransactionResponse, int64, error)
}

type syncService struct {
	cfg    *config.Config
	repo   *repository.Repository
	hub    *realtime.Hub
	coord  *realtime.Coordinator
	logger *zap.Logger
}

// NewSyncService creates the SyncService.
func NewSyncService(
	cfg *config.Config,
	repo *repository.Repository,
	hub *realtime.Hub,
	coord *realtime.Coordinator,
	logger *zap.Logger,
) SyncService {
	return &syncService{
		cfg:    cfg,
		repo:   repo,
		hub:    hub,
		coord:  coord,
		logger: logger,
	}
}

func (s *syncService) ProcessBatch(ctx context.Context, actor *Actor, input *dto.SyncBatchInput) (*dto.SyncBatchResult, error) {
	if limit := s.cfg.Gate.SyncBatchLimit; limit > 0 && len(input.Records) > limit {
		return nil, ErrBatchTooLarge
	}

	// Audit row first so every result can point back at the transaction.
	tx := &model.SyncTransaction{
		UserID:           actor.UserID,
		DeviceID:         input.DeviceID,
		RecordsProcessed: len(input.Records),
		Status:           model.SyncTxFailed,
		StartedAt:        time.Now(),
	}
	if input.BatchID != "" {
		tx.BatchID = &input.BatchID
	}
	if err := s.repo.Sync.CreateTransaction(ctx, tx); err != nil {
		s.logger.Error("sync transaction create failed", zap.Error(err))
		return nil, err
	}

	// The batch-wide policy applies to every record that doesn't carry its
	// own.
	batchPolicy := model.ConflictResolutionManual
	if input.ConflictPolicy != nil {
		if p := model.ConflictResolution(*input.ConflictPolicy); p.IsValid() {
			batchPolicy = p
		}
	}

	results := make([]dto.SyncItemResult, 0, len(input.Records))
	var synced, failed, conflicted int
	for i := range input.Records {
		res := s.processRecord(ctx, actor, tx, &input.Records[i], batchPolicy)
		switch model.SyncItemStatus(res.Status) {
		case model.SyncItemSynced:
			synced++
		case model.SyncItemConflict:
			conflicted++
		default:
			failed++
		}
		results = append(results, res)
	}

	// Close the audit row.
	now := time.Now()
	tx.RecordsSuccessful = synced
	tx.RecordsFailed = failed
	tx.ConflictsDetected = conflicted
	tx.EndedAt = &now
	switch {
	case failed == 0 && conflicted == 0:
		tx.Status = model.SyncTxCompleted
	case synced > 0 || conflicted > 0:
		tx.Status = model.SyncTxPartial
	default:
		tx.Status = model.SyncTxFailed
	}
	if err := s.repo.Sync.UpdateTransaction(ctx, tx); err != nil {
		s.logger.Error("sync transaction close failed", zap.Error(err))
	}

	if synced > 0 || conflicted > 0 {
		s.hub.Publish(realtime.Event{
			Type:      "gate_check:sync_completed",
			Channel:   realtime.ChannelGateCheck,
			CompanyID: actor.CompanyID,
			OwnerID:   actor.UserID,
			Payload: map[string]interface{}{
				"batch_id": input.BatchID,
				"synced":   synced,
				"failed":   failed,
				"conflict": conflicted,
			},
		})
		s.coord.Notify(actor.CompanyID)
	}

	s.logger.Info("sync batch processed",
		zap.String("batch_id", input.BatchID),
		zap.String("device_id", input.DeviceID),
		zap.Timep("client_timestamp", input.ClientTimestamp),
		zap.Int("synced", synced),
		zap.Int("failed", failed),
		zap.Int("conflicts", conflicted))

	return &dto.SyncBatchResult{
		BatchID:       input.BatchID,
		TransactionID: tx.SyncTransactionID,
		Status:        string(tx.Status),
		SyncedCount:   synced,
		FailedCount:   failed,
		ConflictCount: conflicted,
		Results:       results,
		ProcessedAt:   now,
	}, nil
}

// processRecord reconciles one offline record. It never returns an error:
// any failure becomes a FAILED result so the batch keeps its one-result-
// per-record shape.
func (s *syncService) processRecord(ctx context.Context, actor *Actor, tx *model.SyncTransaction, rec *dto.SyncRecordInput, batchPolicy model.ConflictResolution) dto.SyncItemResult {
	op := model.SyncOperation(rec.Operation)
	if !op.IsValid() {
		return failedResult(rec.LocalID, fmt.Sprintf("unknown operation %q", rec.Operation))
	}

	existing, err := s.repo.GuestLog.GetByLocalID(ctx, actor.CompanyID, rec.LocalID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("sync lookup failed", zap.String("local_id", rec.LocalID), zap.Error(err))
		return failedResult(rec.LocalID, "server error during lookup")
	}
	found := err == nil

	// A record synced before may only carry the server id, e.g. after the
	// device wiped its local store.
	if !found && rec.ServerID != nil {
		byID, err := s.repo.GuestLog.GetByID(ctx, *rec.ServerID)
		switch {
		case err == nil && byID.CompanyID == actor.CompanyID:
			existing, found = byID, true
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			s.logger.Error("sync lookup failed", zap.String("server_id", *rec.ServerID), zap.Error(err))
			return failedResult(rec.LocalID, "server error during lookup")
		}
	}

	switch op {
	case model.SyncOpCreate:
		if found {
			// Replay of an already-synced create: idempotent success.
			return syncedResult(rec.LocalID, existing.GuestLogID, existing.Version)
		}
		return s.applyCreate(ctx, actor, tx, rec)

	case model.SyncOpUpdate:
		if !found {
			// The create never reached the server; upsert from the
			// update payload so the device converges.
			return s.applyCreate(ctx, actor, tx, rec)
		}
		return s.applyUpdate(ctx, tx, rec, existing, batchPolicy)

	case model.SyncOpDelete:
		if !found {
			return failedResult(rec.LocalID, "record not found")
		}
		if err := s.repo.GuestLog.Delete(ctx, existing.GuestLogID); err != nil {
			return failedResult(rec.LocalID, "delete failed")
		}
		return syncedResult(rec.LocalID, existing.GuestLogID, existing.Version)

	default:
		return failedResult(rec.LocalID, fmt.Sprintf("unsupported operation %q", rec.Operation))
	}
}

func (s *syncService) applyCreate(ctx context.Context, actor *Actor, tx *model.SyncTransaction, rec *dto.SyncRecordInput) dto.SyncItemResult {
	log, err := s.buildGuestLog(actor, rec)
	if err != nil {
		return failedResult(rec.LocalID, err.Error())
	}
	if err := s.repo.GuestLog.Create(ctx, log); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Two devices claimed the same identifier; neither side can
			// win automatically.
			return s.storeConflict(ctx, tx, rec, nil, model.ConflictDuplicate,
				"duplicate entry, stored for manual resolution")
		}
		s.logger.Error("sync create failed", zap.String("local_id", rec.LocalID), zap.Error(err))
		return failedResult(rec.LocalID, "create failed")
	}
	return syncedResult(rec.LocalID, log.GuestLogID, log.Version)
}

func (s *syncService) applyUpdate(ctx context.Context, tx *model.SyncTransaction, rec *dto.SyncRecordInput, existing *model.GuestLog, batchPolicy model.ConflictResolution) dto.SyncItemResult {
	// The device edited some version of this record. If the server has
	// moved past that version, the edit is a conflict and the configured
	// policy decides who wins.
	if rec.BaseVersion != 0 && rec.BaseVersion < existing.Version {
		return s.reconcileConflict(ctx, tx, rec, existing, batchPolicy)
	}

	applyRecordFields(existing, rec)
	existing.SyncStatus = model.SyncStatusSynced
	if err := s.repo.GuestLog.Update(ctx, existing); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			// Lost a concurrent race after the version check; surface it
			// the same way as a version conflict.
			return s.reconcileConflict(ctx, tx, rec, existing, batchPolicy)
		}
		return failedResult(rec.LocalID, "update failed")
	}
	return syncedResult(rec.LocalID, existing.GuestLogID, existing.Version)
}

// reconcileConflict applies the effective conflict policy. MANUAL stores
// both sides for review; the automatic policies pick a winner immediately.
// A record's own policy overrides the batch-wide one.
func (s *syncService) reconcileConflict(ctx context.Context, tx *model.SyncTransaction, rec *dto.SyncRecordInput, existing *model.GuestLog, batchPolicy model.ConflictResolution) dto.SyncItemResult {
	policy := batchPolicy
	if rec.ConflictPolicy != nil {
		p := model.ConflictResolution(*rec.ConflictPolicy)
		if p.IsValid() {
			policy = p
		}
	}

	switch policy {
	case model.ConflictResolutionLocalWins:
		return s.overwriteWithLocal(ctx, rec, existing)

	case model.ConflictResolutionRemoteWins:
		// Server stays; the device converges to the server version.
		msg := "remote version kept"
		res := syncedResult(rec.LocalID, existing.GuestLogID, existing.Version)
		res.Message = &msg
		return res

	case model.ConflictResolutionLatestWins:
		if rec.CapturedAt.After(existing.UpdatedAt) {
			return s.overwriteWithLocal(ctx, rec, existing)
		}
		msg := "remote version newer"
		res := syncedResult(rec.LocalID, existing.GuestLogID, existing.Version)
		res.Message = &msg
		return res

	default: // MANUAL
		// A client snapshot newer than the server row is a timestamp
		// disagreement; the version alone says the server should win.
		conflictType := model.ConflictVersionMismatch
		msg := "version mismatch, stored for manual resolution"
		if rec.CapturedAt.After(existing.UpdatedAt) {
			conflictType = model.ConflictTimestamp
			msg = "timestamp conflict, stored for manual resolution"
		}
		return s.storeConflict(ctx, tx, rec, existing, conflictType, msg)
	}
}

// storeConflict writes a pending SyncConflict row with both sides of the
// divergence and returns the matching per-item result. existing is nil
// when the server row is unknown (duplicate creates).
func (s *syncService) storeConflict(ctx context.Context, tx *model.SyncTransaction, rec *dto.SyncRecordInput, existing *model.GuestLog, conflictType model.ConflictType, msg string) dto.SyncItemResult {
	clientData, _ := json.Marshal(rec)
	conflict := &model.SyncConflict{
		SyncTransactionID: tx.SyncTransactionID,
		EntityType:        "guest_log",
		LocalID:           rec.LocalID,
		ConflictType:      conflictType,
		ClientData:        string(clientData),
		Status:            model.ConflictPending,
	}
	if existing != nil {
		serverData, _ := json.Marshal(existing)
		conflict.EntityID = existing.GuestLogID
		conflict.ServerData = string(serverData)
	}
	if err := s.repo.Sync.CreateConflict(ctx, conflict); err != nil {
		s.logger.Error("sync conflict store failed", zap.String("local_id", rec.LocalID), zap.Error(err))
		return failedResult(rec.LocalID, "conflict store failed")
	}
	res := dto.SyncItemResult{
		LocalID:    rec.LocalID,
		Status:     string(model.SyncItemConflict),
		Message:    &msg,
		ConflictID: &conflict.SyncConflictID,
	}
	if existing != nil {
		res.ServerID = &existing.GuestLogID
		res.Version = &existing.Version
	}
	return res
}

func (s *syncService) overwriteWithLocal(ctx context.Context, rec *dto.SyncRecordInput, existing *model.GuestLog) dto.SyncItemResult {
	applyRecordFields(existing, rec)
	existing.SyncStatus = model.SyncStatusSynced
	if err := s.repo.GuestLog.Update(ctx, existing); err != nil {
		return failedResult(rec.LocalID, "local-wins update failed")
	}
	msg := "local version applied"
	res := syncedResult(rec.LocalID, existing.GuestLogID, existing.Version)
	res.Message = &msg
	return res
}

func (s *syncService) buildGuestLog(actor *Actor, rec *dto.SyncRecordInput) (*model.GuestLog, error) {
	vehicleType := model.VehicleType(rec.VehicleType)
	if !vehicleType.IsValid() {
		return nil, fmt.Errorf("unknown vehicle type %q", rec.VehicleType)
	}
	if rec.DriverName == "" || rec.VehiclePlate == "" {
		return nil, errors.New("driver name and vehicle plate are required")
	}
	status := model.GuestLogEntry
	if rec.Status != "" {
		st := model.GuestLogStatus(rec.Status)
		if !st.IsValid() {
			return nil, fmt.Errorf("unknown status %q", rec.Status)
		}
		status = st
	}
	if rec.EntryTime != nil && rec.ExitTime != nil && !rec.ExitTime.After(*rec.EntryTime) {
		return nil, errors.New("exit time must be after entry time")
	}

	localID := rec.LocalID
	gate := rec.GatePosition
	if gate == "" {
		gate = "MAIN_GATE"
	}
	return &model.GuestLog{
		LocalID:             &localID,
		DeviceID:            actor.DeviceID,
		CompanyID:           actor.CompanyID,
		CreatedBy:           actor.UserID,
		DriverName:          rec.DriverName,
		VehiclePlate:        rec.VehiclePlate,
		VehicleType:         vehicleType,
		IDCardNumber:        rec.IDCardNumber,
		Destination:         rec.Destination,
		GatePosition:        gate,
		EntryTime:           rec.EntryTime,
		ExitTime:            rec.ExitTime,
		EntryGate:           rec.EntryGate,
		ExitGate:            rec.ExitGate,
		LoadType:            rec.LoadType,
		CargoVolume:         rec.CargoVolume,
		CargoOwner:          rec.CargoOwner,
		EstimatedWeight:     rec.EstimatedWeight,
		DeliveryOrderNumber: rec.DeliveryOrderNumber,
		SecondCargo:         rec.SecondCargo,
		PhotoPath:           rec.PhotoPath,
		Notes:               rec.Notes,
		Status:              status,
		SyncStatus:          model.SyncStatusSynced,
		VersionedModel:      model.VersionedModel{Version: 1},
	}, nil
}

// applyRecordFields copies the device's editable fields onto the server
// record. Identity fields (company, creator, local id) never change.
func applyRecordFields(log *model.GuestLog, rec *dto.SyncRecordInput) {
	if rec.DriverName != "" {
		log.DriverName = rec.DriverName
	}
	if rec.VehiclePlate != "" {
		log.VehiclePlate = rec.VehiclePlate
	}
	if vt := model.VehicleType(rec.VehicleType); rec.VehicleType != "" && vt.IsValid() {
		log.VehicleType = vt
	}
	if rec.IDCardNumber != nil {
		log.IDCardNumber = rec.IDCardNumber
	}
	if rec.Destination != nil {
		log.Destination = rec.Destination
	}
	if rec.EntryTime != nil {
		log.EntryTime = rec.EntryTime
	}
	if rec.ExitTime != nil {
		log.ExitTime = rec.ExitTime
	}
	if rec.EntryGate != nil {
		log.EntryGate = rec.EntryGate
	}
	if rec.ExitGate != nil {
		log.ExitGate = rec.ExitGate
	}
	if rec.LoadType != nil {
		log.LoadType = rec.LoadType
	}
	if rec.CargoVolume != nil {
		log.CargoVolume = rec.CargoVolume
	}
	if rec.CargoOwner != nil {
		log.CargoOwner = rec.CargoOwner
	}
	if rec.EstimatedWeight != nil {
		log.EstimatedWeight = rec.EstimatedWeight
	}
	if rec.DeliveryOrderNumber != nil {
		log.DeliveryOrderNumber = rec.DeliveryOrderNumber
	}
	if rec.SecondCargo != nil {
		log.SecondCargo = rec.SecondCargo
	}
	if rec.PhotoPath != nil {
		log.PhotoPath = rec.PhotoPath
	}
	if rec.Notes != nil {
		log.Notes = rec.Notes
	}
	if st := model.GuestLogStatus(rec.Status); rec.Status != "" && st.IsValid() {
		log.Status = st
	}
}

// ── conflict review ──

func (s *syncService) ListConflicts(ctx context.Context, actor *Actor, page, pageSize int) ([]dto.SyncConflictResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	conflicts, total, err := s.repo.Sync.ListPendingConflicts(ctx, actor.CompanyID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.SyncConflictResponse, 0, len(conflicts))
	for i := range conflicts {
		out = append(out, toConflictResponse(&conflicts[i]))
	}
	return out, total, nil
}

func (s *syncService) ResolveConflict(ctx context.Context, actor *Actor, conflictID string, req *dto.ResolveConflictRequest) (*dto.SyncConflictResponse, error) {
	resolution := model.ConflictResolution(req.Resolution)
	if !resolution.IsValid() || resolution == model.ConflictResolutionManual {
		return nil, fmt.Errorf("unknown resolution %q", req.Resolution)
	}

	conflict, err := s.repo.Sync.GetConflict(ctx, conflictID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConflictNotFound
		}
		return nil, err
	}
	if conflict.Status != model.ConflictPending {
		return nil, ErrConflictNotPending
	}

	if resolution == model.ConflictResolutionLocalWins || resolution == model.ConflictResolutionLatestWins {
		var rec dto.SyncRecordInput
		if err := json.Unmarshal([]byte(conflict.ClientData), &rec); err != nil {
			return nil, fmt.Errorf("stored client data is unreadable: %w", err)
		}
		existing, err := s.repo.GuestLog.GetByID(ctx, conflict.EntityID)
		if err != nil {
			return nil, err
		}
		if existing.CompanyID != actor.CompanyID {
			return nil, pkgerrors.ErrForbidden
		}
		if resolution == model.ConflictResolutionLocalWins || rec.CapturedAt.After(existing.UpdatedAt) {
			applyRecordFields(existing, &rec)
			if err := s.repo.GuestLog.Update(ctx, existing); err != nil {
				return nil, err
			}
		}
	}

	now := time.Now()
	conflict.Status = model.ConflictResolved
	conflict.Resolution = &resolution
	conflict.ResolvedBy = &actor.UserID
	conflict.ResolvedAt = &now
	if err := s.repo.Sync.UpdateConflict(ctx, conflict); err != nil {
		return nil, err
	}

	s.coord.Notify(actor.CompanyID)
	resp := toConflictResponse(conflict)
	return &resp, nil
}

func (s *syncService) IgnoreConflict(ctx context.Context, actor *Actor, conflictID string) (*dto.SyncConflictResponse, error) {
	conflict, err := s.repo.Sync.GetConflict(ctx, conflictID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConflictNotFound
		}
		return nil, err
	}
	if conflict.Status != model.ConflictPending {
		return nil, ErrConflictNotPending
	}
	if conflict.EntityID != "" {
		existing, err := s.repo.GuestLog.GetByID(ctx, conflict.EntityID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err == nil && existing.CompanyID != actor.CompanyID {
			return nil, pkgerrors.ErrForbidden
		}
	}

	now := time.Now()
	conflict.Status = model.ConflictIgnored
	conflict.ResolvedBy = &actor.UserID
	conflict.ResolvedAt = &now
	if err := s.repo.Sync.UpdateConflict(ctx, conflict); err != nil {
		return nil, err
	}

	resp := toConflictResponse(conflict)
	return &resp, nil
}

func (s *syncService) ListTransactions(ctx context.Context, deviceID string, page, pageSize int) ([]dto.SyncTransactionResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	txs, total, err := s.repo.Sync.ListTransactionsByDevice(ctx, deviceID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.SyncTransactionResponse, 0, len(txs))
	for i := range txs {
		tx := &txs[i]
		batchID := ""
		if tx.BatchID != nil {
			batchID = *tx.BatchID
		}
		out = append(out, dto.SyncTransactionResponse{
			ID:            tx.SyncTransactionID,
			BatchID:       batchID,
			DeviceID:      tx.DeviceID,
			UserID:        tx.UserID,
			Status:        string(tx.Status),
			RecordCount:   tx.RecordsProcessed,
			SyncedCount:   tx.RecordsSuccessful,
			FailedCount:   tx.RecordsFailed,
			ConflictCount: tx.ConflictsDetected,
			CreatedAt:     tx.StartedAt,
		})
	}
	return out, total, nil
}

func toConflictResponse(c *model.SyncConflict) dto.SyncConflictResponse {
	return dto.SyncConflictResponse{
		ID:            c.SyncConflictID,
		GuestLogID:    c.EntityID,
		LocalID:       c.LocalID,
		ConflictType:  string(c.ConflictType),
		LocalPayload:  c.ClientData,
		RemotePayload: c.ServerData,
		Status:        string(c.Status),
		ResolvedBy:    c.ResolvedBy,
		ResolvedAt:    c.ResolvedAt,
		CreatedAt:     c.CreatedAt,
	}
}

func syncedResult(localID, serverID string, version int) dto.SyncItemResult {
	res := dto.SyncItemResult{
		LocalID: localID,
		Status:  string(model.SyncItemSynced),
	}
	if serverID != "" {
		res.ServerID = &serverID
		res.Version = &version
	}
	return res
}

func failedResult(localID, message string) dto.SyncItemResult {
	return dto.SyncItemResult{
		LocalID: localID,
		Status:  string(model.SyncItemFailed),
		Message: &message,
	}
}
