package dto

import "time"

// ── offline-sync DTOs ──

// SyncBatchInput carries a batch of offline-captured gate records from a
// device. BatchID is client-generated and used for the audit trail when
// present. ConflictPolicy is the batch-wide default; a record's own policy
// takes precedence.
type SyncBatchInput struct {
	BatchID         string            `json:"batch_id"`
	DeviceID        string            `json:"device_id" binding:"required"`
	ClientTimestamp *time.Time        `json:"client_timestamp,omitempty"`
	ConflictPolicy  *string           `json:"conflict_policy,omitempty"`
	Records         []SyncRecordInput `json:"records"   binding:"required,min=1,dive"`
}

// SyncRecordInput is a single offline record inside a batch. LocalID is the
// device-assigned identifier that makes re-submission idempotent; ServerID
// is set when the device already knows the server row from an earlier sync.
type SyncRecordInput struct {
	LocalID             string     `json:"local_id"  binding:"required"`
	ServerID            *string    `json:"server_id,omitempty"`
	Operation           string     `json:"operation" binding:"required"`
	DriverName          string     `json:"driver_name"`
	VehiclePlate        string     `json:"vehicle_plate"`
	VehicleType         string     `json:"vehicle_type"`
	IDCardNumber        *string    `json:"id_card_number,omitempty"`
	Destination         *string    `json:"destination,omitempty"`
	GatePosition        string     `json:"gate_position"`
	LoadType            *string    `json:"load_type,omitempty"`
	CargoVolume         *string    `json:"cargo_volume,omitempty"`
	CargoOwner          *string    `json:"cargo_owner,omitempty"`
	EstimatedWeight     *float64   `json:"estimated_weight,omitempty"`
	DeliveryOrderNumber *string    `json:"delivery_order_number,omitempty"`
	SecondCargo         *string    `json:"second_cargo,omitempty"`
	PhotoPath           *string    `json:"photo_path,omitempty"`
	Notes               *string    `json:"notes,omitempty"`
	EntryTime           *time.Time `json:"entry_time,omitempty"`
	ExitTime            *time.Time `json:"exit_time,omitempty"`
	EntryGate           *string    `json:"entry_gate,omitempty"`
	ExitGate            *string    `json:"exit_gate,omitempty"`
	Status              string     `json:"status"`
	BaseVersion         int        `json:"base_version"`
	CapturedAt          time.Time  `json:"captured_at" binding:"required"`
	ConflictPolicy      *string    `json:"conflict_policy,omitempty"`
}

// SyncItemResult is the per-record outcome. Every record in the batch gets
// exactly one result, in submission order.
type SyncItemResult struct {
	LocalID    string  `json:"local_id"`
	ServerID   *string `json:"server_id,omitempty"`
	Status     string  `json:"status"`
	Message    *string `json:"message,omitempty"`
	ConflictID *string `json:"conflict_id,omitempty"`
	Version    *int    `json:"version,omitempty"`
}

// SyncBatchResult summarizes a processed batch.
type SyncBatchResult struct {
	BatchID       string           `json:"batch_id"`
	TransactionID string           `json:"transaction_id"`
	Status        string           `json:"status"`
	SyncedCount   int              `json:"synced_count"`
	FailedCount   int              `json:"failed_count"`
	ConflictCount int              `json:"conflict_count"`
	Results       []SyncItemResult `json:"results"`
	ProcessedAt   time.Time        `json:"processed_at"`
}

// ResolveConflictRequest resolves a stored sync conflict.
type ResolveConflictRequest struct {
	Resolution string `json:"resolution" binding:"required"`
}

// SyncConflictResponse is the wire shape of a pending conflict with both
// sides of the divergence for manual review.
type SyncConflictResponse struct {
	ID            string     `json:"id"`
	GuestLogID    string     `json:"guest_log_id"`
	LocalID       string     `json:"local_id"`
	ConflictType  string     `json:"conflict_type"`
	LocalPayload  string     `json:"local_payload"`
	RemotePayload string     `json:"remote_payload"`
	Status        string     `json:"status"`
	ResolvedBy    *string    `json:"resolved_by,omitempty"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// SyncTransactionResponse is an audit-trail entry for a processed batch.
type SyncTransactionResponse struct {
	ID            string    `json:"id"`
	BatchID       string    `json:"batch_id"`
	DeviceID      string    `json:"device_id"`
	UserID        string    `json:"user_id"`
	Status        string    `json:"status"`
	RecordCount   int       `json:"record_count"`
	SyncedCount   int       `json:"synced_count"`
	FailedCount   int       `json:"failed_count"`
	ConflictCount int       `json:"conflict_count"`
	CreatedAt     time.Time `json:"created_at"`
}
