package model

import "time"

// SyncTransactionStatus is the overall outcome of a sync batch.
type SyncTransactionStatus string

const (
	SyncTxCompleted SyncTransactionStatus = "COMPLETED"
	SyncTxPartial   SyncTransactionStatus = "PARTIAL"
	SyncTxFailed    SyncTransactionStatus = "FAILED"
)

// SyncTransaction is the audit row written for every device sync batch.
type SyncTransaction struct {
	SyncTransactionID string                `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"sync_transaction_id"`
	UserID            string                `gorm:"type:uuid;not null"               json:"user_id"`
	DeviceID          string                `gorm:"type:varchar(255);not null;index" json:"device_id"`
	BatchID           *string               `gorm:"type:varchar(255)"                json:"batch_id,omitempty"`
	RecordsProcessed  int                   `gorm:"not null;default:0"               json:"records_processed"`
	RecordsSuccessful int                   `gorm:"not null;default:0"               json:"records_successful"`
	RecordsFailed     int                   `gorm:"not null;default:0"               json:"records_failed"`
	ConflictsDetected int                   `gorm:"not null;default:0"               json:"conflicts_detected"`
	Status            SyncTransactionStatus `gorm:"type:varchar(20);not null"        json:"status"`
	StartedAt         time.Time             `gorm:"not null"                         json:"started_at"`
	EndedAt           *time.Time            `json:"ended_at,omitempty"`
}

// TableName maps the model to its table.
func (SyncTransaction) TableName() string { return "sync_transactions" }

// ConflictType classifies why a sync item conflicted.
type ConflictType string

const (
	ConflictVersionMismatch ConflictType = "VERSION_MISMATCH"
	ConflictTimestamp       ConflictType = "TIMESTAMP_CONFLICT"
	ConflictDuplicate       ConflictType = "DUPLICATE_ENTRY"
)

// ConflictStatus is the lifecycle of a stored conflict.
type ConflictStatus string

const (
	ConflictPending  ConflictStatus = "PENDING"
	ConflictResolved ConflictStatus = "RESOLVED"
	ConflictIgnored  ConflictStatus = "IGNORED"
)

// SyncConflict stores both sides of a detected sync conflict for manual
// resolution.
type SyncConflict struct {
	SyncConflictID    string              `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"sync_conflict_id"`
	SyncTransactionID string              `gorm:"type:uuid;not null"        json:"sync_transaction_id"`
	EntityType        string              `gorm:"type:varchar(50);not null" json:"entity_type"`
	EntityID          string              `gorm:"type:varchar(255);not null" json:"entity_id"`
	LocalID           string              `gorm:"type:varchar(255);not null" json:"local_id"`
	ConflictType      ConflictType        `gorm:"type:varchar(30);not null" json:"conflict_type"`
	ServerData        string              `gorm:"type:jsonb"                json:"server_data"`
	ClientData        string              `gorm:"type:jsonb"                json:"client_data"`
	Status            ConflictStatus      `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Resolution        *ConflictResolution `gorm:"type:varchar(20)"          json:"resolution,omitempty"`
	ResolvedBy        *string             `gorm:"type:uuid"                 json:"resolved_by,omitempty"`
	ResolvedAt        *time.Time          `json:"resolved_at,omitempty"`
	BaseModel
}

// TableName maps the model to its table.
func (SyncConflict) TableName() string { return "sync_conflicts" }
