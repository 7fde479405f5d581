package model

import "time"

// QRToken is a single-use gate pass. A token generated for one intent may
// only be scanned for the opposite direction (an entry pass is scanned at
// exit and vice versa).
type QRToken struct {
	QRTokenID     string        `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"qr_token_id"`
	JTI           string        `gorm:"column:jti;type:varchar(64);not null;unique"              json:"jti"`
	CompanyID     string        `gorm:"type:uuid;not null"                                       json:"company_id"`
	GuestLogID    *string       `gorm:"type:uuid"                                                json:"guest_log_id,omitempty"`
	GeneratedBy   string        `gorm:"type:uuid;not null"                                       json:"generated_by"`
	Intent        GateIntent    `gorm:"type:varchar(10);not null"                                json:"intent"`
	AllowedScan   GateIntent    `gorm:"type:varchar(10);not null"                                json:"allowed_scan"`
	Status        QRTokenStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"               json:"status"`
	UsageCount    int           `gorm:"not null;default:0"                                       json:"usage_count"`
	MaxUsage      int           `gorm:"not null;default:1"                                       json:"max_usage"`
	DeviceID      string        `gorm:"type:varchar(255);not null"                               json:"device_id"`
	ScannedDevice *string       `gorm:"type:varchar(255)"                                        json:"scanned_device,omitempty"`
	ExpiresAt     time.Time     `gorm:"not null;index"                                           json:"expires_at"`
	GeneratedAt   time.Time     `gorm:"not null"                                                 json:"generated_at"`
	FirstUsedAt   *time.Time    `json:"first_used_at,omitempty"`
	LastUsedAt    *time.Time    `json:"last_used_at,omitempty"`
	BaseModel
}

// TableName maps the model to its table.
func (QRToken) TableName() string { return "qr_tokens" }

// IsExpired reports whether the token is past its expiry.
func (q *QRToken) IsExpired() bool {
	return time.Now().After(q.ExpiresAt)
}

// CanBeUsed reports whether the token is still usable at all.
func (q *QRToken) CanBeUsed() bool {
	return q.Status == QRTokenActive && !q.IsExpired() && q.UsageCount < q.MaxUsage
}

// CanBeUsedFor additionally checks the scan direction against the token's
// allowed intent.
func (q *QRToken) CanBeUsedFor(intent GateIntent) bool {
	return q.CanBeUsed() && q.AllowedScan == intent
}

// MarkUsed consumes one usage on behalf of the scanning device.
func (q *QRToken) MarkUsed(deviceID string) {
	now := time.Now()
	q.UsageCount++
	q.ScannedDevice = &deviceID
	if q.FirstUsedAt == nil {
		q.FirstUsedAt = &now
	}
	q.LastUsedAt = &now
	if q.UsageCount >= q.MaxUsage {
		q.Status = QRTokenUsed
	}
}
