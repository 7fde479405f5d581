package dto

import (
	"time"

	"sawit-ops/backend/internal/model"
)

// ── gate-check DTOs ──

// CreateGuestLogRequest registers a vehicle at the gate.
type CreateGuestLogRequest struct {
	DriverName          string   `json:"driver_name"   binding:"required,min=2,max=255"`
	VehiclePlate        string   `json:"vehicle_plate" binding:"required,min=3,max=20"`
	VehicleType         string   `json:"vehicle_type"  binding:"required"`
	IDCardNumber        *string  `json:"id_card_number,omitempty"`
	Destination         *string  `json:"destination,omitempty"`
	GatePosition        string   `json:"gate_position"`
	DeviceID            string   `json:"device_id" binding:"required"`
	LoadType            *string  `json:"load_type,omitempty"`
	CargoVolume         *string  `json:"cargo_volume,omitempty"`
	CargoOwner          *string  `json:"cargo_owner,omitempty"`
	EstimatedWeight     *float64 `json:"estimated_weight,omitempty"`
	DeliveryOrderNumber *string  `json:"delivery_order_number,omitempty"`
	SecondCargo         *string  `json:"second_cargo,omitempty"`
	PhotoPath           *string  `json:"photo_path,omitempty"`
	Notes               *string  `json:"notes,omitempty"`
	Latitude            *float64 `json:"latitude,omitempty"`
	Longitude           *float64 `json:"longitude,omitempty"`
}

// ProcessExitRequest closes a guest log at the exit gate.
type ProcessExitRequest struct {
	GuestLogID string  `json:"guest_log_id" binding:"required,uuid"`
	ExitGate   string  `json:"exit_gate"`
	QRTokenJTI *string `json:"qr_token_jti,omitempty"`
	DeviceID   string  `json:"device_id" binding:"required"`
}

// ProcessExitResponse reports the exit outcome.
type ProcessExitResponse struct {
	GuestLog    *GuestLogResponse `json:"guest_log"`
	WasOverstay bool              `json:"was_overstay"`
}

// GuestLogResponse is the wire shape of a guest log. DurationLabel carries
// the human duration; a vehicle without an entry timestamp renders the
// "just arrived" sentinel rather than a negative value.
type GuestLogResponse struct {
	ID                  string     `json:"id"`
	LocalID             *string    `json:"local_id,omitempty"`
	DriverName          string     `json:"driver_name"`
	VehiclePlate        string     `json:"vehicle_plate"`
	VehicleType         string     `json:"vehicle_type"`
	Destination         *string    `json:"destination,omitempty"`
	GatePosition        string     `json:"gate_position"`
	EntryTime           *time.Time `json:"entry_time,omitempty"`
	ExitTime            *time.Time `json:"exit_time,omitempty"`
	EntryGate           *string    `json:"entry_gate,omitempty"`
	ExitGate            *string    `json:"exit_gate,omitempty"`
	LoadType            *string    `json:"load_type,omitempty"`
	CargoOwner          *string    `json:"cargo_owner,omitempty"`
	DeliveryOrderNumber *string    `json:"delivery_order_number,omitempty"`
	SecondCargo         *string    `json:"second_cargo,omitempty"`
	PhotoURL            *string    `json:"photo_url,omitempty"`
	Status              string     `json:"status"`
	SyncStatus          string     `json:"sync_status"`
	DurationLabel       string     `json:"duration_label"`
	IsOverstay          bool       `json:"is_overstay"`
	Version             int        `json:"version"`
	CreatedAt           time.Time  `json:"created_at"`
}

// GuestLogListFilters narrows guest-log listings.
type GuestLogListFilters struct {
	Status      *model.GuestLogStatus `form:"status"`
	VehicleType *model.VehicleType    `form:"vehicle_type"`
	DateFrom    *time.Time            `form:"date_from" time_format:"2006-01-02"`
	DateTo      *time.Time            `form:"date_to"   time_format:"2006-01-02"`
	Search      string                `form:"search"`
	Page        int                   `form:"page,default=1"`
	PageSize    int                   `form:"page_size,default=20"`
}

// GenerateQRTokenRequest issues a gate pass for a guest log.
type GenerateQRTokenRequest struct {
	GuestLogID    string `json:"guest_log_id" binding:"required,uuid"`
	Intent        string `json:"intent"        binding:"required"`
	DeviceID      string `json:"device_id"     binding:"required"`
	ExpiryMinutes int    `json:"expiry_minutes"`
}

// QRTokenResponse is the wire shape of an issued gate pass.
type QRTokenResponse struct {
	ID          string    `json:"id"`
	JTI         string    `json:"jti"`
	GuestLogID  *string   `json:"guest_log_id,omitempty"`
	Intent      string    `json:"intent"`
	AllowedScan string    `json:"allowed_scan"`
	Status      string    `json:"status"`
	ExpiresAt   time.Time `json:"expires_at"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ValidateQRTokenRequest validates a scanned pass for an intent.
type ValidateQRTokenRequest struct {
	JTI      string `json:"jti"       binding:"required"`
	Intent   string `json:"intent"    binding:"required"`
	DeviceID string `json:"device_id" binding:"required"`
}

// ValidateQRTokenResponse reports whether the scan is allowed.
type ValidateQRTokenResponse struct {
	Valid    bool              `json:"valid"`
	Reason   *string           `json:"reason,omitempty"`
	Token    *QRTokenResponse  `json:"token,omitempty"`
	GuestLog *GuestLogResponse `json:"guest_log,omitempty"`
}
