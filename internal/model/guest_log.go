package model

import "time"

// GuestLog is a vehicle gate entry/exit record created at a security
// checkpoint, either online or replayed later through the device sync batch.
type GuestLog struct {
	GuestLogID   string      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"guest_log_id"`
	LocalID      *string     `gorm:"type:varchar(255)"                                        json:"local_id,omitempty"`
	DeviceID     string      `gorm:"type:varchar(255);not null;index"                         json:"device_id"`
	CompanyID    string      `gorm:"type:uuid;not null"                                       json:"company_id"`
	CreatedBy    string      `gorm:"type:uuid;not null"                                       json:"created_by"`
	DriverName   string      `gorm:"type:varchar(255);not null"                               json:"driver_name"`
	VehiclePlate string      `gorm:"type:varchar(20);not null"                                json:"vehicle_plate"`
	VehicleType  VehicleType `gorm:"type:varchar(20);not null"                                json:"vehicle_type"`
	IDCardNumber *string     `gorm:"type:varchar(50)"                                         json:"id_card_number,omitempty"`
	Destination  *string     `gorm:"type:varchar(255)"                                        json:"destination,omitempty"`
	GatePosition string      `gorm:"type:varchar(50);not null;default:'MAIN_GATE'"            json:"gate_position"`

	EntryTime *time.Time `gorm:"index" json:"entry_time,omitempty"`
	ExitTime  *time.Time `json:"exit_time,omitempty"`
	EntryGate *string    `gorm:"type:varchar(50)" json:"entry_gate,omitempty"`
	ExitGate  *string    `gorm:"type:varchar(50)" json:"exit_gate,omitempty"`

	// Cargo details recorded by the satpam at validation.
	LoadType            *string  `gorm:"type:varchar(100)" json:"load_type,omitempty"`
	CargoVolume         *string  `gorm:"type:varchar(50)"  json:"cargo_volume,omitempty"`
	CargoOwner          *string  `gorm:"type:varchar(255)" json:"cargo_owner,omitempty"`
	EstimatedWeight     *float64 `json:"estimated_weight,omitempty"`
	DeliveryOrderNumber *string  `gorm:"type:varchar(255)" json:"delivery_order_number,omitempty"`
	SecondCargo         *string  `gorm:"type:varchar(255)" json:"second_cargo,omitempty"`

	PhotoPath *string  `gorm:"type:text" json:"photo_path,omitempty"`
	Notes     *string  `gorm:"type:text" json:"notes,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	Status     GuestLogStatus `gorm:"type:varchar(20);not null;default:'ENTRY'"   json:"status"`
	SyncStatus SyncStatus     `gorm:"type:varchar(20);not null;default:'PENDING'" json:"sync_status"`
	VersionedModel

	Company     *Company `gorm:"foreignKey:CompanyID;references:CompanyID" json:"company,omitempty"`
	CreatedUser *User    `gorm:"foreignKey:CreatedBy;references:UserID"    json:"created_user,omitempty"`
}

// TableName maps the model to its table.
func (GuestLog) TableName() string { return "guest_logs" }

// IsInside reports whether the vehicle has entered but not yet exited.
func (g *GuestLog) IsInside() bool {
	return g.EntryTime != nil && g.ExitTime == nil
}

// MarkEntry stamps the entry time and gate.
func (g *GuestLog) MarkEntry(gate string) {
	now := time.Now()
	g.EntryTime = &now
	g.EntryGate = &gate
	g.Status = GuestLogEntry
}

// MarkExit stamps the exit time and gate and closes the visit.
func (g *GuestLog) MarkExit(gate string) {
	now := time.Now()
	g.ExitTime = &now
	g.ExitGate = &gate
	g.Status = GuestLogExit
}

// Duration returns the time spent inside, or nil before exit.
func (g *GuestLog) Duration() *time.Duration {
	if g.EntryTime == nil || g.ExitTime == nil {
		return nil
	}
	d := g.ExitTime.Sub(*g.EntryTime)
	return &d
}

// IsOverstay reports whether an inside vehicle has exceeded the threshold.
func (g *GuestLog) IsOverstay(threshold time.Duration) bool {
	if !g.IsInside() {
		return false
	}
	return time.Since(*g.EntryTime) > threshold
}

// ValidateTimes checks the exit-after-entry invariant.
func (g *GuestLog) ValidateTimes() bool {
	if g.EntryTime == nil || g.ExitTime == nil {
		return true
	}
	return g.ExitTime.After(*g.EntryTime)
}
