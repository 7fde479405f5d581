package model

import "time"

// WeighingRecord is a weighbridge ticket. Net weight is always derived as
// gross minus tare.
type WeighingRecord struct {
	WeighingRecordID string    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"weighing_record_id"`
	TicketNumber     string    `gorm:"type:varchar(50);not null;uniqueIndex"                    json:"ticket_number"`
	VehiclePlate     string    `gorm:"type:varchar(20);not null"                                json:"vehicle_plate"`
	DriverName       string    `gorm:"type:varchar(100)"                                        json:"driver_name"`
	VendorName       string    `gorm:"type:varchar(100)"                                        json:"vendor_name"`
	GrossWeight      float64   `gorm:"not null"                                                 json:"gross_weight"`
	TareWeight       float64   `gorm:"not null"                                                 json:"tare_weight"`
	NetWeight        float64   `gorm:"not null"                                                 json:"net_weight"`
	CargoType        string    `gorm:"type:varchar(50)"                                         json:"cargo_type"`
	CompanyID        string    `gorm:"type:uuid;not null;index"                                 json:"company_id"`
	WeighingTime     time.Time `gorm:"not null"                                                 json:"weighing_time"`
	BaseModel
}

// TableName maps the model to its table.
func (WeighingRecord) TableName() string { return "weighing_records" }

// ComputeNet derives and stores the net weight.
func (w *WeighingRecord) ComputeNet() {
	w.NetWeight = w.GrossWeight - w.TareWeight
}

// IsValidWeights checks the gross-covers-tare invariant.
func (w *WeighingRecord) IsValidWeights() bool {
	return w.GrossWeight >= w.TareWeight && w.TareWeight >= 0
}
