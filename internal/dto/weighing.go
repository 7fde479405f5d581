package dto

import "time"

// ── weighing DTOs ──

// CreateWeighingRequest records a weighbridge ticket. Gross must cover
// tare; net weight is derived server-side.
type CreateWeighingRequest struct {
	TicketNumber string     `json:"ticket_number" binding:"required,max=50"`
	VehiclePlate string     `json:"vehicle_plate" binding:"required,min=3,max=20"`
	DriverName   string     `json:"driver_name"`
	VendorName   string     `json:"vendor_name"`
	GrossWeight  float64    `json:"gross_weight" binding:"required,gt=0"`
	TareWeight   float64    `json:"tare_weight"  binding:"required,gt=0"`
	CargoType    string     `json:"cargo_type"`
	WeighingTime *time.Time `json:"weighing_time,omitempty"`
}

// WeighingResponse is the wire shape of a weighbridge record.
type WeighingResponse struct {
	ID           string    `json:"id"`
	TicketNumber string    `json:"ticket_number"`
	VehiclePlate string    `json:"vehicle_plate"`
	DriverName   string    `json:"driver_name,omitempty"`
	VendorName   string    `json:"vendor_name,omitempty"`
	GrossWeight  float64   `json:"gross_weight"`
	TareWeight   float64   `json:"tare_weight"`
	NetWeight    float64   `json:"net_weight"`
	CargoType    string    `json:"cargo_type,omitempty"`
	WeighingTime time.Time `json:"weighing_time"`
	CreatedAt    time.Time `json:"created_at"`
}

// WeighingListFilters narrows weighing listings.
type WeighingListFilters struct {
	VehiclePlate *string    `form:"vehicle_plate"`
	CargoType    *string    `form:"cargo_type"`
	DateFrom     *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo       *time.Time `form:"date_to"   time_format:"2006-01-02"`
	Page         int        `form:"page,default=1"`
	PageSize     int        `form:"page_size,default=20"`
}
