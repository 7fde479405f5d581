package dto

import "time"

// ── harvest DTOs ──

// CreateHarvestRequest records one worker's TBS harvest for a block on a
// date. At least one bunch-category quantity must be non-zero.
type CreateHarvestRequest struct {
	Tanggal           time.Time `json:"tanggal"  binding:"required" time_format:"2006-01-02"`
	BlockID           string    `json:"block_id" binding:"required,uuid"`
	Karyawan          string    `json:"karyawan" binding:"required,min=2,max=255"`
	NIK               *string   `json:"nik,omitempty"`
	BeratTbs          float64   `json:"berat_tbs"           binding:"min=0"`
	JumlahJanjang     int       `json:"jumlah_janjang"      binding:"min=0"`
	JjgMatang         int       `json:"jjg_matang"          binding:"min=0"`
	JjgMentah         int       `json:"jjg_mentah"          binding:"min=0"`
	JjgLewatMatang    int       `json:"jjg_lewat_matang"    binding:"min=0"`
	JjgBusukAbnormal  int       `json:"jjg_busuk_abnormal"  binding:"min=0"`
	JjgTangkaiPanjang int       `json:"jjg_tangkai_panjang" binding:"min=0"`
	TotalBrondolan    float64   `json:"total_brondolan"     binding:"min=0"`
	Notes             *string   `json:"notes,omitempty"`
	PhotoPath         *string   `json:"photo_path,omitempty"`
	Latitude          *float64  `json:"latitude,omitempty"`
	Longitude         *float64  `json:"longitude,omitempty"`
	LocalID           *string   `json:"local_id,omitempty"`
	DeviceID          *string   `json:"device_id,omitempty"`
}

// UpdateHarvestRequest amends a pending harvest record. Only provided
// fields are changed.
type UpdateHarvestRequest struct {
	Karyawan          *string  `json:"karyawan,omitempty"`
	BeratTbs          *float64 `json:"berat_tbs,omitempty"`
	JumlahJanjang     *int     `json:"jumlah_janjang,omitempty"`
	JjgMatang         *int     `json:"jjg_matang,omitempty"`
	JjgMentah         *int     `json:"jjg_mentah,omitempty"`
	JjgLewatMatang    *int     `json:"jjg_lewat_matang,omitempty"`
	JjgBusukAbnormal  *int     `json:"jjg_busuk_abnormal,omitempty"`
	JjgTangkaiPanjang *int     `json:"jjg_tangkai_panjang,omitempty"`
	TotalBrondolan    *float64 `json:"total_brondolan,omitempty"`
	Notes             *string  `json:"notes,omitempty"`
}

// RejectHarvestRequest rejects a submitted harvest record with a reason.
type RejectHarvestRequest struct {
	Reason string `json:"reason" binding:"required,min=3"`
}

// HarvestResponse is the wire shape of a harvest record.
type HarvestResponse struct {
	ID                string     `json:"id"`
	Tanggal           time.Time  `json:"tanggal"`
	BlockID           string     `json:"block_id"`
	BlockName         string     `json:"block_name,omitempty"`
	MandorID          string     `json:"mandor_id"`
	MandorName        string     `json:"mandor_name,omitempty"`
	Karyawan          string     `json:"karyawan"`
	NIK               *string    `json:"nik,omitempty"`
	BeratTbs          float64    `json:"berat_tbs"`
	JumlahJanjang     int        `json:"jumlah_janjang"`
	JjgMatang         int        `json:"jjg_matang"`
	JjgMentah         int        `json:"jjg_mentah"`
	JjgLewatMatang    int        `json:"jjg_lewat_matang"`
	JjgBusukAbnormal  int        `json:"jjg_busuk_abnormal"`
	JjgTangkaiPanjang int        `json:"jjg_tangkai_panjang"`
	TotalBrondolan    float64    `json:"total_brondolan"`
	EstimatedWeight   float64    `json:"estimated_weight_kg"`
	Status            string     `json:"status"`
	ApprovedBy        *string    `json:"approved_by,omitempty"`
	ApprovedAt        *time.Time `json:"approved_at,omitempty"`
	RejectedReason    *string    `json:"rejected_reason,omitempty"`
	PhotoURL          *string    `json:"photo_url,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
	SyncStatus        string     `json:"sync_status"`
	CreatedAt         time.Time  `json:"created_at"`
}

// HarvestListFilters narrows harvest listings.
type HarvestListFilters struct {
	BlockID  *string    `form:"block_id"`
	MandorID *string    `form:"mandor_id"`
	Status   *string    `form:"status"`
	DateFrom *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo   *time.Time `form:"date_to"   time_format:"2006-01-02"`
	Page     int        `form:"page,default=1"`
	PageSize int        `form:"page_size,default=20"`
}

// HarvestEstimateRequest converts bunch counts to tonnage for a block.
type HarvestEstimateRequest struct {
	BlockID       string `json:"block_id"       binding:"required,uuid"`
	JumlahJanjang int    `json:"jumlah_janjang" binding:"required,gt=0"`
}

// HarvestEstimateResponse carries the BJR-based weight estimate.
type HarvestEstimateResponse struct {
	BlockID           string  `json:"block_id"`
	BJR               float64 `json:"bjr"`
	JumlahJanjang     int     `json:"jumlah_janjang"`
	EstimatedWeightKg float64 `json:"estimated_weight_kg"`
}

// HarvestStatistics aggregates harvest output over a period.
type HarvestStatistics struct {
	PeriodStart      time.Time `json:"period_start"`
	PeriodEnd        time.Time `json:"period_end"`
	TotalRecords     int64     `json:"total_records"`
	TotalJanjang     int64     `json:"total_janjang"`
	TotalBeratTbs    float64   `json:"total_berat_tbs"`
	TotalBrondolan   float64   `json:"total_brondolan"`
	PendingApprovals int64     `json:"pending_approvals"`
	ApprovedRecords  int64     `json:"approved_records"`
	RejectedRecords  int64     `json:"rejected_records"`
	ActiveBlocks     int64     `json:"active_blocks"`
}
