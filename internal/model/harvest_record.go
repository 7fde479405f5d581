package model

import "time"

// HarvestRecord is a mandor's daily TBS harvest entry for one worker on one
// block, with per-category bunch counts used for quality review.
type HarvestRecord struct {
	HarvestRecordID string  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"harvest_record_id"`
	LocalID         *string `gorm:"type:varchar(255)"                                        json:"local_id,omitempty"`
	DeviceID        *string `gorm:"type:varchar(255)"                                        json:"device_id,omitempty"`

	Tanggal   time.Time `gorm:"type:date;not null;index" json:"tanggal"`
	MandorID  string    `gorm:"type:uuid;not null;index" json:"mandor_id"`
	BlockID   string    `gorm:"type:uuid;not null"       json:"block_id"`
	CompanyID string    `gorm:"type:uuid;not null"       json:"company_id"`
	Karyawan  string    `gorm:"type:varchar(255);not null" json:"karyawan"`
	NIK       *string   `gorm:"column:nik;type:varchar(50)" json:"nik,omitempty"`

	BeratTbs      float64 `gorm:"not null;default:0" json:"berat_tbs"`
	JumlahJanjang int     `gorm:"not null;default:0" json:"jumlah_janjang"`

	// Bunch quality categories.
	JjgMatang         int     `gorm:"not null;default:0" json:"jjg_matang"`
	JjgMentah         int     `gorm:"not null;default:0" json:"jjg_mentah"`
	JjgLewatMatang    int     `gorm:"not null;default:0" json:"jjg_lewat_matang"`
	JjgBusukAbnormal  int     `gorm:"not null;default:0" json:"jjg_busuk_abnormal"`
	JjgTangkaiPanjang int     `gorm:"not null;default:0" json:"jjg_tangkai_panjang"`
	TotalBrondolan    float64 `gorm:"not null;default:0" json:"total_brondolan"`

	Status         HarvestStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	ApprovedBy     *string       `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt     *time.Time    `json:"approved_at,omitempty"`
	RejectedReason *string       `gorm:"type:text" json:"rejected_reason,omitempty"`

	Notes     *string  `gorm:"type:text" json:"notes,omitempty"`
	PhotoPath *string  `gorm:"type:text" json:"photo_path,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	SyncStatus SyncStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"sync_status"`
	Version    int        `gorm:"not null;default:1" json:"version"`
	CreatedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Mandor *User  `gorm:"foreignKey:MandorID;references:UserID" json:"mandor,omitempty"`
	Block  *Block `gorm:"foreignKey:BlockID;references:BlockID" json:"block,omitempty"`
}

// TableName maps the model to its table.
func (HarvestRecord) TableName() string { return "harvest_records" }

// CategoryTotal sums the per-category bunch counts.
func (h *HarvestRecord) CategoryTotal() int {
	return h.JjgMatang + h.JjgMentah + h.JjgLewatMatang + h.JjgBusukAbnormal + h.JjgTangkaiPanjang
}

// HasQuantities reports whether at least one category quantity is non-zero.
// A record with all categories zero is not submittable.
func (h *HarvestRecord) HasQuantities() bool {
	return h.CategoryTotal() > 0
}

// IsPending reports whether the record still awaits review.
func (h *HarvestRecord) IsPending() bool { return h.Status == HarvestPending }

// Approve stamps the approval.
func (h *HarvestRecord) Approve(approverID string) {
	now := time.Now()
	h.Status = HarvestApproved
	h.ApprovedBy = &approverID
	h.ApprovedAt = &now
}

// Reject stamps the rejection with a reason.
func (h *HarvestRecord) Reject(reason string) {
	h.Status = HarvestRejected
	h.RejectedReason = &reason
}
