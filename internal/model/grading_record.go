package model

import "time"

// GradingRecord is a quality grading assessment tied to a harvest record.
type GradingRecord struct {
	GradingRecordID      string        `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"grading_record_id"`
	HarvestRecordID      string        `gorm:"type:uuid;not null;index"                                 json:"harvest_record_id"`
	GraderID             string        `gorm:"type:uuid;not null"                                       json:"grader_id"`
	QualityScore         int           `gorm:"not null"                                                 json:"quality_score"`
	MaturityLevel        MaturityLevel `gorm:"type:varchar(20);not null"                                json:"maturity_level"`
	BrondolanPercentage  float64       `gorm:"not null;default:0"                                       json:"brondolan_percentage"`
	LooseFruitPercentage float64       `gorm:"not null;default:0"                                       json:"loose_fruit_percentage"`
	DirtPercentage       float64       `gorm:"not null;default:0"                                       json:"dirt_percentage"`
	GradingNotes         *string       `gorm:"type:text"                                                json:"grading_notes,omitempty"`
	GradingDate          time.Time     `gorm:"not null"                                                 json:"grading_date"`
	IsApproved           bool          `gorm:"not null;default:false"                                   json:"is_approved"`
	ApprovedBy           *string       `gorm:"type:uuid"                                                json:"approved_by,omitempty"`
	ApprovedAt           *time.Time    `json:"approved_at,omitempty"`
	RejectionReason      *string       `gorm:"type:text"                                                json:"rejection_reason,omitempty"`
	BaseModel
}

// TableName maps the model to its table.
func (GradingRecord) TableName() string { return "grading_records" }

// Validate checks the score and percentage invariants.
func (g *GradingRecord) Validate() bool {
	if g.QualityScore < 0 || g.QualityScore > 100 {
		return false
	}
	if !g.MaturityLevel.IsValid() {
		return false
	}
	total := g.BrondolanPercentage + g.LooseFruitPercentage + g.DirtPercentage
	return total >= 0 && total <= 100
}

// CanBeUpdated reports whether the grading is still editable.
func (g *GradingRecord) CanBeUpdated() bool { return !g.IsApproved }

// Approve stamps the approval.
func (g *GradingRecord) Approve(approverID string) {
	now := time.Now()
	g.IsApproved = true
	g.ApprovedBy = &approverID
	g.ApprovedAt = &now
}
