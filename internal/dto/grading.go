package dto

import "time"

// ── grading DTOs ──

// CreateGradingRequest records a quality grading for a harvest record.
type CreateGradingRequest struct {
	HarvestRecordID      string     `json:"harvest_record_id" binding:"required,uuid"`
	QualityScore         int        `json:"quality_score"     binding:"min=0,max=100"`
	MaturityLevel        string     `json:"maturity_level"    binding:"required"`
	BrondolanPercentage  float64    `json:"brondolan_percentage"   binding:"min=0,max=100"`
	LooseFruitPercentage float64    `json:"loose_fruit_percentage" binding:"min=0,max=100"`
	DirtPercentage       float64    `json:"dirt_percentage"        binding:"min=0,max=100"`
	GradingNotes         *string    `json:"grading_notes,omitempty"`
	GradingDate          *time.Time `json:"grading_date,omitempty"`
}

// UpdateGradingRequest amends a grading that has not been approved. Only
// provided fields are changed.
type UpdateGradingRequest struct {
	QualityScore         *int     `json:"quality_score,omitempty"`
	MaturityLevel        *string  `json:"maturity_level,omitempty"`
	BrondolanPercentage  *float64 `json:"brondolan_percentage,omitempty"`
	LooseFruitPercentage *float64 `json:"loose_fruit_percentage,omitempty"`
	DirtPercentage       *float64 `json:"dirt_percentage,omitempty"`
	GradingNotes         *string  `json:"grading_notes,omitempty"`
}

// GradingResponse is the wire shape of a grading record.
type GradingResponse struct {
	ID                   string     `json:"id"`
	HarvestRecordID      string     `json:"harvest_record_id"`
	GraderID             string     `json:"grader_id"`
	QualityScore         int        `json:"quality_score"`
	MaturityLevel        string     `json:"maturity_level"`
	BrondolanPercentage  float64    `json:"brondolan_percentage"`
	LooseFruitPercentage float64    `json:"loose_fruit_percentage"`
	DirtPercentage       float64    `json:"dirt_percentage"`
	GradingNotes         *string    `json:"grading_notes,omitempty"`
	GradingDate          time.Time  `json:"grading_date"`
	IsApproved           bool       `json:"is_approved"`
	ApprovedBy           *string    `json:"approved_by,omitempty"`
	ApprovedAt           *time.Time `json:"approved_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}
