package model

// Block is a planted estate block. BJR (bunch yield ratio, kg per bunch) is
// the conversion factor used to estimate TBS weight from bunch counts.
type Block struct {
	BlockID      string  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"block_id"`
	CompanyID    string  `gorm:"type:uuid;not null"                                       json:"company_id"`
	BlockCode    string  `gorm:"type:varchar(50);not null"                                json:"block_code"`
	Name         string  `gorm:"type:varchar(255);not null"                               json:"name"`
	AreaHectares float64 `gorm:"not null;default:0"                                       json:"area_hectares"`
	BJR          float64 `gorm:"column:bjr;not null;default:0"                            json:"bjr"`
	PlantingYear *int    `json:"planting_year,omitempty"`
	BaseModel

	Company *Company `gorm:"foreignKey:CompanyID;references:CompanyID" json:"company,omitempty"`
}

// TableName maps the model to its table.
func (Block) TableName() string { return "blocks" }

// EstimateWeight converts a bunch count to estimated kilograms using the
// block's BJR. Zero BJR means no estimate.
func (b *Block) EstimateWeight(bunchCount int) float64 {
	if b.BJR <= 0 || bunchCount <= 0 {
		return 0
	}
	return float64(bunchCount) * b.BJR
}
