package model

// Company is an estate operating company.
type Company struct {
	CompanyID   string `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"company_id"`
	Name        string `gorm:"type:varchar(255);not null"                               json:"name"`
	CompanyCode string `gorm:"type:varchar(50);not null;unique"                         json:"company_code"`
	BaseModel
}

// TableName maps the model to its table.
func (Company) TableName() string { return "companies" }
