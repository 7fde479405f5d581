package model

// User is an estate staff account.
type User struct {
	UserID       string  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string  `gorm:"type:varchar(100);not null"                               json:"name"`
	Email        string  `gorm:"type:varchar(255);not null"                               json:"email"`
	NIK          *string `gorm:"column:nik;type:varchar(50)"                              json:"nik,omitempty"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                               json:"-"`
	Role         Role    `gorm:"type:varchar(20);not null"                                json:"role"`
	CompanyID    string  `gorm:"type:uuid;not null"                                       json:"company_id"`
	IsActive     bool    `gorm:"not null;default:true"                                    json:"is_active"`
	SoftDeleteModel

	Company *Company `gorm:"foreignKey:CompanyID;references:CompanyID" json:"company,omitempty"`
}

// TableName maps the model to its table.
func (User) TableName() string { return "users" }
