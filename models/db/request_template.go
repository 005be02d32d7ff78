package dbmodels

type RequestTemplate struct {
	BaseModel
	Name        string `gorm:"type:varchar(255)"`
	Type        string `gorm:"type:varchar(100);index"`
	Description string
	// Schema - описание полей формы, движок согласования содержимое не интерпретирует
	Schema              JSONBMap `gorm:"type:jsonb"`
	DefaultApprovalLine JSONBMap `gorm:"type:jsonb"`
	IsActive            bool     `gorm:"index"`
	CreatedBy           string   `gorm:"type:varchar(36)"`
	Creator             *User    `gorm:"foreignKey:CreatedBy"`
}
