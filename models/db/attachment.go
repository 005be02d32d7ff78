package dbmodels

type Attachment struct {
	BaseModel
	RequestID    string           `gorm:"type:varchar(36);index"`
	Request      *ApprovalRequest `gorm:"foreignKey:RequestID"`
	UploaderID   string           `gorm:"type:varchar(36)"`
	Uploader     *User            `gorm:"foreignKey:UploaderID"`
	OriginalName string           `gorm:"type:varchar(255)"`
	ContentType  string           `gorm:"type:varchar(255)"`
	Size         int64
	// ObjectKey - ключ объекта в S3 бакете
	ObjectKey string `gorm:"type:varchar(255)"`
}
