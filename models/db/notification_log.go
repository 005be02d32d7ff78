package dbmodels

import "miniflow-backend/models"

// NotificationLog - результат доставки письма, пишется воркером после всех попыток
type NotificationLog struct {
	BaseModel
	Type      models.NotifyType   `gorm:"type:varchar(20);index"`
	RequestID string              `gorm:"type:varchar(36);index"`
	StepID    string              `gorm:"type:varchar(36)"`
	Recipient string              `gorm:"type:varchar(255)"`
	Subject   string              `gorm:"type:varchar(255)"`
	Attempts  int
	Status    models.NotifyStatus `gorm:"type:varchar(20);index"`
	LastError string
}
