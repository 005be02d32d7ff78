package dbmodels

import (
	"time"

	"miniflow-backend/models"
)

type ApprovalStep struct {
	BaseModel
	RequestID  string           `gorm:"type:varchar(36);index;uniqueIndex:idx_request_step_order"`
	Request    *ApprovalRequest `gorm:"foreignKey:RequestID"`
	ApproverID string           `gorm:"type:varchar(36);index:idx_approver_status"`
	Approver   *User            `gorm:"foreignKey:ApproverID"`
	StepOrder  int              `gorm:"uniqueIndex:idx_request_step_order"`
	Type       models.StepType  `gorm:"type:varchar(20)"`
	Status     models.StepStatus `gorm:"type:varchar(20);index;index:idx_approver_status"`
	Comment    string
	ProcessedAt *time.Time
	DueDate     *time.Time
}
