package dbmodels

import (
	"time"

	"miniflow-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApprovalRequest struct {
	BaseModel
	TemplateID  string `gorm:"type:varchar(36);index"`
	Template    *RequestTemplate
	RequesterID string `gorm:"type:varchar(36);index:idx_requester_status"`
	Requester   *User  `gorm:"foreignKey:RequesterID"`
	Title       string `gorm:"type:varchar(255)"`
	// Content - данные по схеме шаблона, для движка согласования непрозрачны
	Content     JSONBMap             `gorm:"type:jsonb"`
	Status      models.RequestStatus `gorm:"type:varchar(20);index;index:idx_requester_status"`
	CurrentStep int                  // 0 пока черновик, далее step_order активного этапа
	TotalSteps  int
	Urgency     models.Urgency `gorm:"type:varchar(20)"`
	SubmittedAt *time.Time     `gorm:"index"`
	CompletedAt *time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
	Steps       []ApprovalStep `gorm:"foreignKey:RequestID"`
	Attachments []Attachment   `gorm:"foreignKey:RequestID"`
}

// GetCurrentStep возвращает активный этап, по инварианту он максимум один
func (r ApprovalRequest) GetCurrentStep() *ApprovalStep {
	for k := range r.Steps {
		if r.Steps[k].Status == models.StepStatusPending {
			return &r.Steps[k]
		}
	}
	return nil
}

func (r *ApprovalRequest) AfterDelete(tx *gorm.DB) (err error) {
	if r.ID == "" {
		return nil
	}
	tx.Clauses(clause.Returning{}).Where("request_id = ?", r.ID).Delete(&ApprovalStep{})
	return
}
