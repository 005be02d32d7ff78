package approvalapimodels

import (
	"time"

	"miniflow-backend/models"
	apimodels "miniflow-backend/models/api"
	dbmodels "miniflow-backend/models/db"

	"github.com/pkg/errors"
)

// StepLineData - один этап цепочки согласования при создании/замене
type StepLineData struct {
	ApproverID string          `json:"approver_id"`
	Type       models.StepType `json:"type"`
	DueDate    *time.Time      `json:"due_date"`
}

func (s StepLineData) Validate() error {
	if s.ApproverID == "" {
		return errors.New("отсутствует идентификатор согласующего")
	}
	if s.Type != "" && !s.Type.IsValid() {
		return errors.Errorf("недопустимый тип этапа: %v", s.Type)
	}
	return nil
}

type ApproveData struct {
	Comment string `json:"comment"`
}

func (a ApproveData) Validate() error {
	return nil
}

type RejectData struct {
	Comment string `json:"comment"`
}

func (r RejectData) Validate() error {
	if r.Comment == "" {
		return errors.New("отсутствует комментарий с причиной отклонения")
	}
	return nil
}

type StepFilter struct {
	apimodels.Pagination
	Status models.StepStatus `json:"status"`
}

func (r StepFilter) Validate() error {
	if r.Status != "" && !r.Status.IsValid() {
		return errors.Errorf("недопустимый статус: %v", r.Status)
	}
	return nil
}

type StepView struct {
	ID           string            `json:"id"`
	RequestID    string            `json:"request_id"`
	RequestTitle string            `json:"request_title,omitempty"`
	ApproverID   string            `json:"approver_id"`
	Approver     string            `json:"approver"`
	StepOrder    int               `json:"step_order"`
	Type         models.StepType   `json:"type"`
	TypeName     string            `json:"type_name"`
	Status       models.StepStatus `json:"status"`
	StatusName   string            `json:"status_name"`
	Comment      string            `json:"comment,omitempty"`
	ProcessedAt  *time.Time        `json:"processed_at"`
	DueDate      *time.Time        `json:"due_date"`
}

func StepConvert(rec dbmodels.ApprovalStep) StepView {
	result := StepView{
		ID:          rec.ID,
		RequestID:   rec.RequestID,
		ApproverID:  rec.ApproverID,
		StepOrder:   rec.StepOrder,
		Type:        rec.Type,
		TypeName:    rec.Type.ToHuman(),
		Status:      rec.Status,
		StatusName:  rec.Status.ToHuman(),
		Comment:     rec.Comment,
		ProcessedAt: rec.ProcessedAt,
		DueDate:     rec.DueDate,
	}
	if rec.Approver != nil {
		result.Approver = rec.Approver.GetFullName()
	}
	if rec.Request != nil {
		result.RequestTitle = rec.Request.Title
	}
	return result
}
