package approvalapimodels

import (
	"time"

	"miniflow-backend/models"
	apimodels "miniflow-backend/models/api"
	dbmodels "miniflow-backend/models/db"

	"github.com/pkg/errors"
)

type RequestData struct {
	Title   string                 `json:"title"`
	Content map[string]interface{} `json:"content"`
	Urgency models.Urgency         `json:"urgency"`
}

func (r RequestData) Validate() error {
	if r.Title == "" {
		return errors.New("отсутствует заголовок заявки")
	}
	if r.Urgency != "" && !r.Urgency.IsValid() {
		return errors.Errorf("недопустимая срочность: %v", r.Urgency)
	}
	return nil
}

type RequestCreateData struct {
	RequestData
	TemplateID   string         `json:"template_id"`
	ApprovalLine []StepLineData `json:"approval_line"`
}

func (r RequestCreateData) Validate() error {
	if err := r.RequestData.Validate(); err != nil {
		return err
	}
	if r.TemplateID == "" {
		return errors.New("отсутствует идентификатор шаблона")
	}
	return validateLine(r.ApprovalLine)
}

type RequestEditData struct {
	RequestData
	// ApprovalLine == nil - цепочка не меняется, иначе полная замена
	ApprovalLine *[]StepLineData `json:"approval_line"`
}

func (r RequestEditData) Validate() error {
	if err := r.RequestData.Validate(); err != nil {
		return err
	}
	if r.ApprovalLine != nil {
		return validateLine(*r.ApprovalLine)
	}
	return nil
}

func validateLine(line []StepLineData) error {
	for k, item := range line {
		if err := item.Validate(); err != nil {
			return errors.Wrapf(err, "этап %v", k+1)
		}
	}
	return nil
}

type RequestFilter struct {
	apimodels.Pagination
	Status     models.RequestStatus `json:"status"`
	TemplateID string               `json:"template_id"`
}

func (r RequestFilter) Validate() error {
	if r.Status != "" && !r.Status.IsValid() {
		return errors.Errorf("недопустимый статус: %v", r.Status)
	}
	return nil
}

type RequestView struct {
	ID           string                 `json:"id"`
	TemplateID   string                 `json:"template_id"`
	TemplateName string                 `json:"template_name"`
	RequesterID  string                 `json:"requester_id"`
	Requester    string                 `json:"requester"`
	Title        string                 `json:"title"`
	Content      map[string]interface{} `json:"content"`
	Status       models.RequestStatus   `json:"status"`
	StatusName   string                 `json:"status_name"`
	CurrentStep  int                    `json:"current_step"`
	TotalSteps   int                    `json:"total_steps"`
	Urgency      models.Urgency         `json:"urgency"`
	SubmittedAt  *time.Time             `json:"submitted_at"`
	CompletedAt  *time.Time             `json:"completed_at"`
	CreatedAt    time.Time              `json:"created_at"`
	Steps        []StepView             `json:"steps,omitempty"`
}

func RequestConvert(rec dbmodels.ApprovalRequest) RequestView {
	result := RequestView{
		ID:          rec.ID,
		TemplateID:  rec.TemplateID,
		RequesterID: rec.RequesterID,
		Title:       rec.Title,
		Content:     rec.Content,
		Status:      rec.Status,
		StatusName:  rec.Status.ToHuman(),
		CurrentStep: rec.CurrentStep,
		TotalSteps:  rec.TotalSteps,
		Urgency:     rec.Urgency,
		SubmittedAt: rec.SubmittedAt,
		CompletedAt: rec.CompletedAt,
		CreatedAt:   rec.CreatedAt,
	}
	if rec.Template != nil {
		result.TemplateName = rec.Template.Name
	}
	if rec.Requester != nil {
		result.Requester = rec.Requester.GetFullName()
	}
	for _, step := range rec.Steps {
		result.Steps = append(result.Steps, StepConvert(step))
	}
	return result
}
