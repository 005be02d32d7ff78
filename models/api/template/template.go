package templateapimodels

import (
	"github.com/pkg/errors"

	dbmodels "miniflow-backend/models/db"
)

type TemplateData struct {
	Name                string                 `json:"name"`
	Type                string                 `json:"type"`
	Description         string                 `json:"description"`
	Schema              map[string]interface{} `json:"schema"`
	DefaultApprovalLine map[string]interface{} `json:"default_approval_line"`
	IsActive            *bool                  `json:"is_active"`
}

func (t TemplateData) Validate() error {
	if t.Name == "" {
		return errors.New("отсутствует наименование шаблона")
	}
	if t.Type == "" {
		return errors.New("отсутствует тип шаблона")
	}
	return nil
}

type TemplateView struct {
	ID                  string                 `json:"id"`
	Name                string                 `json:"name"`
	Type                string                 `json:"type"`
	Description         string                 `json:"description"`
	Schema              map[string]interface{} `json:"schema"`
	DefaultApprovalLine map[string]interface{} `json:"default_approval_line"`
	IsActive            bool                   `json:"is_active"`
}

func TemplateConvert(rec dbmodels.RequestTemplate) TemplateView {
	return TemplateView{
		ID:                  rec.ID,
		Name:                rec.Name,
		Type:                rec.Type,
		Description:         rec.Description,
		Schema:              rec.Schema,
		DefaultApprovalLine: rec.DefaultApprovalLine,
		IsActive:            rec.IsActive,
	}
}
