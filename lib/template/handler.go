package templatehandler

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"miniflow-backend/db"
	templatestore "miniflow-backend/lib/template/store"
	"miniflow-backend/lib/utils/apperrors"
	templateapimodels "miniflow-backend/models/api/template"
	dbmodels "miniflow-backend/models/db"
)

type Provider interface {
	Create(userID string, data templateapimodels.TemplateData) (id string, err error)
	GetByID(id string) (view templateapimodels.TemplateView, err error)
	Update(id string, data templateapimodels.TemplateData) error
	List(onlyActive bool) (list []templateapimodels.TemplateView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: templatestore.NewInstance(db.DB),
	}
}

type impl struct {
	store templatestore.Provider
}

func (i impl) Create(userID string, data templateapimodels.TemplateData) (id string, err error) {
	isActive := true
	if data.IsActive != nil {
		isActive = *data.IsActive
	}
	rec := dbmodels.RequestTemplate{
		Name:                data.Name,
		Type:                data.Type,
		Description:         data.Description,
		Schema:              data.Schema,
		DefaultApprovalLine: data.DefaultApprovalLine,
		IsActive:            isActive,
		CreatedBy:           userID,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", errors.Wrap(err, "ошибка сохранения шаблона")
	}
	log.WithField("template_id", id).Info("Шаблон заявки создан")
	return id, nil
}

func (i impl) GetByID(id string) (view templateapimodels.TemplateView, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return view, err
	}
	if rec == nil {
		return view, apperrors.NotFound("шаблон заявки не найден")
	}
	return templateapimodels.TemplateConvert(*rec), nil
}

func (i impl) Update(id string, data templateapimodels.TemplateData) error {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return apperrors.NotFound("шаблон заявки не найден")
	}
	updMap := map[string]interface{}{
		"name":                  data.Name,
		"type":                  data.Type,
		"description":           data.Description,
		"schema":                data.Schema,
		"default_approval_line": data.DefaultApprovalLine,
	}
	if data.IsActive != nil {
		updMap["is_active"] = *data.IsActive
	}
	return i.store.Update(id, updMap)
}

func (i impl) List(onlyActive bool) (list []templateapimodels.TemplateView, err error) {
	recs, err := i.store.List(onlyActive)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка шаблонов")
	}
	list = make([]templateapimodels.TemplateView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, templateapimodels.TemplateConvert(rec))
	}
	return list, nil
}
