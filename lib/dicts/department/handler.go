package departmenthandler

import (
	"github.com/pkg/errors"

	"miniflow-backend/db"
	departmentstore "miniflow-backend/lib/dicts/department/store"
	"miniflow-backend/lib/utils/apperrors"
	dictapimodels "miniflow-backend/models/api/dict"
	dbmodels "miniflow-backend/models/db"
)

type Provider interface {
	Create(data dictapimodels.DepartmentData) (id string, err error)
	GetByID(id string) (view dictapimodels.DepartmentView, err error)
	Update(id string, data dictapimodels.DepartmentData) error
	Delete(id string) error
	List() (list []dictapimodels.DepartmentView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: departmentstore.NewInstance(db.DB),
	}
}

type impl struct {
	store departmentstore.Provider
}

func (i impl) Create(data dictapimodels.DepartmentData) (id string, err error) {
	rec := dbmodels.Department{
		Name: data.Name,
		Code: data.Code,
	}
	if data.ManagerID != "" {
		rec.ManagerID = &data.ManagerID
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", errors.Wrap(err, "ошибка сохранения подразделения")
	}
	return id, nil
}

func (i impl) GetByID(id string) (view dictapimodels.DepartmentView, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return view, err
	}
	if rec == nil {
		return view, apperrors.NotFound("подразделение не найдено")
	}
	return dictapimodels.DepartmentConvert(*rec), nil
}

func (i impl) Update(id string, data dictapimodels.DepartmentData) error {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return apperrors.NotFound("подразделение не найдено")
	}
	updMap := map[string]interface{}{
		"name": data.Name,
		"code": data.Code,
	}
	if data.ManagerID != "" {
		updMap["manager_id"] = data.ManagerID
	}
	return i.store.Update(id, updMap)
}

func (i impl) Delete(id string) error {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return apperrors.NotFound("подразделение не найдено")
	}
	return i.store.Delete(id)
}

func (i impl) List() (list []dictapimodels.DepartmentView, err error) {
	recs, err := i.store.List()
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка подразделений")
	}
	list = make([]dictapimodels.DepartmentView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, dictapimodels.DepartmentConvert(rec))
	}
	return list, nil
}
