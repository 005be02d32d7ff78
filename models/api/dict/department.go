package dictapimodels

import (
	dbmodels "miniflow-backend/models/db"

	"github.com/pkg/errors"
)

type DepartmentData struct {
	Name      string `json:"name"`
	Code      string `json:"code"`
	ManagerID string `json:"manager_id"`
}

func (d DepartmentData) Validate() error {
	if d.Name == "" {
		return errors.New("отсутствует наименование подразделения")
	}
	if d.Code == "" {
		return errors.New("отсутствует код подразделения")
	}
	return nil
}

type DepartmentView struct {
	DepartmentData
	ID          string `json:"id"`
	ManagerName string `json:"manager_name,omitempty"`
}

func DepartmentConvert(rec dbmodels.Department) DepartmentView {
	result := DepartmentView{
		DepartmentData: DepartmentData{
			Name: rec.Name,
			Code: rec.Code,
		},
		ID: rec.ID,
	}
	if rec.ManagerID != nil {
		result.ManagerID = *rec.ManagerID
	}
	if rec.Manager != nil {
		result.ManagerName = rec.Manager.GetFullName()
	}
	return result
}
