package usersapimodels

import (
	"github.com/pkg/errors"

	"miniflow-backend/models"
	apimodels "miniflow-backend/models/api"
	dbmodels "miniflow-backend/models/db"
)

type UserCreateData struct {
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	Email        string          `json:"email"`
	Password     string          `json:"password"`
	Position     string          `json:"position"`
	Role         models.UserRole `json:"role"`
	DepartmentID string          `json:"department_id"`
}

func (u UserCreateData) Validate() error {
	if u.Email == "" {
		return errors.New("отсутствует почта")
	}
	if u.Password == "" {
		return errors.New("отсутствует пароль")
	}
	if u.FirstName == "" && u.LastName == "" {
		return errors.New("отсутствует имя пользователя")
	}
	if u.Role == "" {
		return errors.New("отсутствует роль пользователя")
	}
	return nil
}

type UserView struct {
	ID         string          `json:"id"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Email      string          `json:"email"`
	Position   string          `json:"position"`
	Role       models.UserRole `json:"role"`
	RoleName   string          `json:"role_name"`
	Department string          `json:"department,omitempty"`
}

func UserConvert(rec dbmodels.User) UserView {
	result := UserView{
		ID:        rec.ID,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		Email:     rec.Email,
		Position:  rec.Position,
		Role:      rec.Role,
		RoleName:  rec.Role.ToHuman(),
	}
	if rec.Department != nil {
		result.Department = rec.Department.Name
	}
	return result
}

type UserFilter struct {
	apimodels.Pagination
	Role   models.UserRole `json:"role"`
	Search string          `json:"search"` // по имени или почте
}

func (r UserFilter) Validate() error {
	return nil
}
