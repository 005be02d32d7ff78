package dbmodels

import (
	"fmt"
	"strings"

	"miniflow-backend/models"

	"gorm.io/gorm"
)

type User struct {
	BaseModel
	FirstName    string `gorm:"type:varchar(255)"`
	LastName     string `gorm:"type:varchar(255)"`
	Email        string `gorm:"type:varchar(255);uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255)"`
	DepartmentID *string `gorm:"type:varchar(36)"`
	Department   *Department
	Position     string          `gorm:"type:varchar(255)"`
	Role         models.UserRole `gorm:"type:varchar(50)"`
	DeletedAt    gorm.DeletedAt  `gorm:"index"`
}

func (u User) GetFullName() string {
	return strings.TrimSpace(fmt.Sprintf("%v %v", u.FirstName, u.LastName))
}

type Department struct {
	BaseModel
	Name      string  `gorm:"type:varchar(255)"`
	Code      string  `gorm:"type:varchar(50);uniqueIndex"`
	ManagerID *string `gorm:"type:varchar(36)"`
	Manager   *User   `gorm:"foreignKey:ManagerID"`
}
