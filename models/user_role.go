package models

type UserRole string

const (
	UserRoleUser     UserRole = "USER_ROLE"
	UserRoleApprover UserRole = "APPROVER_ROLE"
	UserRoleAdmin    UserRole = "ADMIN_ROLE"
)

var roleHumanName = map[UserRole]string{
	UserRoleUser:     "Сотрудник",
	UserRoleApprover: "Согласующий",
	UserRoleAdmin:    "Администратор",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin
}

