package apperrors

import (
	"fmt"

	"github.com/pkg/errors"

	"miniflow-backend/models"
)

// Kind - класс ошибки бизнес-логики, определяет http статус ответа
type Kind string

const (
	// KindConflict - текущее состояние не допускает запрошенный переход
	KindConflict Kind = "conflict"
	// KindBusinessRule - данные корректны по форме, но нарушают доменное правило
	KindBusinessRule Kind = "business_rule"
	KindNotFound     Kind = "not_found"
	KindForbidden    Kind = "forbidden"
)

type Error struct {
	Kind    Kind
	Message string
	// CurrentStatus - статус заявки на момент отказа, для диагностики на стороне клиента
	CurrentStatus models.RequestStatus
}

func (e *Error) Error() string {
	if e.CurrentStatus != "" {
		return fmt.Sprintf("%v. Текущий статус: %v", e.Message, e.CurrentStatus.ToHuman())
	}
	return e.Message
}

func Conflict(message string, currentStatus models.RequestStatus) error {
	return &Error{
		Kind:          KindConflict,
		Message:       message,
		CurrentStatus: currentStatus,
	}
}

func BusinessRule(message string) error {
	return &Error{
		Kind:    KindBusinessRule,
		Message: message,
	}
}

func NotFound(message string) error {
	return &Error{
		Kind:    KindNotFound,
		Message: message,
	}
}

func Forbidden(message string) error {
	return &Error{
		Kind:    KindForbidden,
		Message: message,
	}
}

func GetKind(err error) (Kind, bool) {
	appErr := &Error{}
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return "", false
}

func IsConflict(err error) bool {
	kind, ok := GetKind(err)
	return ok && kind == KindConflict
}

func IsBusinessRule(err error) bool {
	kind, ok := GetKind(err)
	return ok && kind == KindBusinessRule
}

func IsNotFound(err error) bool {
	kind, ok := GetKind(err)
	return ok && kind == KindNotFound
}
