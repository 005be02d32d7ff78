package apperrors

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"miniflow-backend/models"
)

func TestGetKind(t *testing.T) {
	t.Run("plain error has no kind", func(t *testing.T) {
		_, ok := GetKind(errors.New("что-то пошло не так"))
		require.False(t, ok)
	})

	t.Run("kind survives wrapping", func(t *testing.T) {
		err := errors.Wrap(Conflict("переход запрещен", models.RequestStatusApproved), "обработка этапа")
		kind, ok := GetKind(err)
		require.True(t, ok)
		require.Equal(t, KindConflict, kind)
		require.True(t, IsConflict(err))
	})

	t.Run("each constructor yields its kind", func(t *testing.T) {
		require.True(t, IsBusinessRule(BusinessRule("не настроена цепочка согласования")))
		require.True(t, IsNotFound(NotFound("заявка не найдена")))
		kind, ok := GetKind(Forbidden("операция недоступна"))
		require.True(t, ok)
		require.Equal(t, KindForbidden, kind)
	})
}

func TestErrorMessage(t *testing.T) {
	err := Conflict("этап не ожидает решения", models.RequestStatusCanceled)
	require.Equal(t, "этап не ожидает решения. Текущий статус: Отменена", err.Error())

	err = BusinessRule("не настроена цепочка согласования")
	require.Equal(t, "не настроена цепочка согласования", err.Error())
}
