package workflow

import (
	"github.com/pkg/errors"

	"miniflow-backend/models"
)

// Таблица допустимых переходов статуса заявки.
// Терминальные статусы переходов не имеют.
var requestTransitions = map[models.RequestStatus][]models.RequestStatus{
	models.RequestStatusDraft: {
		models.RequestStatusPending,
		models.RequestStatusCanceled,
	},
	models.RequestStatusSubmitted: {
		models.RequestStatusPending,
		models.RequestStatusCanceled,
	},
	models.RequestStatusPending: {
		models.RequestStatusApproved,
		models.RequestStatusRejected,
		models.RequestStatusCanceled,
	},
}

var stepTransitions = map[models.StepStatus][]models.StepStatus{
	models.StepStatusWaiting: {
		models.StepStatusPending,
		models.StepStatusSkipped,
	},
	models.StepStatusPending: {
		models.StepStatusApproved,
		models.StepStatusRejected,
		models.StepStatusSkipped,
	},
}

func CanTransitRequest(from, to models.RequestStatus) bool {
	for _, allowed := range requestTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func CanTransitStep(from, to models.StepStatus) bool {
	for _, allowed := range stepTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AssertRequestTransition - последний рубеж перед записью нового статуса.
// Срабатывание означает ошибку в логике вызывающего, а не во входных данных
func AssertRequestTransition(from, to models.RequestStatus) error {
	if !CanTransitRequest(from, to) {
		return errors.Errorf("недопустимый переход заявки: %v -> %v", from, to)
	}
	return nil
}

func AssertStepTransition(from, to models.StepStatus) error {
	if !CanTransitStep(from, to) {
		return errors.Errorf("недопустимый переход этапа: %v -> %v", from, to)
	}
	return nil
}

// PermittedRequestTransitions возвращает допустимые целевые статусы заявки
func PermittedRequestTransitions(from models.RequestStatus) []models.RequestStatus {
	result := make([]models.RequestStatus, 0, len(requestTransitions[from]))
	result = append(result, requestTransitions[from]...)
	return result
}
