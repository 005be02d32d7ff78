package workflow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"miniflow-backend/models"
)

func TestCanTransitRequest(t *testing.T) {
	t.Run("allowed transitions", func(t *testing.T) {
		require.True(t, CanTransitRequest(models.RequestStatusDraft, models.RequestStatusPending))
		require.True(t, CanTransitRequest(models.RequestStatusDraft, models.RequestStatusCanceled))
		require.True(t, CanTransitRequest(models.RequestStatusPending, models.RequestStatusApproved))
		require.True(t, CanTransitRequest(models.RequestStatusPending, models.RequestStatusRejected))
		require.True(t, CanTransitRequest(models.RequestStatusPending, models.RequestStatusCanceled))
	})

	t.Run("terminal statuses have no way out", func(t *testing.T) {
		terminal := []models.RequestStatus{
			models.RequestStatusApproved,
			models.RequestStatusRejected,
			models.RequestStatusCanceled,
		}
		targets := []models.RequestStatus{
			models.RequestStatusDraft,
			models.RequestStatusPending,
			models.RequestStatusApproved,
			models.RequestStatusRejected,
			models.RequestStatusCanceled,
		}
		for _, from := range terminal {
			for _, to := range targets {
				require.False(t, CanTransitRequest(from, to), "%v -> %v", from, to)
			}
		}
	})

	t.Run("no shortcut from draft to terminal decision", func(t *testing.T) {
		require.False(t, CanTransitRequest(models.RequestStatusDraft, models.RequestStatusApproved))
		require.False(t, CanTransitRequest(models.RequestStatusDraft, models.RequestStatusRejected))
	})
}

func TestCanTransitStep(t *testing.T) {
	require.True(t, CanTransitStep(models.StepStatusWaiting, models.StepStatusPending))
	require.True(t, CanTransitStep(models.StepStatusWaiting, models.StepStatusSkipped))
	require.True(t, CanTransitStep(models.StepStatusPending, models.StepStatusApproved))
	require.True(t, CanTransitStep(models.StepStatusPending, models.StepStatusRejected))
	require.True(t, CanTransitStep(models.StepStatusPending, models.StepStatusSkipped))

	require.False(t, CanTransitStep(models.StepStatusWaiting, models.StepStatusApproved))
	require.False(t, CanTransitStep(models.StepStatusApproved, models.StepStatusPending))
	require.False(t, CanTransitStep(models.StepStatusRejected, models.StepStatusPending))
	require.False(t, CanTransitStep(models.StepStatusSkipped, models.StepStatusPending))
}

func TestAssertTransitions(t *testing.T) {
	require.Nil(t, AssertRequestTransition(models.RequestStatusDraft, models.RequestStatusPending))
	require.Nil(t, AssertStepTransition(models.StepStatusWaiting, models.StepStatusPending))

	err := AssertRequestTransition(models.RequestStatusApproved, models.RequestStatusPending)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "недопустимый переход заявки")

	err = AssertStepTransition(models.StepStatusApproved, models.StepStatusRejected)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "недопустимый переход этапа")
}

func TestPermittedRequestTransitions(t *testing.T) {
	require.ElementsMatch(t,
		[]models.RequestStatus{models.RequestStatusPending, models.RequestStatusCanceled},
		PermittedRequestTransitions(models.RequestStatusDraft))
	require.Empty(t, PermittedRequestTransitions(models.RequestStatusApproved))
}
