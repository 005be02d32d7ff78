package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestStatusPredicates(t *testing.T) {
	t.Run("edit and submit only from draft", func(t *testing.T) {
		require.True(t, RequestStatusDraft.CanEdit())
		require.True(t, RequestStatusDraft.CanSubmit())
		for _, status := range []RequestStatus{
			RequestStatusSubmitted, RequestStatusPending,
			RequestStatusApproved, RequestStatusRejected, RequestStatusCanceled,
		} {
			require.False(t, status.CanEdit(), status)
			require.False(t, status.CanSubmit(), status)
		}
	})

	t.Run("cancel from any non terminal status", func(t *testing.T) {
		require.True(t, RequestStatusDraft.CanCancel())
		require.True(t, RequestStatusSubmitted.CanCancel())
		require.True(t, RequestStatusPending.CanCancel())
		require.False(t, RequestStatusApproved.CanCancel())
		require.False(t, RequestStatusRejected.CanCancel())
		require.False(t, RequestStatusCanceled.CanCancel())
	})

	t.Run("completed means terminal", func(t *testing.T) {
		require.True(t, RequestStatusApproved.IsCompleted())
		require.True(t, RequestStatusRejected.IsCompleted())
		require.True(t, RequestStatusCanceled.IsCompleted())
		require.False(t, RequestStatusDraft.IsCompleted())
		require.False(t, RequestStatusPending.IsCompleted())
	})

	t.Run("validity and human names", func(t *testing.T) {
		require.True(t, RequestStatusPending.IsValid())
		require.False(t, RequestStatus("frozen").IsValid())
		require.Equal(t, "Черновик", RequestStatusDraft.ToHuman())
		// неизвестный статус возвращается как есть
		require.Equal(t, "frozen", RequestStatus("frozen").ToHuman())
	})
}

func TestStepStatusPredicates(t *testing.T) {
	require.True(t, StepStatusApproved.IsProcessed())
	require.True(t, StepStatusRejected.IsProcessed())
	require.True(t, StepStatusSkipped.IsProcessed())
	require.False(t, StepStatusWaiting.IsProcessed())
	require.False(t, StepStatusPending.IsProcessed())
}

func TestCanProcess(t *testing.T) {
	require.True(t, CanProcess(StepStatusPending, RequestStatusPending))

	// этап активен, но заявка уже не в работе
	require.False(t, CanProcess(StepStatusPending, RequestStatusCanceled))
	require.False(t, CanProcess(StepStatusPending, RequestStatusRejected))
	// заявка в работе, но этап еще не дошел до очереди или уже обработан
	require.False(t, CanProcess(StepStatusWaiting, RequestStatusPending))
	require.False(t, CanProcess(StepStatusApproved, RequestStatusPending))
	require.False(t, CanProcess(StepStatusSkipped, RequestStatusPending))
}

func TestUrgencyAndStepType(t *testing.T) {
	require.True(t, UrgencyNormal.IsValid())
	require.True(t, UrgencyCritical.IsValid())
	require.False(t, Urgency("asap").IsValid())

	require.True(t, StepTypeApprove.IsValid())
	require.True(t, StepTypeReview.IsValid())
	require.True(t, StepTypeNotify.IsValid())
	require.False(t, StepType("sign").IsValid())
}
