package approvalstephandler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"miniflow-backend/lib/utils/apperrors"
	"miniflow-backend/models"
	approvalapimodels "miniflow-backend/models/api/approval"
	dbmodels "miniflow-backend/models/db"
)

const (
	requesterID = "user-requester"
	approver1ID = "user-approver-1"
	approver2ID = "user-approver-2"
	approver3ID = "user-approver-3"
)

// pendingRequest готовит заявку в согласовании: этап 1 активен, остальные ждут
func pendingRequest(approverIDs ...string) (*fakeRequestStore, *fakeStepStore) {
	rec := &dbmodels.ApprovalRequest{
		BaseModel:   dbmodels.BaseModel{ID: "req-1"},
		TemplateID:  "tpl-1",
		RequesterID: requesterID,
		Title:       "Договор аренды",
		Status:      models.RequestStatusPending,
		CurrentStep: 1,
		TotalSteps:  len(approverIDs),
	}
	steps := []*dbmodels.ApprovalStep{}
	for k, approverID := range approverIDs {
		status := models.StepStatusWaiting
		if k == 0 {
			status = models.StepStatusPending
		}
		steps = append(steps, &dbmodels.ApprovalStep{
			BaseModel:  dbmodels.BaseModel{ID: approverID + "-step"},
			RequestID:  "req-1",
			ApproverID: approverID,
			StepOrder:  k + 1,
			Type:       models.StepTypeApprove,
			Status:     status,
		})
	}
	return newFakeRequestStore(rec), newFakeStepStore(steps...)
}

func TestApproveTx(t *testing.T) {
	t.Run("intermediate approval activates the next step", func(t *testing.T) {
		store, stepStore := pendingRequest(approver1ID, approver2ID)
		handler := impl{}
		now := time.Now()

		err := handler.approveTx(store, stepStore, approver1ID, false, approver1ID+"-step", "согласен", now)
		require.Nil(t, err)

		first, _ := stepStore.GetByOrder("req-1", 1)
		require.Equal(t, models.StepStatusApproved, first.Status)
		require.Equal(t, "согласен", first.Comment)
		require.NotNil(t, first.ProcessedAt)
		require.Equal(t, now, *first.ProcessedAt)

		second, _ := stepStore.GetByOrder("req-1", 2)
		require.Equal(t, models.StepStatusPending, second.Status)

		rec := store.recs["req-1"]
		require.Equal(t, models.RequestStatusPending, rec.Status)
		require.Equal(t, 2, rec.CurrentStep)
		require.Nil(t, rec.CompletedAt)
	})

	t.Run("final approval completes the request", func(t *testing.T) {
		store, stepStore := pendingRequest(approver1ID, approver2ID)
		handler := impl{}
		now := time.Now()

		err := handler.approveTx(store, stepStore, approver1ID, false, approver1ID+"-step", "", now)
		require.Nil(t, err)
		err = handler.approveTx(store, stepStore, approver2ID, false, approver2ID+"-step", "", now)
		require.Nil(t, err)

		rec := store.recs["req-1"]
		require.Equal(t, models.RequestStatusApproved, rec.Status)
		require.NotNil(t, rec.CompletedAt)
		require.Equal(t, now, *rec.CompletedAt)
	})

	t.Run("repeated decision on the same step is a conflict", func(t *testing.T) {
		store, stepStore := pendingRequest(approver1ID, approver2ID)
		handler := impl{}

		err := handler.approveTx(store, stepStore, approver1ID, false, approver1ID+"-step", "", time.Now())
		require.Nil(t, err)

		err = handler.approveTx(store, stepStore, approver1ID, false, approver1ID+"-step", "", time.Now())
		require.NotNil(t, err)
		require.True(t, apperrors.IsConflict(err))
	})

	t.Run("waiting step cannot be decided ahead of order", func(t *testing.T) {
		store, stepStore := pendingRequest(approver1ID, approver2ID)
		handler := impl{}

		err := handler.approveTx(store, stepStore, approver2ID, false, approver2ID+"-step", "", time.Now())
		require.NotNil(t, err)
		require.True(t, apperrors.IsConflict(err))
	})

	t.Run("decision by stranger is forbidden", func(t *testing.T) {
		store, stepStore := pendingRequest(approver1ID)
		handler := impl{}

		err := handler.approveTx(store, stepStore, approver2ID, false, approver1ID+"-step", "", time.Now())
		require.NotNil(t, err)
		kind, ok := apperrors.GetKind(err)
		require.True(t, ok)
		require.Equal(t, apperrors.KindForbidden, kind)
	})

	t.Run("admin may decide for the assigned approver", func(t *testing.T) {
		store, stepStore := pendingRequest(approver1ID)
		handler := impl{}

		err := handler.approveTx(store, stepStore, "user-admin", true, approver1ID+"-step", "", time.Now())
		require.Nil(t, err)
		require.Equal(t, models.RequestStatusApproved, store.recs["req-1"].Status)
	})

	t.Run("unknown step is not found", func(t *testing.T) {
		store, stepStore := pendingRequest(approver1ID)
		handler := impl{}

		err := handler.approveTx(store, stepStore, approver1ID, false, "missing", "", time.Now())
		require.NotNil(t, err)
		require.True(t, apperrors.IsNotFound(err))
	})
}

// lockingRequestStore и lockingStepStore протоколируют порядок взятия блокировок
type lockingRequestStore struct {
	*fakeRequestStore
	seq *[]string
}

func (l lockingRequestStore) GetByIDForUpdate(id string) (*dbmodels.ApprovalRequest, error) {
	*l.seq = append(*l.seq, "request")
	return l.fakeRequestStore.GetByIDForUpdate(id)
}

type lockingStepStore struct {
	*fakeStepStore
	seq *[]string
}

func (l lockingStepStore) GetByIDForUpdate(id string) (*dbmodels.ApprovalStep, error) {
	*l.seq = append(*l.seq, "step")
	return l.fakeStepStore.GetByIDForUpdate(id)
}

// Решение по этапу обязано блокировать сперва заявку, как это делают
// submit и cancel, иначе встречные переходы взаимоблокируются в БД
func TestApproveLockOrder(t *testing.T) {
	store, stepStore := pendingRequest(approver1ID)
	seq := []string{}
	handler := impl{}

	err := handler.approveTx(
		lockingRequestStore{fakeRequestStore: store, seq: &seq},
		lockingStepStore{fakeStepStore: stepStore, seq: &seq},
		approver1ID, false, approver1ID+"-step", "", time.Now())
	require.Nil(t, err)
	require.Equal(t, []string{"request", "step"}, seq)
}

func TestRejectTx(t *testing.T) {
	t.Run("rejection completes the request and skips the rest", func(t *testing.T) {
		store, stepStore := pendingRequest(approver1ID, approver2ID, approver3ID)
		handler := impl{}
		now := time.Now()

		err := handler.rejectTx(store, stepStore, approver1ID, false, approver1ID+"-step", "не хватает документов", now)
		require.Nil(t, err)

		first, _ := stepStore.GetByOrder("req-1", 1)
		require.Equal(t, models.StepStatusRejected, first.Status)
		require.Equal(t, "не хватает документов", first.Comment)
		require.NotNil(t, first.ProcessedAt)

		second, _ := stepStore.GetByOrder("req-1", 2)
		require.Equal(t, models.StepStatusSkipped, second.Status)
		third, _ := stepStore.GetByOrder("req-1", 3)
		require.Equal(t, models.StepStatusSkipped, third.Status)

		rec := store.recs["req-1"]
		require.Equal(t, models.RequestStatusRejected, rec.Status)
		require.NotNil(t, rec.CompletedAt)
		require.Equal(t, now, *rec.CompletedAt)
	})

	t.Run("rejection on a middle step keeps earlier approvals", func(t *testing.T) {
		store, stepStore := pendingRequest(approver1ID, approver2ID, approver3ID)
		handler := impl{}

		err := handler.approveTx(store, stepStore, approver1ID, false, approver1ID+"-step", "", time.Now())
		require.Nil(t, err)
		err = handler.rejectTx(store, stepStore, approver2ID, false, approver2ID+"-step", "сумма завышена", time.Now())
		require.Nil(t, err)

		first, _ := stepStore.GetByOrder("req-1", 1)
		require.Equal(t, models.StepStatusApproved, first.Status)
		second, _ := stepStore.GetByOrder("req-1", 2)
		require.Equal(t, models.StepStatusRejected, second.Status)
		third, _ := stepStore.GetByOrder("req-1", 3)
		require.Equal(t, models.StepStatusSkipped, third.Status)
		require.Equal(t, models.RequestStatusRejected, store.recs["req-1"].Status)
	})

	t.Run("empty comment is rejected before any mutation", func(t *testing.T) {
		handler := impl{}

		err := handler.Reject(approver1ID, false, "step-1", approvalapimodels.RejectData{})
		require.NotNil(t, err)
		require.True(t, apperrors.IsBusinessRule(err))
	})

	t.Run("decision on completed request is a conflict", func(t *testing.T) {
		store, stepStore := pendingRequest(approver1ID)
		store.recs["req-1"].Status = models.RequestStatusCanceled
		handler := impl{}

		err := handler.rejectTx(store, stepStore, approver1ID, false, approver1ID+"-step", "поздно", time.Now())
		require.NotNil(t, err)
		require.True(t, apperrors.IsConflict(err))
	})
}
