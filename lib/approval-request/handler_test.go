package approvalrequesthandler

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
)

func draftRequest(id string) *dbmodels.ApprovalRequest {
	return &dbmodels.ApprovalRequest{
		BaseModel:   dbmodels.BaseModel{ID: id},
		TemplateID:  "tpl-1",
		RequesterID: requesterID,
		Title:       "Договор аренды",
		Status:      models.RequestStatusDraft,
		CurrentStep: 0,
		TotalSteps:  2,
	}
}

func draftSteps(requestID string) []*dbmodels.ApprovalStep {
	return []*dbmodels.ApprovalStep{
		{
			BaseModel:  dbmodels.BaseModel{ID: requestID + "-s1"},
			RequestID:  requestID,
			ApproverID: approver1ID,
			StepOrder:  1,
			Type:       models.StepTypeApprove,
			Status:     models.StepStatusWaiting,
		},
		{
			BaseModel:  dbmodels.BaseModel{ID: requestID + "-s2"},
			RequestID:  requestID,
			ApproverID: approver2ID,
			StepOrder:  2,
			Type:       models.StepTypeApprove,
			Status:     models.StepStatusWaiting,
		},
	}
}

func TestCreateTx(t *testing.T) {
	store := newFakeRequestStore()
	stepStore := newFakeStepStore()
	handler := impl{}

	data := approvalapimodels.RequestCreateData{
		RequestData: approvalapimodels.RequestData{
			Title:   "Договор аренды",
			Content: map[string]interface{}{"sum": 100000},
		},
		TemplateID: "tpl-1",
		ApprovalLine: []approvalapimodels.StepLineData{
			{ApproverID: approver1ID},
			{ApproverID: approver2ID, Type: models.StepTypeReview},
		},
	}
	id, err := handler.createTx(store, stepStore, requesterID, data)
	require.Nil(t, err)
	require.NotEmpty(t, id)

	rec := store.recs[id]
	require.NotNil(t, rec)
	require.Equal(t, models.RequestStatusDraft, rec.Status)
	require.Equal(t, 0, rec.CurrentStep)
	require.Equal(t, 2, rec.TotalSteps)
	require.Equal(t, models.UrgencyNormal, rec.Urgency)
	require.Nil(t, rec.SubmittedAt)

	steps, err := stepStore.ListByRequest(id)
	require.Nil(t, err)
	require.Len(t, steps, 2)
	for k, step := range steps {
		require.Equal(t, k+1, step.StepOrder)
		require.Equal(t, models.StepStatusWaiting, step.Status)
	}
	// тип этапа по умолчанию - approve
	require.Equal(t, models.StepTypeApprove, steps[0].Type)
	require.Equal(t, models.StepTypeReview, steps[1].Type)
}

func TestSubmitTx(t *testing.T) {
	t.Run("draft with steps goes pending", func(t *testing.T) {
		store := newFakeRequestStore(draftRequest("req-1"))
		stepStore := newFakeStepStore(draftSteps("req-1")...)
		handler := impl{}
		now := time.Now()

		err := handler.submitTx(store, stepStore, requesterID, false, "req-1", now)
		require.Nil(t, err)

		rec := store.recs["req-1"]
		require.Equal(t, models.RequestStatusPending, rec.Status)
		require.Equal(t, 1, rec.CurrentStep)
		require.NotNil(t, rec.SubmittedAt)
		require.Equal(t, now, *rec.SubmittedAt)

		first, err := stepStore.GetByOrder("req-1", 1)
		require.Nil(t, err)
		require.Equal(t, models.StepStatusPending, first.Status)
		second, err := stepStore.GetByOrder("req-1", 2)
		require.Nil(t, err)
		require.Equal(t, models.StepStatusWaiting, second.Status)
	})

	t.Run("empty approval line is a business rule violation", func(t *testing.T) {
		store := newFakeRequestStore(draftRequest("req-1"))
		stepStore := newFakeStepStore()
		handler := impl{}

		err := handler.submitTx(store, stepStore, requesterID, false, "req-1", time.Now())
		require.NotNil(t, err)
		require.True(t, apperrors.IsBusinessRule(err))
		require.Equal(t, models.RequestStatusDraft, store.recs["req-1"].Status)
	})

	t.Run("submit of non draft is a conflict", func(t *testing.T) {
		rec := draftRequest("req-1")
		rec.Status = models.RequestStatusPending
		store := newFakeRequestStore(rec)
		stepStore := newFakeStepStore(draftSteps("req-1")...)
		handler := impl{}

		err := handler.submitTx(store, stepStore, requesterID, false, "req-1", time.Now())
		require.NotNil(t, err)
		require.True(t, apperrors.IsConflict(err))
	})

	t.Run("submit by stranger is forbidden", func(t *testing.T) {
		store := newFakeRequestStore(draftRequest("req-1"))
		stepStore := newFakeStepStore(draftSteps("req-1")...)
		handler := impl{}

		err := handler.submitTx(store, stepStore, "user-other", false, "req-1", time.Now())
		require.NotNil(t, err)
		kind, ok := apperrors.GetKind(err)
		require.True(t, ok)
		require.Equal(t, apperrors.KindForbidden, kind)
	})

	t.Run("unknown request is not found", func(t *testing.T) {
		handler := impl{}
		err := handler.submitTx(newFakeRequestStore(), newFakeStepStore(), requesterID, false, "missing", time.Now())
		require.NotNil(t, err)
		require.True(t, apperrors.IsNotFound(err))
	})
}

func TestUpdateTx(t *testing.T) {
	t.Run("approval line is replaced as a whole", func(t *testing.T) {
		store := newFakeRequestStore(draftRequest("req-1"))
		stepStore := newFakeStepStore(draftSteps("req-1")...)
		handler := impl{}

		line := []approvalapimodels.StepLineData{
			{ApproverID: approver2ID},
		}
		data := approvalapimodels.RequestEditData{
			RequestData: approvalapimodels.RequestData{
				Title:   "Договор аренды (ред. 2)",
				Content: map[string]interface{}{"sum": 150000},
				Urgency: models.UrgencyUrgent,
			},
			ApprovalLine: &line,
		}
		err := handler.updateTx(store, stepStore, requesterID, false, "req-1", data)
		require.Nil(t, err)

		rec := store.recs["req-1"]
		require.Equal(t, "Договор аренды (ред. 2)", rec.Title)
		require.Equal(t, models.UrgencyUrgent, rec.Urgency)
		require.Equal(t, 1, rec.TotalSteps)

		steps, err := stepStore.ListByRequest("req-1")
		require.Nil(t, err)
		require.Len(t, steps, 1)
		require.Equal(t, approver2ID, steps[0].ApproverID)
		require.Equal(t, 1, steps[0].StepOrder)
		require.Equal(t, models.StepStatusWaiting, steps[0].Status)
	})

	t.Run("nil line keeps the chain", func(t *testing.T) {
		store := newFakeRequestStore(draftRequest("req-1"))
		stepStore := newFakeStepStore(draftSteps("req-1")...)
		handler := impl{}

		data := approvalapimodels.RequestEditData{
			RequestData: approvalapimodels.RequestData{
				Title:   "Договор аренды",
				Content: map[string]interface{}{},
			},
		}
		err := handler.updateTx(store, stepStore, requesterID, false, "req-1", data)
		require.Nil(t, err)

		steps, err := stepStore.ListByRequest("req-1")
		require.Nil(t, err)
		require.Len(t, steps, 2)
	})

	t.Run("update of submitted request is a conflict", func(t *testing.T) {
		rec := draftRequest("req-1")
		rec.Status = models.RequestStatusPending
		store := newFakeRequestStore(rec)
		handler := impl{}

		err := handler.updateTx(store, newFakeStepStore(), requesterID, false, "req-1",
			approvalapimodels.RequestEditData{})
		require.NotNil(t, err)
		require.True(t, apperrors.IsConflict(err))
	})
}

func TestCancelTx(t *testing.T) {
	t.Run("active request is canceled and steps are skipped", func(t *testing.T) {
		rec := draftRequest("req-1")
		rec.Status = models.RequestStatusPending
		rec.CurrentStep = 1
		steps := draftSteps("req-1")
		steps[0].Status = models.StepStatusPending
		store := newFakeRequestStore(rec)
		stepStore := newFakeStepStore(steps...)
		handler := impl{}
		now := time.Now()

		err := handler.cancelTx(store, stepStore, requesterID, false, "req-1", now)
		require.Nil(t, err)

		require.Equal(t, models.RequestStatusCanceled, rec.Status)
		require.NotNil(t, rec.CompletedAt)
		require.Equal(t, now, *rec.CompletedAt)

		list, err := stepStore.ListByRequest("req-1")
		require.Nil(t, err)
		for _, step := range list {
			require.Equal(t, models.StepStatusSkipped, step.Status)
		}
	})

	t.Run("approved step survives cancel untouched", func(t *testing.T) {
		rec := draftRequest("req-1")
		rec.Status = models.RequestStatusPending
		rec.CurrentStep = 2
		steps := draftSteps("req-1")
		steps[0].Status = models.StepStatusApproved
		steps[1].Status = models.StepStatusPending
		store := newFakeRequestStore(rec)
		stepStore := newFakeStepStore(steps...)
		handler := impl{}

		err := handler.cancelTx(store, stepStore, requesterID, false, "req-1", time.Now())
		require.Nil(t, err)
		require.Equal(t, models.StepStatusApproved, steps[0].Status)
		require.Equal(t, models.StepStatusSkipped, steps[1].Status)
	})

	t.Run("cancel of completed request is a conflict", func(t *testing.T) {
		for _, status := range []models.RequestStatus{
			models.RequestStatusApproved,
			models.RequestStatusRejected,
			models.RequestStatusCanceled,
		} {
			rec := draftRequest("req-1")
			rec.Status = status
			store := newFakeRequestStore(rec)
			handler := impl{}

			err := handler.cancelTx(store, newFakeStepStore(), requesterID, false, "req-1", time.Now())
			require.NotNil(t, err, status)
			require.True(t, apperrors.IsConflict(err), status)
		}
	})
}

func TestCanView(t *testing.T) {
	rec := draftRequest("req-1")
	rec.Steps = []dbmodels.ApprovalStep{
		{RequestID: "req-1", ApproverID: approver1ID, StepOrder: 1},
	}

	require.True(t, canView(rec, requesterID, false))
	require.True(t, canView(rec, approver1ID, false))
	require.True(t, canView(rec, "user-other", true))
	require.False(t, canView(rec, "user-other", false))
}
