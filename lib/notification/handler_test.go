package notification

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"miniflow-backend/models"
	dbmodels "miniflow-backend/models/db"
)

type fakeSender struct {
	failures int // сколько первых попыток завершить ошибкой
	sent     []string
	attempts int
}

func (f *fakeSender) SendEMail(from, to, message, subject string) error {
	f.attempts++
	if f.attempts <= f.failures {
		return errors.New("smtp недоступен")
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeLogStore struct {
	logs []dbmodels.NotificationLog
}

func (f *fakeLogStore) Create(rec dbmodels.NotificationLog) (string, error) {
	f.logs = append(f.logs, rec)
	return "log-1", nil
}

func (f *fakeLogStore) ListByRequest(requestID string) ([]dbmodels.NotificationLog, error) {
	return f.logs, nil
}

func submittedEvent() SubmittedEvent {
	return SubmittedEvent{
		RequestID:    "req-1",
		RequestTitle: "Договор аренды",
		Requester:    Recipient{Name: "Иванов Иван", Email: "ivanov@example.com"},
		Urgency:      models.UrgencyNormal,
		StepID:       "step-1",
		StepOrder:    1,
		TotalSteps:   2,
		Approver:     Recipient{Name: "Петров Петр", Email: "petrov@example.com"},
	}
}

func TestRouteSubmitted(t *testing.T) {
	items := routeSubmitted(submittedEvent())
	require.Len(t, items, 1)
	require.Equal(t, models.NotifySubmitted, items[0].Type)
	require.Equal(t, "petrov@example.com", items[0].To.Email)
	require.Equal(t, "step-1", items[0].StepID)
	require.NotEmpty(t, items[0].Subject)
	require.NotEmpty(t, items[0].Body)
}

func TestRouteStepProcessed(t *testing.T) {
	base := StepProcessedEvent{
		RequestID:    "req-1",
		RequestTitle: "Договор аренды",
		Requester:    Recipient{Name: "Иванов Иван", Email: "ivanov@example.com"},
		StepID:       "step-1",
		StepOrder:    1,
		TotalSteps:   2,
		ApproverName: "Петров Петр",
	}

	t.Run("rejection goes to the requester only", func(t *testing.T) {
		event := base
		event.Action = models.StepActionRejected
		event.Comment = "не хватает документов"

		items := routeStepProcessed(event)
		require.Len(t, items, 1)
		require.Equal(t, models.NotifyRejected, items[0].Type)
		require.Equal(t, "ivanov@example.com", items[0].To.Email)
		require.Contains(t, items[0].Body, "не хватает документов")
	})

	t.Run("final approval goes to the requester as completed", func(t *testing.T) {
		event := base
		event.Action = models.StepActionApproved
		event.StepOrder = 2
		event.IsFinalApproval = true

		items := routeStepProcessed(event)
		require.Len(t, items, 1)
		require.Equal(t, models.NotifyCompleted, items[0].Type)
		require.Equal(t, "ivanov@example.com", items[0].To.Email)
	})

	t.Run("intermediate approval notifies requester and next approver", func(t *testing.T) {
		event := base
		event.Action = models.StepActionApproved
		event.Next = &NextStepInfo{
			StepID:    "step-2",
			StepOrder: 2,
			Approver:  Recipient{Name: "Сидоров Сидор", Email: "sidorov@example.com"},
		}

		items := routeStepProcessed(event)
		require.Len(t, items, 2)
		require.Equal(t, models.NotifyApproved, items[0].Type)
		require.Equal(t, "ivanov@example.com", items[0].To.Email)
		require.Equal(t, models.NotifySubmitted, items[1].Type)
		require.Equal(t, "sidorov@example.com", items[1].To.Email)
		require.Equal(t, "step-2", items[1].StepID)
	})
}

func TestDeliver(t *testing.T) {
	item := routeSubmitted(submittedEvent())[0]

	t.Run("first attempt success", func(t *testing.T) {
		sender := &fakeSender{}
		store := &fakeLogStore{}
		dispatcher := newDispatcher(10, 3, 0, "noreply@example.com", sender, store)

		dispatcher.deliver(context.Background(), item)

		require.Equal(t, []string{"petrov@example.com"}, sender.sent)
		require.Len(t, store.logs, 1)
		require.Equal(t, models.NotifyStatusSent, store.logs[0].Status)
		require.Equal(t, 1, store.logs[0].Attempts)
	})

	t.Run("retry after transient failure", func(t *testing.T) {
		sender := &fakeSender{failures: 2}
		store := &fakeLogStore{}
		dispatcher := newDispatcher(10, 3, 0, "noreply@example.com", sender, store)

		dispatcher.deliver(context.Background(), item)

		require.Equal(t, 3, sender.attempts)
		require.Len(t, store.logs, 1)
		require.Equal(t, models.NotifyStatusSent, store.logs[0].Status)
		require.Equal(t, 3, store.logs[0].Attempts)
	})

	t.Run("attempts exhausted", func(t *testing.T) {
		sender := &fakeSender{failures: 10}
		store := &fakeLogStore{}
		dispatcher := newDispatcher(10, 3, 0, "noreply@example.com", sender, store)

		dispatcher.deliver(context.Background(), item)

		require.Equal(t, 3, sender.attempts)
		require.Empty(t, sender.sent)
		require.Len(t, store.logs, 1)
		require.Equal(t, models.NotifyStatusFailed, store.logs[0].Status)
		require.NotEmpty(t, store.logs[0].LastError)
	})

	t.Run("canceled context stops retries", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		sender := &fakeSender{failures: 10}
		store := &fakeLogStore{}
		dispatcher := newDispatcher(10, 3, 0, "noreply@example.com", sender, store)

		dispatcher.deliver(ctx, item)
		require.Equal(t, 0, sender.attempts)
	})
}

func TestEnqueue(t *testing.T) {
	t.Run("overflow is recorded as failed", func(t *testing.T) {
		store := &fakeLogStore{}
		dispatcher := newDispatcher(1, 1, 0, "noreply@example.com", &fakeSender{}, store)

		// воркер не запущен, очередь никто не разбирает
		dispatcher.EnqueueSubmitted(submittedEvent())
		dispatcher.EnqueueSubmitted(submittedEvent())

		require.Equal(t, 1, dispatcher.QueueDepth())
		require.Len(t, store.logs, 1)
		require.Equal(t, models.NotifyStatusFailed, store.logs[0].Status)
	})

	t.Run("recipient without email is skipped", func(t *testing.T) {
		store := &fakeLogStore{}
		dispatcher := newDispatcher(10, 1, 0, "noreply@example.com", &fakeSender{}, store)

		event := submittedEvent()
		event.Approver.Email = ""
		dispatcher.EnqueueSubmitted(event)

		require.Equal(t, 0, dispatcher.QueueDepth())
		require.Empty(t, store.logs)
	})
}
