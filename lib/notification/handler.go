package notification

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"miniflow-backend/config"
	"miniflow-backend/db"
	notificationstore "miniflow-backend/lib/notification/store"
	"miniflow-backend/lib/smtp"
	"miniflow-backend/lib/utils/helpers"
	"miniflow-backend/models"
	dbmodels "miniflow-backend/models/db"
)

type Provider interface {
	EnqueueSubmitted(event SubmittedEvent)
	EnqueueStepProcessed(event StepProcessedEvent)
	QueueDepth() int
}

var Instance Provider

// StartDispatcher поднимает очередь писем и фоновый воркер доставки.
// Переходы заявок от доставки не зависят, отказ smtp заявку не откатывает.
func StartDispatcher(ctx context.Context) {
	dispatcher := newDispatcher(
		config.Conf.Notification.QueueSize,
		config.Conf.Notification.MaxAttempts,
		time.Duration(config.Conf.Notification.RetryDelayInSec)*time.Second,
		config.Conf.Smtp.EmailFrom,
		smtp.Instance,
		notificationstore.NewInstance(db.DB),
	)
	Instance = dispatcher
	go dispatcher.run(ctx)
}

func newDispatcher(queueSize, maxAttempts int, retryDelay time.Duration, emailFrom string,
	sender smtp.Provider, store notificationstore.Provider) *impl {
	if queueSize <= 0 {
		queueSize = 1
	}
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &impl{
		queue:       make(chan delivery, queueSize),
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
		emailFrom:   emailFrom,
		sender:      sender,
		store:       store,
	}
}

type impl struct {
	queue       chan delivery
	maxAttempts int
	retryDelay  time.Duration
	emailFrom   string
	sender      smtp.Provider
	store       notificationstore.Provider
}

func (i *impl) EnqueueSubmitted(event SubmittedEvent) {
	i.enqueue(routeSubmitted(event))
}

func (i *impl) EnqueueStepProcessed(event StepProcessedEvent) {
	i.enqueue(routeStepProcessed(event))
}

func (i *impl) QueueDepth() int {
	return len(i.queue)
}

func (i *impl) enqueue(items []delivery) {
	for _, item := range items {
		if item.To.Email == "" {
			log.WithField("request_id", item.RequestID).
				Warn("Письмо не поставлено в очередь, у получателя не указана почта")
			continue
		}
		select {
		case i.queue <- item:
		default:
			// очередь переполнена, письмо теряем, но фиксируем в журнале доставки
			log.WithField("request_id", item.RequestID).
				WithField("recipient", item.To.Email).
				Error("Очередь уведомлений переполнена, письмо отброшено")
			i.saveLog(item, 0, models.NotifyStatusFailed, "очередь уведомлений переполнена")
		}
	}
}

func (i *impl) run(ctx context.Context) {
	logger := log.WithField("worker_name", "NotificationDispatcher")
	logger.Info("Воркер уведомлений запущен")
	for {
		select {
		case <-ctx.Done():
			logger.Info("Воркер уведомлений остановлен")
			return
		case item := <-i.queue:
			i.deliver(ctx, item)
		}
	}
}

func (i *impl) deliver(ctx context.Context, item delivery) {
	logger := log.
		WithField("request_id", item.RequestID).
		WithField("recipient", item.To.Email).
		WithField("notify_type", item.Type)
	var lastErr error
	for attempt := 1; attempt <= i.maxAttempts; attempt++ {
		if helpers.IsContextDone(ctx) {
			return
		}
		lastErr = i.sender.SendEMail(i.emailFrom, item.To.Email, item.Body, item.Subject)
		if lastErr == nil {
			i.saveLog(item, attempt, models.NotifyStatusSent, "")
			return
		}
		logger.WithError(lastErr).
			WithField("attempt", attempt).
			Warn("Ошибка отправки уведомления")
		if attempt < i.maxAttempts {
			select {
			case <-ctx.Done():
				return
			case <-time.After(i.retryDelay):
			}
		}
	}
	logger.WithError(lastErr).Error("Уведомление не доставлено, попытки исчерпаны")
	i.saveLog(item, i.maxAttempts, models.NotifyStatusFailed, lastErr.Error())
}

func (i *impl) saveLog(item delivery, attempts int, status models.NotifyStatus, lastError string) {
	_, err := i.store.Create(dbmodels.NotificationLog{
		Type:      item.Type,
		RequestID: item.RequestID,
		StepID:    item.StepID,
		Recipient: item.To.Email,
		Subject:   item.Subject,
		Attempts:  attempts,
		Status:    status,
		LastError: lastError,
	})
	if err != nil {
		log.WithError(err).
			WithField("request_id", item.RequestID).
			Error("Ошибка сохранения журнала уведомлений")
	}
}
