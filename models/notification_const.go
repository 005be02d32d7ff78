package models

// NotifyType - тип письма, определяет шаблон и получателя
type NotifyType string

const (
	NotifySubmitted NotifyType = "submitted" // согласующему: назначен новый этап
	NotifyApproved  NotifyType = "approved"  // заявителю: этап согласован, заявка двигается дальше
	NotifyRejected  NotifyType = "rejected"  // заявителю: заявка отклонена
	NotifyCompleted NotifyType = "completed" // заявителю: заявка полностью согласована
)

type NotifyStatus string

const (
	NotifyStatusSent   NotifyStatus = "sent"
	NotifyStatusFailed NotifyStatus = "failed"
)
