package notification

import (
	"miniflow-backend/models"
)

// Recipient - снимок адресата на момент перехода,
// последующие изменения пользователя на уже поставленные письма не влияют
type Recipient struct {
	Name  string
	Email string
}

// NextStepInfo - этап, активированный этим же переходом
type NextStepInfo struct {
	StepID    string
	StepOrder int
	Approver  Recipient
}

// SubmittedEvent - заявка подана, активирован первый этап
type SubmittedEvent struct {
	RequestID    string
	RequestTitle string
	Requester    Recipient
	Urgency      models.Urgency
	StepID       string
	StepOrder    int
	TotalSteps   int
	Approver     Recipient
}

// StepProcessedEvent - по активному этапу принято решение
type StepProcessedEvent struct {
	RequestID    string
	RequestTitle string
	Requester    Recipient
	Action       models.StepAction
	Comment      string
	StepID       string
	StepOrder    int
	TotalSteps   int
	ApproverName string
	// IsFinalApproval - этап согласован и следующего нет, заявка полностью согласована
	IsFinalApproval bool
	Next            *NextStepInfo
}

// delivery - одно письмо в очереди на отправку
type delivery struct {
	Type      models.NotifyType
	RequestID string
	StepID    string
	To        Recipient
	Subject   string
	Body      string
}

func routeSubmitted(event SubmittedEvent) []delivery {
	return []delivery{
		{
			Type:      models.NotifySubmitted,
			RequestID: event.RequestID,
			StepID:    event.StepID,
			To:        event.Approver,
			Subject:   submittedSubject(event.RequestTitle),
			Body:      submittedBody(event),
		},
	}
}

// routeStepProcessed раскладывает решение по этапу на письма:
// отклонение и финальное согласование уходят заявителю,
// промежуточное согласование - заявителю и следующему согласующему
func routeStepProcessed(event StepProcessedEvent) []delivery {
	if event.Action == models.StepActionRejected {
		return []delivery{
			{
				Type:      models.NotifyRejected,
				RequestID: event.RequestID,
				StepID:    event.StepID,
				To:        event.Requester,
				Subject:   rejectedSubject(event.RequestTitle),
				Body:      rejectedBody(event),
			},
		}
	}
	if event.IsFinalApproval {
		return []delivery{
			{
				Type:      models.NotifyCompleted,
				RequestID: event.RequestID,
				StepID:    event.StepID,
				To:        event.Requester,
				Subject:   completedSubject(event.RequestTitle),
				Body:      completedBody(event),
			},
		}
	}
	result := []delivery{
		{
			Type:      models.NotifyApproved,
			RequestID: event.RequestID,
			StepID:    event.StepID,
			To:        event.Requester,
			Subject:   approvedSubject(event.RequestTitle),
			Body:      approvedBody(event),
		},
	}
	if event.Next != nil {
		result = append(result, delivery{
			Type:      models.NotifySubmitted,
			RequestID: event.RequestID,
			StepID:    event.Next.StepID,
			To:        event.Next.Approver,
			Subject:   submittedSubject(event.RequestTitle),
			Body:      nextStepBody(event),
		})
	}
	return result
}
