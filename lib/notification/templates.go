package notification

import (
	"fmt"

	"miniflow-backend/models"
)

func submittedSubject(title string) string {
	return fmt.Sprintf("Заявка \"%v\" ожидает вашего решения", title)
}

func submittedBody(event SubmittedEvent) string {
	body := fmt.Sprintf("Здравствуйте, %v!\n\n"+
		"Заявка \"%v\" (заявитель: %v) поступила на согласование.\n"+
		"Ваш этап: %v из %v.",
		event.Approver.Name, event.RequestTitle, event.Requester.Name,
		event.StepOrder, event.TotalSteps)
	if event.Urgency == models.UrgencyUrgent || event.Urgency == models.UrgencyCritical {
		body += fmt.Sprintf("\nСрочность: %v.", event.Urgency.ToHuman())
	}
	return body
}

func nextStepBody(event StepProcessedEvent) string {
	if event.Next == nil {
		return ""
	}
	return fmt.Sprintf("Здравствуйте, %v!\n\n"+
		"Заявка \"%v\" (заявитель: %v) поступила на согласование.\n"+
		"Ваш этап: %v из %v.",
		event.Next.Approver.Name, event.RequestTitle, event.Requester.Name,
		event.Next.StepOrder, event.TotalSteps)
}

func approvedSubject(title string) string {
	return fmt.Sprintf("Заявка \"%v\" согласована на очередном этапе", title)
}

func approvedBody(event StepProcessedEvent) string {
	body := fmt.Sprintf("Здравствуйте, %v!\n\n"+
		"Этап %v из %v по заявке \"%v\" согласован (%v).",
		event.Requester.Name, event.StepOrder, event.TotalSteps,
		event.RequestTitle, event.ApproverName)
	if event.Comment != "" {
		body += fmt.Sprintf("\nКомментарий: %v", event.Comment)
	}
	return body
}

func completedSubject(title string) string {
	return fmt.Sprintf("Заявка \"%v\" полностью согласована", title)
}

func completedBody(event StepProcessedEvent) string {
	body := fmt.Sprintf("Здравствуйте, %v!\n\n"+
		"Заявка \"%v\" прошла все этапы и полностью согласована.",
		event.Requester.Name, event.RequestTitle)
	if event.Comment != "" {
		body += fmt.Sprintf("\nКомментарий последнего этапа: %v", event.Comment)
	}
	return body
}

func rejectedSubject(title string) string {
	return fmt.Sprintf("Заявка \"%v\" отклонена", title)
}

func rejectedBody(event StepProcessedEvent) string {
	return fmt.Sprintf("Здравствуйте, %v!\n\n"+
		"Заявка \"%v\" отклонена на этапе %v из %v (%v).\n"+
		"Причина: %v",
		event.Requester.Name, event.RequestTitle, event.StepOrder,
		event.TotalSteps, event.ApproverName, event.Comment)
}
