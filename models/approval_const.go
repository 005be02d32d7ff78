package models

type RequestStatus string

const (
	RequestStatusDraft     RequestStatus = "draft"
	RequestStatusSubmitted RequestStatus = "submitted"
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCanceled  RequestStatus = "canceled"
)

var requestStatusHumanName = map[RequestStatus]string{
	RequestStatusDraft:     "Черновик",
	RequestStatusSubmitted: "Подана",
	RequestStatusPending:   "На согласовании",
	RequestStatusApproved:  "Согласована",
	RequestStatusRejected:  "Отклонена",
	RequestStatusCanceled:  "Отменена",
}

func (s RequestStatus) ToHuman() string {
	if human, exist := requestStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s RequestStatus) IsValid() bool {
	_, exist := requestStatusHumanName[s]
	return exist
}

func (s RequestStatus) CanEdit() bool {
	return s == RequestStatusDraft
}

func (s RequestStatus) CanSubmit() bool {
	return s == RequestStatusDraft
}

func (s RequestStatus) CanCancel() bool {
	switch s {
	case RequestStatusDraft, RequestStatusSubmitted, RequestStatusPending:
		return true
	}
	return false
}

// IsCompleted - терминальный статус, дальнейшие переходы запрещены
func (s RequestStatus) IsCompleted() bool {
	switch s {
	case RequestStatusApproved, RequestStatusRejected, RequestStatusCanceled:
		return true
	}
	return false
}

type StepStatus string

const (
	StepStatusWaiting  StepStatus = "waiting"
	StepStatusPending  StepStatus = "pending"
	StepStatusApproved StepStatus = "approved"
	StepStatusRejected StepStatus = "rejected"
	StepStatusSkipped  StepStatus = "skipped"
)

var stepStatusHumanName = map[StepStatus]string{
	StepStatusWaiting:  "Ожидает очереди",
	StepStatusPending:  "Ожидает решения",
	StepStatusApproved: "Согласован",
	StepStatusRejected: "Отклонен",
	StepStatusSkipped:  "Пропущен",
}

func (s StepStatus) ToHuman() string {
	if human, exist := stepStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s StepStatus) IsValid() bool {
	_, exist := stepStatusHumanName[s]
	return exist
}

func (s StepStatus) IsProcessed() bool {
	switch s {
	case StepStatusApproved, StepStatusRejected, StepStatusSkipped:
		return true
	}
	return false
}

// CanProcess - решение по этапу возможно только когда активен и сам этап, и заявка
func CanProcess(stepStatus StepStatus, requestStatus RequestStatus) bool {
	return stepStatus == StepStatusPending && requestStatus == RequestStatusPending
}

// StepType - тип участия в цепочке, все типы блокируют очередь одинаково
type StepType string

const (
	StepTypeApprove StepType = "approve"
	StepTypeReview  StepType = "review"
	StepTypeNotify  StepType = "notify"
)

var stepTypeHumanName = map[StepType]string{
	StepTypeApprove: "Согласование",
	StepTypeReview:  "Проверка",
	StepTypeNotify:  "Ознакомление",
}

func (t StepType) ToHuman() string {
	if human, exist := stepTypeHumanName[t]; exist {
		return human
	}
	return string(t)
}

func (t StepType) IsValid() bool {
	_, exist := stepTypeHumanName[t]
	return exist
}

type StepAction string

const (
	StepActionApproved StepAction = "approved"
	StepActionRejected StepAction = "rejected"
)

type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyUrgent   Urgency = "urgent"
	UrgencyCritical Urgency = "critical"
)

var urgencyHumanName = map[Urgency]string{
	UrgencyNormal:   "Обычная",
	UrgencyUrgent:   "Срочная",
	UrgencyCritical: "Критичная",
}

func (u Urgency) ToHuman() string {
	if human, exist := urgencyHumanName[u]; exist {
		return human
	}
	return string(u)
}

func (u Urgency) IsValid() bool {
	_, exist := urgencyHumanName[u]
	return exist
}
