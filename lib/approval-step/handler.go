package approvalstephandler

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"miniflow-backend/db"
	approvalrequeststore "miniflow-backend/lib/approval-request/store"
	approvalstepstore "miniflow-backend/lib/approval-step/store"
	audithandler "miniflow-backend/lib/audit"
	"miniflow-backend/lib/notification"
	"miniflow-backend/lib/utils/apperrors"
	"miniflow-backend/lib/workflow"
	"miniflow-backend/models"
	approvalapimodels "miniflow-backend/models/api/approval"
	dbmodels "miniflow-backend/models/db"
)

type Provider interface {
	GetByID(userID string, isAdmin bool, id string) (item approvalapimodels.StepView, err error)
	Approve(userID string, isAdmin bool, id string, data approvalapimodels.ApproveData) error
	Reject(userID string, isAdmin bool, id string, data approvalapimodels.RejectData) error
	Inbox(userID string, isAdmin bool, filter approvalapimodels.StepFilter) (list []approvalapimodels.StepView, rowCount int64, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:        approvalstepstore.NewInstance(db.DB),
		requestStore: approvalrequeststore.NewInstance(db.DB),
	}
}

type impl struct {
	store        approvalstepstore.Provider
	requestStore approvalrequeststore.Provider
}

func (i impl) GetByID(userID string, isAdmin bool, id string) (item approvalapimodels.StepView, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return item, err
	}
	if rec == nil {
		return item, apperrors.NotFound("этап согласования не найден")
	}
	if !isAdmin && rec.ApproverID != userID &&
		(rec.Request == nil || rec.Request.RequesterID != userID) {
		return item, apperrors.NotFound("этап согласования не найден")
	}
	return approvalapimodels.StepConvert(*rec), nil
}

func (i impl) Approve(userID string, isAdmin bool, id string, data approvalapimodels.ApproveData) error {
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		store := approvalrequeststore.NewInstance(tx)
		stepStore := approvalstepstore.NewInstance(tx)
		return i.approveTx(store, stepStore, userID, isAdmin, id, data.Comment, time.Now())
	})
	if err != nil {
		return err
	}
	audithandler.Instance.Log(userID, "approve", "approval_step", id, dbmodels.EntityChanges{
		Description: "Этап согласован",
	})
	i.notifyProcessed(id, models.StepActionApproved)
	return nil
}

func (i impl) approveTx(store approvalrequeststore.Provider, stepStore approvalstepstore.Provider,
	userID string, isAdmin bool, id, comment string, now time.Time) error {
	step, reqRec, err := i.lockStep(store, stepStore, userID, isAdmin, id)
	if err != nil {
		return err
	}
	if err = workflow.AssertStepTransition(step.Status, models.StepStatusApproved); err != nil {
		return err
	}
	err = stepStore.Update(step.ID, map[string]interface{}{
		"status":       models.StepStatusApproved,
		"comment":      comment,
		"processed_at": now,
	})
	if err != nil {
		return errors.Wrap(err, "ошибка обновления этапа")
	}
	nextStep, err := stepStore.GetByOrder(step.RequestID, step.StepOrder+1)
	if err != nil {
		return err
	}
	if nextStep != nil {
		if err = workflow.AssertStepTransition(nextStep.Status, models.StepStatusPending); err != nil {
			return err
		}
		err = stepStore.Update(nextStep.ID, map[string]interface{}{
			"status": models.StepStatusPending,
		})
		if err != nil {
			return errors.Wrap(err, "ошибка активации следующего этапа")
		}
		return store.Update(reqRec.ID, map[string]interface{}{
			"current_step": nextStep.StepOrder,
		})
	}
	// последний этап, заявка полностью согласована
	if err = workflow.AssertRequestTransition(reqRec.Status, models.RequestStatusApproved); err != nil {
		return err
	}
	return store.Update(reqRec.ID, map[string]interface{}{
		"status":       models.RequestStatusApproved,
		"completed_at": now,
	})
}

func (i impl) Reject(userID string, isAdmin bool, id string, data approvalapimodels.RejectData) error {
	if data.Comment == "" {
		return apperrors.BusinessRule("отсутствует комментарий с причиной отклонения")
	}
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		store := approvalrequeststore.NewInstance(tx)
		stepStore := approvalstepstore.NewInstance(tx)
		return i.rejectTx(store, stepStore, userID, isAdmin, id, data.Comment, time.Now())
	})
	if err != nil {
		return err
	}
	audithandler.Instance.Log(userID, "reject", "approval_step", id, dbmodels.EntityChanges{
		Description: "Этап отклонен",
		Data: []dbmodels.FieldChanges{
			{Field: "comment", NewValue: data.Comment},
		},
	})
	i.notifyProcessed(id, models.StepActionRejected)
	return nil
}

func (i impl) rejectTx(store approvalrequeststore.Provider, stepStore approvalstepstore.Provider,
	userID string, isAdmin bool, id, comment string, now time.Time) error {
	step, reqRec, err := i.lockStep(store, stepStore, userID, isAdmin, id)
	if err != nil {
		return err
	}
	if err = workflow.AssertStepTransition(step.Status, models.StepStatusRejected); err != nil {
		return err
	}
	if err = workflow.AssertRequestTransition(reqRec.Status, models.RequestStatusRejected); err != nil {
		return err
	}
	err = stepStore.Update(step.ID, map[string]interface{}{
		"status":       models.StepStatusRejected,
		"comment":      comment,
		"processed_at": now,
	})
	if err != nil {
		return errors.Wrap(err, "ошибка обновления этапа")
	}
	_, err = stepStore.SkipAfter(step.RequestID, step.StepOrder)
	if err != nil {
		return errors.Wrap(err, "ошибка пропуска оставшихся этапов")
	}
	return store.Update(reqRec.ID, map[string]interface{}{
		"status":       models.RequestStatusRejected,
		"completed_at": now,
	})
}

// lockStep берет блокировку сначала на заявку, затем на этап, и проверяет гард
// перехода. Порядок блокировок совпадает с submit/cancel, иначе встречные переходы
// по одной заявке взаимоблокируются. Проигравший конкурент увидит уже обработанный
// этап и упадет на гарде
func (i impl) lockStep(store approvalrequeststore.Provider, stepStore approvalstepstore.Provider,
	userID string, isAdmin bool, id string) (step *dbmodels.ApprovalStep, reqRec *dbmodels.ApprovalRequest, err error) {
	// предварительное чтение без блокировки, только ради request_id
	step, err = stepStore.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if step == nil {
		return nil, nil, apperrors.NotFound("этап согласования не найден")
	}
	if !isAdmin && step.ApproverID != userID {
		return nil, nil, apperrors.Forbidden("решение доступно только назначенному согласующему")
	}
	reqRec, err = store.GetByIDForUpdate(step.RequestID)
	if err != nil {
		return nil, nil, err
	}
	if reqRec == nil {
		return nil, nil, apperrors.NotFound("заявка не найдена")
	}
	step, err = stepStore.GetByIDForUpdate(id)
	if err != nil {
		return nil, nil, err
	}
	if step == nil {
		return nil, nil, apperrors.NotFound("этап согласования не найден")
	}
	if !models.CanProcess(step.Status, reqRec.Status) {
		return nil, nil, apperrors.Conflict("этап не ожидает решения", reqRec.Status)
	}
	return step, reqRec, nil
}

func (i impl) notifyProcessed(stepID string, action models.StepAction) {
	step, err := i.store.GetByID(stepID)
	if err != nil || step == nil || step.Request == nil || step.Request.Requester == nil {
		log.WithError(err).WithField("step_id", stepID).
			Error("Ошибка чтения этапа для уведомления о решении")
		return
	}
	reqRec := step.Request
	event := notification.StepProcessedEvent{
		RequestID:    reqRec.ID,
		RequestTitle: reqRec.Title,
		Requester: notification.Recipient{
			Name:  reqRec.Requester.GetFullName(),
			Email: reqRec.Requester.Email,
		},
		Action:     action,
		Comment:    step.Comment,
		StepID:     step.ID,
		StepOrder:  step.StepOrder,
		TotalSteps: reqRec.TotalSteps,
	}
	if step.Approver != nil {
		event.ApproverName = step.Approver.GetFullName()
	}
	if action == models.StepActionApproved {
		nextStep, err := i.store.GetByOrder(reqRec.ID, step.StepOrder+1)
		if err != nil {
			log.WithError(err).WithField("step_id", stepID).
				Error("Ошибка чтения следующего этапа для уведомления")
			return
		}
		if nextStep == nil {
			event.IsFinalApproval = true
		} else if nextStep.Approver != nil {
			event.Next = &notification.NextStepInfo{
				StepID:    nextStep.ID,
				StepOrder: nextStep.StepOrder,
				Approver: notification.Recipient{
					Name:  nextStep.Approver.GetFullName(),
					Email: nextStep.Approver.Email,
				},
			}
		}
	}
	notification.Instance.EnqueueStepProcessed(event)
}

func (i impl) Inbox(userID string, isAdmin bool, filter approvalapimodels.StepFilter) (list []approvalapimodels.StepView, rowCount int64, err error) {
	recs, err := i.store.ListByApprover(userID, isAdmin, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения входящих этапов")
	}
	rowCount, err = i.store.ListByApproverCount(userID, isAdmin, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения количества входящих этапов")
	}
	list = make([]approvalapimodels.StepView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, approvalapimodels.StepConvert(rec))
	}
	return list, rowCount, nil
}
