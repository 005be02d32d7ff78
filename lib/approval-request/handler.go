package approvalrequesthandler

import (
	"bytes"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"miniflow-backend/db"
	approvalrequeststore "miniflow-backend/lib/approval-request/store"
	approvalstepstore "miniflow-backend/lib/approval-step/store"
	audithandler "miniflow-backend/lib/audit"
	pdfexport "miniflow-backend/lib/export/pdf"
	xlsexport "miniflow-backend/lib/export/xls"
	"miniflow-backend/lib/notification"
	templatestore "miniflow-backend/lib/template/store"
	usersstore "miniflow-backend/lib/users/store"
	"miniflow-backend/lib/utils/apperrors"
	"miniflow-backend/lib/workflow"
	"miniflow-backend/models"
	approvalapimodels "miniflow-backend/models/api/approval"
	dbmodels "miniflow-backend/models/db"
)

type Provider interface {
	Create(userID string, data approvalapimodels.RequestCreateData) (id string, err error)
	GetByID(userID string, isAdmin bool, id string) (item approvalapimodels.RequestView, err error)
	Update(userID string, isAdmin bool, id string, data approvalapimodels.RequestEditData) error
	Submit(userID string, isAdmin bool, id string) error
	Cancel(userID string, isAdmin bool, id string) error
	Delete(userID string, isAdmin bool, id string) error
	List(userID string, isAdmin bool, filter approvalapimodels.RequestFilter) (list []approvalapimodels.RequestView, rowCount int64, err error)
	ExportXls(userID string, isAdmin bool, filter approvalapimodels.RequestFilter) (buf *bytes.Buffer, err error)
	ApprovalSheetPdf(userID string, isAdmin bool, id string) (pdfFile []byte, err error)
}

var Instance Provider

// предел строк в xlsx выгрузке
const exportLimit = 1000

func NewHandler() {
	Instance = impl{
		store:         approvalrequeststore.NewInstance(db.DB),
		stepStore:     approvalstepstore.NewInstance(db.DB),
		templateStore: templatestore.NewInstance(db.DB),
		userStore:     usersstore.NewInstance(db.DB),
	}
}

type impl struct {
	store         approvalrequeststore.Provider
	stepStore     approvalstepstore.Provider
	templateStore templatestore.Provider
	userStore     usersstore.Provider
}

func (i impl) checkDependency(data approvalapimodels.RequestCreateData) error {
	templateRec, err := i.templateStore.GetByID(data.TemplateID)
	if err != nil {
		return err
	}
	if templateRec == nil {
		return apperrors.NotFound("шаблон заявки не найден")
	}
	if !templateRec.IsActive {
		return apperrors.BusinessRule("шаблон заявки не активен")
	}
	return i.checkApprovers(data.ApprovalLine)
}

func (i impl) checkApprovers(line []approvalapimodels.StepLineData) error {
	for k, item := range line {
		userRec, err := i.userStore.GetByID(item.ApproverID)
		if err != nil {
			return err
		}
		if userRec == nil {
			return errors.Errorf("согласующий для этапа %v не найден", k+1)
		}
	}
	return nil
}

func (i impl) Create(userID string, data approvalapimodels.RequestCreateData) (id string, err error) {
	logger := log.WithField("user_id", userID)
	err = i.checkDependency(data)
	if err != nil {
		return "", err
	}
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		store := approvalrequeststore.NewInstance(tx)
		stepStore := approvalstepstore.NewInstance(tx)
		id, err = i.createTx(store, stepStore, userID, data)
		return err
	})
	if err != nil {
		return "", err
	}
	logger.WithField("request_id", id).Info("Заявка создана")
	audithandler.Instance.Log(userID, "create", "approval_request", id, dbmodels.EntityChanges{
		Description: "Создан черновик заявки",
	})
	return id, nil
}

func (i impl) createTx(store approvalrequeststore.Provider, stepStore approvalstepstore.Provider,
	userID string, data approvalapimodels.RequestCreateData) (id string, err error) {
	urgency := data.Urgency
	if urgency == "" {
		urgency = models.UrgencyNormal
	}
	rec := dbmodels.ApprovalRequest{
		TemplateID:  data.TemplateID,
		RequesterID: userID,
		Title:       data.Title,
		Content:     data.Content,
		Status:      models.RequestStatusDraft,
		CurrentStep: 0,
		TotalSteps:  len(data.ApprovalLine),
		Urgency:     urgency,
	}
	id, err = store.Create(rec)
	if err != nil {
		return "", errors.Wrap(err, "ошибка сохранения заявки")
	}
	err = stepStore.CreateBulk(buildSteps(id, data.ApprovalLine))
	if err != nil {
		return "", errors.Wrap(err, "ошибка сохранения цепочки согласования")
	}
	return id, nil
}

func buildSteps(requestID string, line []approvalapimodels.StepLineData) []dbmodels.ApprovalStep {
	steps := make([]dbmodels.ApprovalStep, 0, len(line))
	for k, item := range line {
		stepType := item.Type
		if stepType == "" {
			stepType = models.StepTypeApprove
		}
		steps = append(steps, dbmodels.ApprovalStep{
			RequestID:  requestID,
			ApproverID: item.ApproverID,
			StepOrder:  k + 1,
			Type:       stepType,
			Status:     models.StepStatusWaiting,
			DueDate:    item.DueDate,
		})
	}
	return steps
}

func (i impl) GetByID(userID string, isAdmin bool, id string) (item approvalapimodels.RequestView, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return item, err
	}
	if rec == nil {
		return item, apperrors.NotFound("заявка не найдена")
	}
	if !canView(rec, userID, isAdmin) {
		// для постороннего заявка неотличима от несуществующей
		return item, apperrors.NotFound("заявка не найдена")
	}
	return approvalapimodels.RequestConvert(*rec), nil
}

func canView(rec *dbmodels.ApprovalRequest, userID string, isAdmin bool) bool {
	if isAdmin || rec.RequesterID == userID {
		return true
	}
	for _, step := range rec.Steps {
		if step.ApproverID == userID {
			return true
		}
	}
	return false
}

func (i impl) Update(userID string, isAdmin bool, id string, data approvalapimodels.RequestEditData) error {
	if data.ApprovalLine != nil {
		if err := i.checkApprovers(*data.ApprovalLine); err != nil {
			return err
		}
	}
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		store := approvalrequeststore.NewInstance(tx)
		stepStore := approvalstepstore.NewInstance(tx)
		return i.updateTx(store, stepStore, userID, isAdmin, id, data)
	})
	if err != nil {
		return err
	}
	audithandler.Instance.Log(userID, "update", "approval_request", id, dbmodels.EntityChanges{
		Description: "Черновик заявки изменен",
	})
	return nil
}

func (i impl) updateTx(store approvalrequeststore.Provider, stepStore approvalstepstore.Provider,
	userID string, isAdmin bool, id string, data approvalapimodels.RequestEditData) error {
	rec, err := store.GetByIDForUpdate(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return apperrors.NotFound("заявка не найдена")
	}
	if !isAdmin && rec.RequesterID != userID {
		return apperrors.Forbidden("изменение доступно только заявителю")
	}
	if !rec.Status.CanEdit() {
		return apperrors.Conflict("изменение доступно только для черновика", rec.Status)
	}
	updMap := map[string]interface{}{
		"title":   data.Title,
		"content": data.Content,
	}
	if data.Urgency != "" {
		updMap["urgency"] = data.Urgency
	}
	if data.ApprovalLine != nil {
		// полная замена цепочки, частичное редактирование не поддерживается
		err = stepStore.DeleteByRequest(id)
		if err != nil {
			return errors.Wrap(err, "ошибка удаления цепочки согласования")
		}
		err = stepStore.CreateBulk(buildSteps(id, *data.ApprovalLine))
		if err != nil {
			return errors.Wrap(err, "ошибка сохранения цепочки согласования")
		}
		updMap["total_steps"] = len(*data.ApprovalLine)
	}
	return store.Update(id, updMap)
}

func (i impl) Submit(userID string, isAdmin bool, id string) error {
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		store := approvalrequeststore.NewInstance(tx)
		stepStore := approvalstepstore.NewInstance(tx)
		return i.submitTx(store, stepStore, userID, isAdmin, id, time.Now())
	})
	if err != nil {
		return err
	}
	audithandler.Instance.Log(userID, "submit", "approval_request", id, dbmodels.EntityChanges{
		Description: "Заявка подана на согласование",
	})
	i.notifySubmitted(id)
	return nil
}

func (i impl) submitTx(store approvalrequeststore.Provider, stepStore approvalstepstore.Provider,
	userID string, isAdmin bool, id string, now time.Time) error {
	rec, err := store.GetByIDForUpdate(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return apperrors.NotFound("заявка не найдена")
	}
	if !isAdmin && rec.RequesterID != userID {
		return apperrors.Forbidden("подача доступна только заявителю")
	}
	if !rec.Status.CanSubmit() {
		return apperrors.Conflict("подача доступна только для черновика", rec.Status)
	}
	stepCount, err := stepStore.CountByRequest(id)
	if err != nil {
		return err
	}
	if stepCount == 0 {
		return apperrors.BusinessRule("не настроена цепочка согласования")
	}
	firstStep, err := stepStore.GetByOrder(id, 1)
	if err != nil {
		return err
	}
	if firstStep == nil {
		return apperrors.BusinessRule("не настроена цепочка согласования")
	}
	if err = workflow.AssertStepTransition(firstStep.Status, models.StepStatusPending); err != nil {
		return err
	}
	if err = workflow.AssertRequestTransition(rec.Status, models.RequestStatusPending); err != nil {
		return err
	}
	err = stepStore.Update(firstStep.ID, map[string]interface{}{
		"status": models.StepStatusPending,
	})
	if err != nil {
		return errors.Wrap(err, "ошибка активации первого этапа")
	}
	return store.Update(id, map[string]interface{}{
		"status":       models.RequestStatusPending,
		"current_step": 1,
		"submitted_at": now,
	})
}

func (i impl) notifySubmitted(id string) {
	rec, err := i.store.GetByID(id)
	if err != nil || rec == nil {
		log.WithError(err).WithField("request_id", id).
			Error("Ошибка чтения заявки для уведомления о подаче")
		return
	}
	step := rec.GetCurrentStep()
	if step == nil || step.Approver == nil || rec.Requester == nil {
		return
	}
	notification.Instance.EnqueueSubmitted(notification.SubmittedEvent{
		RequestID:    rec.ID,
		RequestTitle: rec.Title,
		Requester: notification.Recipient{
			Name:  rec.Requester.GetFullName(),
			Email: rec.Requester.Email,
		},
		Urgency:    rec.Urgency,
		StepID:     step.ID,
		StepOrder:  step.StepOrder,
		TotalSteps: rec.TotalSteps,
		Approver: notification.Recipient{
			Name:  step.Approver.GetFullName(),
			Email: step.Approver.Email,
		},
	})
}

func (i impl) Cancel(userID string, isAdmin bool, id string) error {
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		store := approvalrequeststore.NewInstance(tx)
		stepStore := approvalstepstore.NewInstance(tx)
		return i.cancelTx(store, stepStore, userID, isAdmin, id, time.Now())
	})
	if err != nil {
		return err
	}
	// отмена писем не рассылает
	audithandler.Instance.Log(userID, "cancel", "approval_request", id, dbmodels.EntityChanges{
		Description: "Заявка отменена",
	})
	return nil
}

func (i impl) cancelTx(store approvalrequeststore.Provider, stepStore approvalstepstore.Provider,
	userID string, isAdmin bool, id string, now time.Time) error {
	rec, err := store.GetByIDForUpdate(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return apperrors.NotFound("заявка не найдена")
	}
	if !isAdmin && rec.RequesterID != userID {
		return apperrors.Forbidden("отмена доступна только заявителю")
	}
	if !rec.Status.CanCancel() {
		return apperrors.Conflict("заявка уже завершена", rec.Status)
	}
	if err = workflow.AssertRequestTransition(rec.Status, models.RequestStatusCanceled); err != nil {
		return err
	}
	_, err = stepStore.SkipActive(id)
	if err != nil {
		return errors.Wrap(err, "ошибка пропуска этапов")
	}
	return store.Update(id, map[string]interface{}{
		"status":       models.RequestStatusCanceled,
		"completed_at": now,
	})
}

func (i impl) Delete(userID string, isAdmin bool, id string) error {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return apperrors.NotFound("заявка не найдена")
	}
	if !isAdmin && rec.RequesterID != userID {
		return apperrors.Forbidden("удаление доступно только заявителю")
	}
	if !rec.Status.CanEdit() {
		return apperrors.Conflict("удаление доступно только для черновика", rec.Status)
	}
	err = i.store.Delete(id)
	if err != nil {
		return err
	}
	audithandler.Instance.Log(userID, "delete", "approval_request", id, dbmodels.EntityChanges{
		Description: "Черновик заявки удален",
	})
	return nil
}

func (i impl) List(userID string, isAdmin bool, filter approvalapimodels.RequestFilter) (list []approvalapimodels.RequestView, rowCount int64, err error) {
	recs, err := i.store.List(userID, isAdmin, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка заявок")
	}
	rowCount, err = i.store.ListCount(userID, isAdmin, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения количества заявок")
	}
	list = make([]approvalapimodels.RequestView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, approvalapimodels.RequestConvert(rec))
	}
	return list, rowCount, nil
}

func (i impl) ExportXls(userID string, isAdmin bool, filter approvalapimodels.RequestFilter) (*bytes.Buffer, error) {
	// выгружаем без пагинации, но с теми же правами видимости, что и список
	filter.Limit = exportLimit
	filter.Page = 1
	recs, err := i.store.List(userID, isAdmin, filter)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка заявок")
	}
	return xlsexport.Instance.ExportRequestList(recs)
}

func (i impl) ApprovalSheetPdf(userID string, isAdmin bool, id string) ([]byte, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperrors.NotFound("заявка не найдена")
	}
	if !canView(rec, userID, isAdmin) {
		return nil, apperrors.NotFound("заявка не найдена")
	}
	return pdfexport.GenerateApprovalSheet(*rec)
}
