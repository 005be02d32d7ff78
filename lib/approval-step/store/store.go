package approvalstepstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"miniflow-backend/models"
	approvalapimodels "miniflow-backend/models/api/approval"
	dbmodels "miniflow-backend/models/db"
)

type Provider interface {
	CreateBulk(recs []dbmodels.ApprovalStep) error
	GetByID(id string) (rec *dbmodels.ApprovalStep, err error)
	GetByIDForUpdate(id string) (rec *dbmodels.ApprovalStep, err error)
	GetByOrder(requestID string, order int) (rec *dbmodels.ApprovalStep, err error)
	Update(id string, updMap map[string]interface{}) error
	DeleteByRequest(requestID string) error
	CountByRequest(requestID string) (count int64, err error)
	// SkipAfter переводит в skipped все ожидающие этапы с порядком больше указанного.
	// Пустое множество не ошибка, обновление идемпотентно.
	SkipAfter(requestID string, afterOrder int) (skipped int64, err error)
	// SkipActive переводит в skipped все этапы в статусах waiting/pending (отмена заявки)
	SkipActive(requestID string) (skipped int64, err error)
	ListByRequest(requestID string) (list []dbmodels.ApprovalStep, err error)
	ListByApprover(approverID string, isAdmin bool, filter approvalapimodels.StepFilter) (list []dbmodels.ApprovalStep, err error)
	ListByApproverCount(approverID string, isAdmin bool, filter approvalapimodels.StepFilter) (rowCount int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) CreateBulk(recs []dbmodels.ApprovalStep) error {
	if len(recs) == 0 {
		return nil
	}
	err := i.db.
		Omit(clause.Associations).
		Create(&recs).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) GetByID(id string) (*dbmodels.ApprovalStep, error) {
	rec := dbmodels.ApprovalStep{}
	err := i.db.
		Where("id = ?", id).
		Preload("Approver").
		Preload("Request").
		Preload("Request.Requester").
		Preload("Request.Template").
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByIDForUpdate(id string) (*dbmodels.ApprovalStep, error) {
	rec := dbmodels.ApprovalStep{}
	err := i.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByOrder(requestID string, order int) (*dbmodels.ApprovalStep, error) {
	rec := dbmodels.ApprovalStep{}
	err := i.db.
		Where("request_id = ?", requestID).
		Where("step_order = ?", order).
		Preload("Approver").
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.ApprovalStep{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) DeleteByRequest(requestID string) error {
	err := i.db.
		Where("request_id = ?", requestID).
		Delete(&dbmodels.ApprovalStep{}).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) CountByRequest(requestID string) (count int64, err error) {
	err = i.db.
		Model(&dbmodels.ApprovalStep{}).
		Where("request_id = ?", requestID).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) SkipAfter(requestID string, afterOrder int) (skipped int64, err error) {
	tx := i.db.
		Model(&dbmodels.ApprovalStep{}).
		Where("request_id = ?", requestID).
		Where("step_order > ?", afterOrder).
		Where("status = ?", models.StepStatusWaiting).
		Update("status", models.StepStatusSkipped)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}

func (i impl) SkipActive(requestID string) (skipped int64, err error) {
	tx := i.db.
		Model(&dbmodels.ApprovalStep{}).
		Where("request_id = ?", requestID).
		Where("status IN ?", []models.StepStatus{models.StepStatusWaiting, models.StepStatusPending}).
		Update("status", models.StepStatusSkipped)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}

func (i impl) ListByRequest(requestID string) (list []dbmodels.ApprovalStep, err error) {
	list = []dbmodels.ApprovalStep{}
	err = i.db.
		Where("request_id = ?", requestID).
		Order("step_order ASC").
		Preload("Approver").
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) ListByApprover(approverID string, isAdmin bool, filter approvalapimodels.StepFilter) (list []dbmodels.ApprovalStep, err error) {
	list = []dbmodels.ApprovalStep{}
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	tx := i.inboxQuery(approverID, isAdmin, filter).
		Preload("Approver").
		Preload("Request").
		Preload("Request.Requester").
		Preload("Request.Template").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit)
	err = tx.Find(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) ListByApproverCount(approverID string, isAdmin bool, filter approvalapimodels.StepFilter) (rowCount int64, err error) {
	err = i.inboxQuery(approverID, isAdmin, filter).
		Count(&rowCount).
		Error
	if err != nil {
		return 0, err
	}
	return rowCount, nil
}

func (i impl) inboxQuery(approverID string, isAdmin bool, filter approvalapimodels.StepFilter) *gorm.DB {
	tx := i.db.Model(&dbmodels.ApprovalStep{})
	if !isAdmin {
		tx = tx.Where("approver_id = ?", approverID)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	} else {
		// по умолчанию входящие - только ожидающие решения
		tx = tx.Where("status = ?", models.StepStatusPending)
	}
	return tx
}
