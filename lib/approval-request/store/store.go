package approvalrequeststore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	approvalapimodels "miniflow-backend/models/api/approval"
	dbmodels "miniflow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.ApprovalRequest) (id string, err error)
	GetByID(id string) (rec *dbmodels.ApprovalRequest, err error)
	// GetByIDForUpdate блокирует строку заявки до конца транзакции,
	// конкурирующий переход увидит уже изменённое состояние
	GetByIDForUpdate(id string) (rec *dbmodels.ApprovalRequest, err error)
	Update(id string, updMap map[string]interface{}) error
	Delete(id string) error
	List(userID string, isAdmin bool, filter approvalapimodels.RequestFilter) (list []dbmodels.ApprovalRequest, err error)
	ListCount(userID string, isAdmin bool, filter approvalapimodels.RequestFilter) (rowCount int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ApprovalRequest) (id string, err error) {
	err = i.db.
		Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.ApprovalRequest, error) {
	rec := dbmodels.ApprovalRequest{}
	err := i.db.
		Where("id = ?", id).
		Preload("Template").
		Preload("Requester").
		Preload("Steps", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("step_order ASC")
		}).
		Preload("Steps.Approver").
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

func (i impl) GetByIDForUpdate(id string) (*dbmodels.ApprovalRequest, error) {
	rec := dbmodels.ApprovalRequest{}
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

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.ApprovalRequest{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) Delete(id string) error {
	rec := dbmodels.ApprovalRequest{
		BaseModel: dbmodels.BaseModel{ID: id},
	}
	err := i.db.
		Delete(&rec).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) List(userID string, isAdmin bool, filter approvalapimodels.RequestFilter) (list []dbmodels.ApprovalRequest, err error) {
	list = []dbmodels.ApprovalRequest{}
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	tx := i.listQuery(userID, isAdmin, filter).
		Preload("Template").
		Preload("Requester").
		Preload("Steps", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("step_order ASC")
		}).
		Preload("Steps.Approver").
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

func (i impl) ListCount(userID string, isAdmin bool, filter approvalapimodels.RequestFilter) (rowCount int64, err error) {
	err = i.listQuery(userID, isAdmin, filter).
		Count(&rowCount).
		Error
	if err != nil {
		return 0, err
	}
	return rowCount, nil
}

// не админ видит свои заявки и заявки, где он указан в цепочке согласования
func (i impl) listQuery(userID string, isAdmin bool, filter approvalapimodels.RequestFilter) *gorm.DB {
	tx := i.db.Model(&dbmodels.ApprovalRequest{})
	if !isAdmin {
		tx = tx.Where("requester_id = ? OR id IN (?)", userID,
			i.db.Model(&dbmodels.ApprovalStep{}).
				Select("request_id").
				Where("approver_id = ?", userID))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.TemplateID != "" {
		tx = tx.Where("template_id = ?", filter.TemplateID)
	}
	return tx
}
