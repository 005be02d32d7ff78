package auditstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	auditapimodels "miniflow-backend/models/api/audit"
	dbmodels "miniflow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.AuditLog) (id string, err error)
	GetByID(id string) (rec *dbmodels.AuditLog, err error)
	List(filter auditapimodels.AuditFilter) (list []dbmodels.AuditLog, err error)
	ListCount(filter auditapimodels.AuditFilter) (rowCount int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.AuditLog) (id string, err error) {
	err = i.db.
		Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.AuditLog, error) {
	rec := dbmodels.AuditLog{}
	err := i.db.
		Where("id = ?", id).
		Preload("Actor").
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

func (i impl) List(filter auditapimodels.AuditFilter) (list []dbmodels.AuditLog, err error) {
	list = []dbmodels.AuditLog{}
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	tx := i.listQuery(filter).
		Preload("Actor").
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

func (i impl) ListCount(filter auditapimodels.AuditFilter) (rowCount int64, err error) {
	err = i.listQuery(filter).
		Count(&rowCount).
		Error
	if err != nil {
		return 0, err
	}
	return rowCount, nil
}

func (i impl) listQuery(filter auditapimodels.AuditFilter) *gorm.DB {
	tx := i.db.Model(&dbmodels.AuditLog{})
	if filter.EntityType != "" {
		tx = tx.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		tx = tx.Where("entity_id = ?", filter.EntityID)
	}
	if filter.ActorID != "" {
		tx = tx.Where("actor_id = ?", filter.ActorID)
	}
	return tx
}
