package templatestore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbmodels "miniflow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.RequestTemplate) (id string, err error)
	GetByID(id string) (rec *dbmodels.RequestTemplate, err error)
	Update(id string, updMap map[string]interface{}) error
	List(onlyActive bool) (list []dbmodels.RequestTemplate, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.RequestTemplate) (id string, err error) {
	err = i.db.
		Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.RequestTemplate, error) {
	rec := dbmodels.RequestTemplate{}
	err := i.db.
		Where("id = ?", id).
		Preload("Creator").
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
		Model(&dbmodels.RequestTemplate{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) List(onlyActive bool) (list []dbmodels.RequestTemplate, err error) {
	list = []dbmodels.RequestTemplate{}
	tx := i.db.Order("name ASC")
	if onlyActive {
		tx = tx.Where("is_active = true")
	}
	err = tx.Find(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}
