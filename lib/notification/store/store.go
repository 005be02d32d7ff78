package notificationstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbmodels "miniflow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.NotificationLog) (id string, err error)
	ListByRequest(requestID string) (list []dbmodels.NotificationLog, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.NotificationLog) (id string, err error) {
	err = i.db.
		Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) ListByRequest(requestID string) (list []dbmodels.NotificationLog, err error) {
	list = []dbmodels.NotificationLog{}
	err = i.db.
		Where("request_id = ?", requestID).
		Order("created_at DESC").
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
