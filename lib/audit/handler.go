package audithandler

import (
	log "github.com/sirupsen/logrus"

	"miniflow-backend/db"
	auditstore "miniflow-backend/lib/audit/store"
	auditapimodels "miniflow-backend/models/api/audit"
	dbmodels "miniflow-backend/models/db"
)

type Provider interface {
	Log(actorID, action, entityType, entityID string, changes dbmodels.EntityChanges)
	List(filter auditapimodels.AuditFilter) (list []auditapimodels.AuditLogView, rowCount int64, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: auditstore.NewInstance(db.DB),
	}
}

type impl struct {
	store auditstore.Provider
}

// Log пишет запись аудита, ошибка записи основную операцию не прерывает
func (i impl) Log(actorID, action, entityType, entityID string, changes dbmodels.EntityChanges) {
	_, err := i.store.Create(dbmodels.AuditLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Changes:    changes,
	})
	if err != nil {
		log.WithError(err).
			WithField("entity_type", entityType).
			WithField("entity_id", entityID).
			Error("Ошибка записи аудита")
	}
}

func (i impl) List(filter auditapimodels.AuditFilter) (list []auditapimodels.AuditLogView, rowCount int64, err error) {
	recs, err := i.store.List(filter)
	if err != nil {
		return nil, 0, err
	}
	rowCount, err = i.store.ListCount(filter)
	if err != nil {
		return nil, 0, err
	}
	list = make([]auditapimodels.AuditLogView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, auditapimodels.AuditLogConvert(rec))
	}
	return list, rowCount, nil
}
