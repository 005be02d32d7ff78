package auditapimodels

import (
	"time"

	apimodels "miniflow-backend/models/api"
	dbmodels "miniflow-backend/models/db"
)

type AuditLogView struct {
	ID         string                 `json:"id"`
	ActorID    string                 `json:"actor_id"`
	ActorName  string                 `json:"actor_name"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   string                 `json:"entity_id"`
	Changes    dbmodels.EntityChanges `json:"changes"`
	CreatedAt  time.Time              `json:"created_at"`
}

func AuditLogConvert(rec dbmodels.AuditLog) AuditLogView {
	result := AuditLogView{
		ID:         rec.ID,
		ActorID:    rec.ActorID,
		Action:     rec.Action,
		EntityType: rec.EntityType,
		EntityID:   rec.EntityID,
		Changes:    rec.Changes,
		CreatedAt:  rec.CreatedAt,
	}
	if rec.Actor != nil {
		result.ActorName = rec.Actor.GetFullName()
	} else if rec.ActorID == "" {
		result.ActorName = "Система"
	}
	return result
}

type AuditFilter struct {
	apimodels.Pagination
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	ActorID    string `json:"actor_id"`
}

func (r AuditFilter) Validate() error {
	return nil
}
