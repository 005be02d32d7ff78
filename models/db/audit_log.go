package dbmodels

type AuditLog struct {
	BaseModel
	ActorID    string `gorm:"type:varchar(36);index"`
	Actor      *User  `gorm:"foreignKey:ActorID"`
	Action     string `gorm:"type:varchar(100);index"`
	EntityType string `gorm:"type:varchar(100);index:idx_entity"`
	EntityID   string `gorm:"type:varchar(36);index:idx_entity"`
	Changes    EntityChanges `gorm:"type:jsonb"`
}
