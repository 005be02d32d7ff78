package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	dbmodels "miniflow-backend/models/db"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.Department{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Department")
	}
	if err := DB.AutoMigrate(&dbmodels.User{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры User")
	}
	if err := DB.AutoMigrate(&dbmodels.RequestTemplate{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры RequestTemplate")
	}
	if err := DB.AutoMigrate(&dbmodels.ApprovalRequest{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ApprovalRequest")
	}
	if err := DB.AutoMigrate(&dbmodels.ApprovalStep{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ApprovalStep")
	}
	if err := DB.AutoMigrate(&dbmodels.Attachment{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Attachment")
	}
	if err := DB.AutoMigrate(&dbmodels.AuditLog{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры AuditLog")
	}
	if err := DB.AutoMigrate(&dbmodels.NotificationLog{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры NotificationLog")
	}
	// не более одного активного этапа на заявку, страхует последовательность переходов на уровне БД
	err := DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_one_pending_step_per_request
		ON approval_steps (request_id) WHERE status = 'pending'`).Error
	if err != nil {
		return errors.Wrap(err, "ошибка создания индекса idx_one_pending_step_per_request")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
