package initializers

import (
	"context"

	log "github.com/sirupsen/logrus"

	s3client "miniflow-backend/s3"
)

func InitS3(ctx context.Context) {
	err := s3client.Connect(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка инициализации клиента S3")
		return
	}
	log.Info("S3 клиент успешно инициализирован")
}
