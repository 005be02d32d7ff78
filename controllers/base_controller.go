package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"miniflow-backend/lib/utils/apperrors"
	apimodels "miniflow-backend/models/api"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	id := ctx.Params("id")
	if id == "" {
		return "", errors.New("не указан идентификатор записи")
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path())
}

// SendError переводит ошибку бизнес-логики в http статус,
// непредвиденные ошибки наружу не раскрываются
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, msg string) error {
	if kind, ok := apperrors.GetKind(err); ok {
		switch kind {
		case apperrors.KindConflict:
			return ctx.Status(fiber.StatusConflict).JSON(apimodels.NewError(err.Error()))
		case apperrors.KindBusinessRule:
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(apimodels.NewError(err.Error()))
		case apperrors.KindNotFound:
			return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(err.Error()))
		case apperrors.KindForbidden:
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(err.Error()))
		}
	}
	logger.WithError(err).Error(msg)
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(msg))
}
