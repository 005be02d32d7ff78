package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"miniflow-backend/config"
	"miniflow-backend/db"
	"miniflow-backend/lib/notification"
	apimodels "miniflow-backend/models/api"
)

func InitHealthApiRouters(app *fiber.App) {
	app.Get("health", health)
}

type healthView struct {
	Status     string `json:"status"`
	QueueDepth int    `json:"queue_depth"`
}

// @Summary Проверка сервиса
// @Tags Служебные
// @Description Проверка доступности сервиса, БД и очереди уведомлений
// @Success 200 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @router /api/v1/health [get]
func health(ctx *fiber.Ctx) error {
	if err := db.PingDB(); err != nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(apimodels.NewError("БД недоступна"))
	}
	depth := notification.Instance.QueueDepth()
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(healthView{
		Status:     healthStatus(depth, config.Conf.Notification.QueueSize),
		QueueDepth: depth,
	}))
}

// healthStatus - сервис жив, но при заполненной очереди письма уже теряются
func healthStatus(queueDepth, queueSize int) string {
	if queueSize > 0 && queueDepth >= queueSize {
		return "degraded"
	}
	return "healthy"
}
