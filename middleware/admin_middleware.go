package middleware

import (
	"github.com/gofiber/fiber/v2"

	apimodels "miniflow-backend/models/api"
)

func AdminRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		if !IsAdmin(ctx) {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("операция недоступна"))
		}
		return ctx.Next()
	}
}
