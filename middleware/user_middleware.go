package middleware

import (
	"github.com/gofiber/fiber/v2"

	authutils "miniflow-backend/lib/utils/auth-utils"
	"miniflow-backend/models"
)

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, exist := claims["sub"]; exist {
		if stringSub, ok := sub.(string); ok {
			return stringSub
		}
	}
	return ""
}

func GetUserRole(ctx *fiber.Ctx) models.UserRole {
	claims := authutils.GetClaims(ctx)
	if role, exist := claims["role"]; exist {
		if stringRole, ok := role.(string); ok && stringRole != "" {
			return models.UserRole(stringRole)
		}
	}
	return ""
}

func IsAdmin(ctx *fiber.Ctx) bool {
	return GetUserRole(ctx).IsAdmin()
}
