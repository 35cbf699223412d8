package middleware

import (
	"travel-order-backend/lib/rbac"
	apimodels "travel-order-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

const msgForbidden = "This action is unauthorized."

func RbacMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		session := GetSession(ctx)
		if session.UserID == "" || session.Role == "" {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(msgForbidden))
		}

		handler, found := rbac.Instance.GetRuleFunc(ctx.Method(), ctx.Path())
		if !found {
			return ctx.Next()
		}
		if !handler(session.UserID, session.Role, ctx.Path()) {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(msgForbidden))
		}
		return ctx.Next()
	}
}
