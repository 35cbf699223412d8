package middleware

import (
	"time"
	authutils "travel-order-backend/lib/utils/auth-utils"
	"travel-order-backend/models"

	"github.com/gofiber/fiber/v2"
)

const sessionKey = "session"

// GetSession returns the caller resolved by AuthorizationRequired.
func GetSession(ctx *fiber.Ctx) models.Session {
	if session, ok := ctx.Locals(sessionKey).(models.Session); ok {
		return session
	}
	session, _ := authutils.SessionFromClaims(authutils.GetClaims(ctx))
	return session
}

func GetUserID(ctx *fiber.Ctx) string {
	return GetSession(ctx).UserID
}

func GetUserRole(ctx *fiber.Ctx) models.UserRole {
	return GetSession(ctx).Role
}

func GetTokenID(ctx *fiber.Ctx) string {
	return authutils.GetStringClaim(authutils.GetClaims(ctx), "jti")
}

func GetTokenExpiresAt(ctx *fiber.Ctx) time.Time {
	exp, err := authutils.GetClaims(ctx).GetExpirationTime()
	if err != nil || exp == nil {
		return time.Now()
	}
	return exp.Time
}
