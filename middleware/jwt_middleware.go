package middleware

import (
	"travel-order-backend/config"
	authhandler "travel-order-backend/lib/auth"
	authutils "travel-order-backend/lib/utils/auth-utils"
	apimodels "travel-order-backend/models/api"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
)

const msgUnauthenticated = "Unauthenticated."

// AuthorizationRequired verifies the bearer token, rejects revoked or outdated ones and stores the session.
func AuthorizationRequired() fiber.Handler {
	return jwtware.New(jwtware.Config{
		Claims: jwt.MapClaims{},
		SigningKey: jwtware.SigningKey{
			JWTAlg: jwtware.HS256,
			Key:    []byte(config.Conf.Auth.JWTSecret),
		},
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError(msgUnauthenticated))
		},
		SuccessHandler: func(ctx *fiber.Ctx) error {
			claims := authutils.GetClaims(ctx)
			session, ok := authutils.SessionFromClaims(claims)
			if !ok {
				return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError(msgUnauthenticated))
			}
			active, err := authhandler.Instance.IsTokenActive(session, authutils.GetStringClaim(claims, "jti"))
			if err != nil {
				log.WithError(err).Error("failed to check token")
				return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError("Server error."))
			}
			if !active {
				return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError(msgUnauthenticated))
			}
			ctx.Locals(sessionKey, session)
			return ctx.Next()
		},
	})
}
