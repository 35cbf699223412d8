package authutils

import (
	"time"
	"travel-order-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenData struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

// IssueToken signs an HS256 access token carrying the role decided at login and the account token version.
func IssueToken(userID, name string, role models.UserRole, version int, now time.Time, secret string, ttl time.Duration) (TokenData, error) {
	tokenID := uuid.NewString()
	expiresAt := now.Add(ttl)
	claims := jwt.MapClaims{
		"name": name,
		"sub":  userID,
		"role": string(role),
		"jti":  tokenID,
		"ver":  version,
		"exp":  expiresAt.Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return TokenData{}, err
	}
	return TokenData{Token: tokenString, TokenID: tokenID, ExpiresAt: expiresAt}, nil
}

func GetClaims(ctx *fiber.Ctx) jwt.MapClaims {
	token, ok := ctx.Locals("user").(*jwt.Token)
	if !ok {
		return jwt.MapClaims{}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return jwt.MapClaims{}
	}
	return claims
}

func GetIntClaim(claims jwt.MapClaims, key string) int {
	switch value := claims[key].(type) {
	case float64:
		return int(value)
	case int:
		return value
	}
	return 0
}

func GetStringClaim(claims jwt.MapClaims, key string) string {
	if value, exist := claims[key]; exist {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return ""
}

// SessionFromClaims builds the caller identity carried by a verified token.
func SessionFromClaims(claims jwt.MapClaims) (models.Session, bool) {
	session := models.Session{
		UserID:       GetStringClaim(claims, "sub"),
		Role:         models.UserRole(GetStringClaim(claims, "role")),
		Name:         GetStringClaim(claims, "name"),
		TokenVersion: GetIntClaim(claims, "ver"),
	}
	if session.UserID == "" || !session.Role.IsValid() {
		return models.Session{}, false
	}
	return session, true
}
