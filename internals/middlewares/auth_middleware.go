package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"eventhub_backend/internals/configs"
	helper "eventhub_backend/internals/helpers"
)

// Auth rejects requests without a valid bearer token and stores the
// authenticated user id in locals for handlers to read.
func Auth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := bearerUserID(c)
		if !ok {
			return helper.Error(c, fiber.StatusUnauthorized, "Missing or invalid token")
		}
		c.Locals("user_id", userID)
		return c.Next()
	}
}

// OptionalAuth resolves the user when a valid token is present but lets
// anonymous requests through. Public event details use it so member
// viewers get their own attendance data.
func OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID, ok := bearerUserID(c); ok {
			c.Locals("user_id", userID)
		}
		return c.Next()
	}
}

func bearerUserID(c *fiber.Ctx) (uint, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return 0, false
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(configs.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
