package helper

import (
	"github.com/gofiber/fiber/v2"

	"eventhub_backend/internals/apperror"
)

// UserID returns the authenticated user id stored by the auth middleware.
func UserID(c *fiber.Ctx) (uint, error) {
	id, ok := c.Locals("user_id").(uint)
	if !ok || id == 0 {
		return 0, apperror.Forbidden(apperror.CodeNoPermission, "Missing authenticated user")
	}
	return id, nil
}
