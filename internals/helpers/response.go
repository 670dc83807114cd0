package helper

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"eventhub_backend/internals/apperror"
)

// Success responds with the standard envelope (default 200).
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return SuccessWithCode(c, fiber.StatusOK, message, data)
}

func SuccessWithCode(c *fiber.Ctx, code int, message string, data interface{}) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "success",
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "error",
		"message": message,
	})
}

// HandleError translates a service error into the JSON envelope. Internal
// errors are logged with their cause and returned as a generic 500.
func HandleError(c *fiber.Ctx, err error) error {
	appErr := apperror.From(err)

	if appErr.Kind == apperror.KindInternal {
		logrus.WithError(appErr.Err).WithFields(logrus.Fields{
			"path":   c.Path(),
			"method": c.Method(),
		}).Error("internal error")
	}

	body := fiber.Map{
		"code":       appErr.Status(),
		"status":     "error",
		"message":    appErr.Message,
		"error_code": appErr.Code,
	}
	if len(appErr.Details) > 0 {
		body["errors"] = appErr.Details
	}
	if len(appErr.Meta) > 0 {
		body["details"] = appErr.Meta
	}
	return c.Status(appErr.Status()).JSON(body)
}

// ValidationError maps validator.v10 failures to a field/code detail list.
func ValidationError(c *fiber.Ctx, err error) error {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return Error(c, fiber.StatusBadRequest, "Invalid input")
	}

	details := make([]apperror.Detail, 0, len(ve))
	for _, fieldErr := range ve {
		details = append(details, apperror.Detail{
			Field: fieldErr.Field(),
			Code:  fieldErr.Tag(),
		})
	}

	return HandleError(c, apperror.Validation(apperror.CodeInvalidData, "Validation failed", details...))
}
