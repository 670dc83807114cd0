package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"eventhub_backend/internals/features/notifications/notification/dto"
	"eventhub_backend/internals/features/notifications/notification/service"

	helper "eventhub_backend/internals/helpers"
)

var validate = validator.New()

type NotificationController struct {
	Service *service.NotificationService
}

func NewNotificationController(svc *service.NotificationService) *NotificationController {
	return &NotificationController{Service: svc}
}

// POST /api/notifications/tokens
func (ctrl *NotificationController) RegisterToken(c *fiber.Ctx) error {
	userID, err := helper.UserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var body dto.RegisterTokenRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	if err := ctrl.Service.RegisterToken(c.Context(), userID, body.Token); err != nil {
		return helper.HandleError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Device token registered", nil)
}

// GET /api/notifications
func (ctrl *NotificationController) ListInbox(c *fiber.Ctx) error {
	userID, err := helper.UserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	paging := helper.ResolvePaging(c, 20, 100)
	entries, err := ctrl.Service.ListInbox(c.Context(), userID, paging.Offset, paging.Limit)
	if err != nil {
		return helper.HandleError(c, err)
	}
	return helper.Success(c, "Notifications fetched", fiber.Map{
		"notifications": entries,
		"page":          paging.Page,
		"limit":         paging.Limit,
	})
}

// GET /api/notifications/unread-count
func (ctrl *NotificationController) UnreadCount(c *fiber.Ctx) error {
	userID, err := helper.UserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	count, err := ctrl.Service.UnreadCount(c.Context(), userID)
	if err != nil {
		return helper.HandleError(c, err)
	}
	return helper.Success(c, "Unread count fetched", fiber.Map{"unread": count})
}

// PATCH /api/notifications/read
func (ctrl *NotificationController) MarkAllRead(c *fiber.Ctx) error {
	userID, err := helper.UserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	if err := ctrl.Service.MarkAllRead(c.Context(), userID); err != nil {
		return helper.HandleError(c, err)
	}
	return helper.Success(c, "Notifications marked as read", nil)
}

// DELETE /api/notifications/:id
func (ctrl *NotificationController) Delete(c *fiber.Ctx) error {
	userID, err := helper.UserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	notificationID, err := c.ParamsInt("id")
	if err != nil || notificationID <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid notification ID")
	}

	if err := ctrl.Service.DeleteOwn(c.Context(), userID, uint(notificationID)); err != nil {
		return helper.HandleError(c, err)
	}
	return helper.Success(c, "Notification deleted", nil)
}
