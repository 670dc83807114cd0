package route

import (
	"github.com/gofiber/fiber/v2"

	"eventhub_backend/internals/features/notifications/notification/controller"
)

// NotificationRoutes wires the authenticated inbox endpoints.
func NotificationRoutes(router fiber.Router, ctrl *controller.NotificationController) {
	notifications := router.Group("/notifications")
	notifications.Post("/tokens", ctrl.RegisterToken)
	notifications.Get("/", ctrl.ListInbox)
	notifications.Get("/unread-count", ctrl.UnreadCount)
	notifications.Patch("/read", ctrl.MarkAllRead)
	notifications.Delete("/:id", ctrl.Delete)
}
