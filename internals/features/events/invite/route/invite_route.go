package route

import (
	"github.com/gofiber/fiber/v2"

	"eventhub_backend/internals/features/events/invite/controller"
)

// InviteRoutes wires the authenticated invite endpoints. Event-scoped
// routes (send, list) live under /events; invite-scoped ones under
// /invites.
func InviteRoutes(router fiber.Router, ctrl *controller.InviteController) {
	events := router.Group("/events")
	events.Post("/:id/invites", ctrl.SendInvite)
	events.Get("/:id/invites", ctrl.ListEventInvites)

	invites := router.Group("/invites")
	invites.Get("/:id", ctrl.GetInvite)
	invites.Post("/:id/accept", ctrl.AcceptInvite)
	invites.Post("/:id/decline", ctrl.DeclineInvite)
	invites.Post("/:id/resend", ctrl.ResendInvite)
}
