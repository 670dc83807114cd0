package route

import (
	"github.com/gofiber/fiber/v2"

	"eventhub_backend/internals/features/events/event/controller"
)

// PublicEventRoutes are reachable without authentication. Event details
// also accept a token when one is present so members see their own
// attendance code; optional-auth middleware handles that upstream.
func PublicEventRoutes(router fiber.Router, ctrl *controller.EventController) {
	events := router.Group("/events")
	events.Get("/", ctrl.QueryEvents)
	events.Get("/:id", ctrl.GetEventDetails)
}

// EventRoutes are the authenticated event endpoints.
func EventRoutes(router fiber.Router, ctrl *controller.EventController) {
	events := router.Group("/events")
	events.Post("/", ctrl.CreateEvent)
	events.Patch("/:id", ctrl.UpdateEvent)

	events.Post("/:id/join", ctrl.JoinEvent)
	events.Post("/:id/leave", ctrl.LeaveEvent)
	events.Delete("/:id/attendees/:userId", ctrl.RemoveAttendee)
	events.Delete("/:id/managers/:userId", ctrl.RemoveManager)

	events.Get("/:id/attendees", ctrl.ListAttendees)
	events.Get("/:id/managers", ctrl.ListManagers)

	events.Post("/:id/verify", ctrl.VerifyAttendance)
}
