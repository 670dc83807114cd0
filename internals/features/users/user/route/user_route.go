package route

import (
	"github.com/gofiber/fiber/v2"

	"eventhub_backend/internals/features/users/user/controller"
)

func UserRoutes(router fiber.Router, ctrl *controller.UserController) {
	users := router.Group("/users")
	users.Get("/me", ctrl.Me)
	users.Patch("/me", ctrl.UpdateMe)
	users.Get("/me/events/attended", ctrl.MyAttendedEvents)
	users.Get("/me/events/organized", ctrl.MyOrganizedEvents)
	users.Get("/search", ctrl.Search)
}
