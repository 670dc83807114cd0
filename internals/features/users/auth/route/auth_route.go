package route

import (
	"github.com/gofiber/fiber/v2"

	"eventhub_backend/internals/features/users/auth/controller"
)

func AuthRoutes(router fiber.Router, ctrl *controller.AuthController) {
	auth := router.Group("/auth")
	auth.Post("/register", ctrl.Register)
	auth.Post("/login", ctrl.Login)
	auth.Post("/refresh", ctrl.Refresh)
}
