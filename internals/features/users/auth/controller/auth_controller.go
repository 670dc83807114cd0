package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"eventhub_backend/internals/features/users/auth/dto"
	"eventhub_backend/internals/features/users/auth/service"

	helper "eventhub_backend/internals/helpers"
)

var validate = validator.New()

type AuthController struct {
	Service *service.AuthService
}

func NewAuthController(svc *service.AuthService) *AuthController {
	return &AuthController{Service: svc}
}

// POST /api/auth/register
func (ctrl *AuthController) Register(c *fiber.Ctx) error {
	var body dto.RegisterRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	user, tokens, err := ctrl.Service.Register(c.Context(), body)
	if err != nil {
		return helper.HandleError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Registered", fiber.Map{
		"user":   user,
		"tokens": tokens,
	})
}

// POST /api/auth/login
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var body dto.LoginRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	user, tokens, err := ctrl.Service.Login(c.Context(), body)
	if err != nil {
		return helper.HandleError(c, err)
	}
	return helper.Success(c, "Logged in", fiber.Map{
		"user":   user,
		"tokens": tokens,
	})
}

// POST /api/auth/refresh
func (ctrl *AuthController) Refresh(c *fiber.Ctx) error {
	var body dto.RefreshRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	tokens, err := ctrl.Service.Refresh(c.Context(), body.RefreshToken)
	if err != nil {
		return helper.HandleError(c, err)
	}
	return helper.Success(c, "Token refreshed", tokens)
}
