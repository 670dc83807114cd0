package controller

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"eventhub_backend/internals/features/users/user/dto"
	"eventhub_backend/internals/features/users/user/repository"
	"eventhub_backend/internals/features/users/user/service"

	helper "eventhub_backend/internals/helpers"
)

var validate = validator.New()

type UserController struct {
	Service *service.UserService
}

func NewUserController(svc *service.UserService) *UserController {
	return &UserController{Service: svc}
}

// GET /api/users/me
func (ctrl *UserController) Me(c *fiber.Ctx) error {
	userID, err := helper.UserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	user, err := ctrl.Service.Profile(c.Context(), userID)
	if err != nil {
		return helper.HandleError(c, err)
	}
	return helper.Success(c, "Profile fetched", user)
}

// PATCH /api/users/me
func (ctrl *UserController) UpdateMe(c *fiber.Ctx) error {
	userID, err := helper.UserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var body dto.UpdateProfileRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	user, err := ctrl.Service.UpdateProfile(c.Context(), userID, body)
	if err != nil {
		return helper.HandleError(c, err)
	}
	return helper.Success(c, "Profile updated", user)
}

// GET /api/users/me/events/attended
func (ctrl *UserController) MyAttendedEvents(c *fiber.Ctx) error {
	return ctrl.listMyEvents(c, ctrl.Service.AttendedEvents, "Attended events fetched")
}

// GET /api/users/me/events/organized
func (ctrl *UserController) MyOrganizedEvents(c *fiber.Ctx) error {
	return ctrl.listMyEvents(c, ctrl.Service.OrganizedEvents, "Organized events fetched")
}

func (ctrl *UserController) listMyEvents(
	c *fiber.Ctx,
	list func(ctx context.Context, userID uint, offset, limit int) ([]repository.UserEventRow, error),
	message string,
) error {
	userID, err := helper.UserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	paging := helper.ResolvePaging(c, 20, 50)
	rows, err := list(c.Context(), userID, paging.Offset, paging.Limit)
	if err != nil {
		return helper.HandleError(c, err)
	}
	return helper.Success(c, message, fiber.Map{
		"events": rows,
		"page":   paging.Page,
		"limit":  paging.Limit,
	})
}

// GET /api/users/search?q=
func (ctrl *UserController) Search(c *fiber.Ctx) error {
	if _, err := helper.UserID(c); err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var query dto.SearchUsersRequest
	if err := c.QueryParser(&query); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid query parameters")
	}
	if err := validate.Struct(query); err != nil {
		return helper.ValidationError(c, err)
	}

	paging := helper.ResolvePaging(c, 20, 50)
	users, err := ctrl.Service.SearchUsers(c.Context(), query.Query, paging.Offset, paging.Limit)
	if err != nil {
		return helper.HandleError(c, err)
	}
	return helper.Success(c, "Users fetched", fiber.Map{
		"users": users,
		"page":  paging.Page,
		"limit": paging.Limit,
	})
}
