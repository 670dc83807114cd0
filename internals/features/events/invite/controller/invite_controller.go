package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	evdto "eventhub_backend/internals/features/events/event/dto"
	"eventhub_backend/internals/features/events/invite/service"

	helper "eventhub_backend/internals/helpers"
)

var validate = validator.New()

type InviteController struct {
	Service *service.InviteService
}

func NewInviteController(svc *service.InviteService) *InviteController {
	return &InviteController{Service: svc}
}

// POST /api/events/:id/invites
func (ctrl *InviteController) SendInvite(c *fiber.Ctx) error {
	userID, err := helper.UserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	eventID, err := c.ParamsInt("id")
	if err != nil || eventID <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid event ID")
	}

	var body evdto.EventInviteRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	invite, err := ctrl.Service.SendInvite(c.Context(), uint(eventID), userID, &body)
	if err != nil {
		return helper.HandleError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Invite sent", invite)
}

// GET /api/events/:id/invites
func (ctrl *InviteController) ListEventInvites(c *fiber.Ctx) error {
	userID, err := helper.UserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	eventID, err := c.ParamsInt("id")
	if err != nil || eventID <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid event ID")
	}

	paging := helper.ResolvePaging(c, 20, 100)
	invites, err := ctrl.Service.ListEventInvites(c.Context(), uint(eventID), userID, paging.Offset, paging.Limit)
	if err != nil {
		return helper.HandleError(c, err)
	}
	return helper.Success(c, "Invites fetched", fiber.Map{
		"invites": invites,
		"page":    paging.Page,
		"limit":   paging.Limit,
	})
}

// GET /api/invites/:id
func (ctrl *InviteController) GetInvite(c *fiber.Ctx) error {
	userID, err := helper.UserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	inviteID, err := c.ParamsInt("id")
	if err != nil || inviteID <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid invite ID")
	}

	details, err := ctrl.Service.GetInviteDetails(c.Context(), uint(inviteID), userID)
	if err != nil {
		return helper.HandleError(c, err)
	}
	return helper.Success(c, "Invite fetched", details)
}

// POST /api/invites/:id/accept
func (ctrl *InviteController) AcceptInvite(c *fiber.Ctx) error {
	userID, err := helper.UserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	inviteID, err := c.ParamsInt("id")
	if err != nil || inviteID <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid invite ID")
	}

	result, err := ctrl.Service.AcceptInvite(c.Context(), uint(inviteID), userID)
	if err != nil {
		return helper.HandleError(c, err)
	}
	return helper.Success(c, "Invite accepted", result)
}

// POST /api/invites/:id/decline
func (ctrl *InviteController) DeclineInvite(c *fiber.Ctx) error {
	userID, err := helper.UserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	inviteID, err := c.ParamsInt("id")
	if err != nil || inviteID <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid invite ID")
	}

	if err := ctrl.Service.DeclineInvite(c.Context(), uint(inviteID), userID); err != nil {
		return helper.HandleError(c, err)
	}
	return helper.Success(c, "Invite declined", nil)
}

// POST /api/invites/:id/resend
func (ctrl *InviteController) ResendInvite(c *fiber.Ctx) error {
	userID, err := helper.UserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	inviteID, err := c.ParamsInt("id")
	if err != nil || inviteID <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid invite ID")
	}

	if err := ctrl.Service.ResendInvite(c.Context(), uint(inviteID), userID); err != nil {
		return helper.HandleError(c, err)
	}
	return helper.Success(c, "Invite resent", nil)
}
