package controller

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"eventhub_backend/internals/features/events/event/dto"
	"eventhub_backend/internals/features/events/event/service"

	helper "eventhub_backend/internals/helpers"
)

var validate = validator.New()

type EventController struct {
	Service *service.EventService
}

func NewEventController(svc *service.EventService) *EventController {
	return &EventController{Service: svc}
}

/* =========================================================
 * Event CRUD
 * ========================================================= */

// POST /api/events
func (ctrl *EventController) CreateEvent(c *fiber.Ctx) error {
	userID, err := helper.UserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var body dto.CreateEventRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	event, err := ctrl.Service.CreateEvent(c.Context(), userID, body)
	if err != nil {
		return helper.HandleError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Event created", event)
}

// GET /api/events
func (ctrl *EventController) QueryEvents(c *fiber.Ctx) error {
	var query dto.QueryEventsRequest
	if err := c.QueryParser(&query); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid query parameters")
	}
	if err := validate.Struct(query); err != nil {
		return helper.ValidationError(c, err)
	}

	paging := helper.ResolvePaging(c, 20, 100)
	events, err := ctrl.Service.QueryEvents(c.Context(), query, paging.Offset, paging.Limit)
	if err != nil {
		return helper.HandleError(c, err)
	}
	return helper.Success(c, "Events fetched", fiber.Map{
		"events": events,
		"page":   paging.Page,
		"limit":  paging.Limit,
	})
}

// GET /api/events/:id
// Works with or without authentication; a member viewer additionally gets
// their own attendance code.
func (ctrl *EventController) GetEventDetails(c *fiber.Ctx) error {
	eventID, err := c.ParamsInt("id")
	if err != nil || eventID <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid event ID")
	}

	var viewerID *uint
	if userID, err := helper.UserID(c); err == nil {
		viewerID = &userID
	}

	details, err := ctrl.Service.GetEventDetails(c.Context(), uint(eventID), viewerID)
	if err != nil {
		return helper.HandleError(c, err)
	}
	return helper.Success(c, "Event fetched", details)
}

// PATCH /api/events/:id
func (ctrl *EventController) UpdateEvent(c *fiber.Ctx) error {
	userID, err := helper.UserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	eventID, err := c.ParamsInt("id")
	if err != nil || eventID <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid event ID")
	}

	var body dto.UpdateEventRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	event, err := ctrl.Service.UpdateEvent(c.Context(), uint(eventID), userID, body)
	if err != nil {
		return helper.HandleError(c, err)
	}
	return helper.Success(c, "Event updated", event)
}

/* =========================================================
 * Membership
 * ========================================================= */

// POST /api/events/:id/join
func (ctrl *EventController) JoinEvent(c *fiber.Ctx) error {
	userID, err := helper.UserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	eventID, err := c.ParamsInt("id")
	if err != nil || eventID <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid event ID")
	}

	code, err := ctrl.Service.JoinPublicEvent(c.Context(), uint(eventID), userID)
	if err != nil {
		return helper.HandleError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Joined event", fiber.Map{
		"attendance_code": code,
	})
}

// POST /api/events/:id/leave
func (ctrl *EventController) LeaveEvent(c *fiber.Ctx) error {
	userID, err := helper.UserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	eventID, err := c.ParamsInt("id")
	if err != nil || eventID <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid event ID")
	}

	if err := ctrl.Service.LeaveEvent(c.Context(), uint(eventID), userID); err != nil {
		return helper.HandleError(c, err)
	}
	return helper.Success(c, "Left event", nil)
}

// DELETE /api/events/:id/attendees/:userId
func (ctrl *EventController) RemoveAttendee(c *fiber.Ctx) error {
	return ctrl.removeMember(c, ctrl.Service.RemoveAttendee, "Attendee removed")
}

// DELETE /api/events/:id/managers/:userId
func (ctrl *EventController) RemoveManager(c *fiber.Ctx) error {
	return ctrl.removeMember(c, ctrl.Service.RemoveManager, "Manager removed")
}

func (ctrl *EventController) removeMember(c *fiber.Ctx, remove func(ctx context.Context, eventID, actorID, targetID uint) error, message string) error {
	actorID, err := helper.UserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	eventID, err := c.ParamsInt("id")
	if err != nil || eventID <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid event ID")
	}
	targetID, err := c.ParamsInt("userId")
	if err != nil || targetID <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid user ID")
	}

	if err := remove(c.Context(), uint(eventID), actorID, uint(targetID)); err != nil {
		return helper.HandleError(c, err)
	}
	return helper.Success(c, message, nil)
}

/* =========================================================
 * Rosters
 * ========================================================= */

// GET /api/events/:id/attendees
func (ctrl *EventController) ListAttendees(c *fiber.Ctx) error {
	userID, err := helper.UserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	eventID, err := c.ParamsInt("id")
	if err != nil || eventID <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid event ID")
	}

	paging := helper.ResolvePaging(c, 20, 100)
	attendees, err := ctrl.Service.ListAttendees(c.Context(), uint(eventID), userID, paging.Offset, paging.Limit)
	if err != nil {
		return helper.HandleError(c, err)
	}
	return helper.Success(c, "Attendees fetched", fiber.Map{
		"attendees": attendees,
		"page":      paging.Page,
		"limit":     paging.Limit,
	})
}

// GET /api/events/:id/managers
func (ctrl *EventController) ListManagers(c *fiber.Ctx) error {
	userID, err := helper.UserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	eventID, err := c.ParamsInt("id")
	if err != nil || eventID <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid event ID")
	}

	paging := helper.ResolvePaging(c, 20, 100)
	managers, err := ctrl.Service.ListManagers(c.Context(), uint(eventID), userID, paging.Offset, paging.Limit)
	if err != nil {
		return helper.HandleError(c, err)
	}
	return helper.Success(c, "Managers fetched", fiber.Map{
		"managers": managers,
		"page":     paging.Page,
		"limit":    paging.Limit,
	})
}

/* =========================================================
 * Verification
 * ========================================================= */

// POST /api/events/:id/verify
func (ctrl *EventController) VerifyAttendance(c *fiber.Ctx) error {
	userID, err := helper.UserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	eventID, err := c.ParamsInt("id")
	if err != nil || eventID <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid event ID")
	}

	var body dto.VerifyAttendanceRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	verified, err := ctrl.Service.VerifyAttendance(c.Context(), uint(eventID), userID, body.AttendanceCode)
	if err != nil {
		return helper.HandleError(c, err)
	}
	return helper.Success(c, "Attendance verified", verified)
}
