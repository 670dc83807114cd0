package dto

import (
	"strings"
	"time"

	amodel "eventhub_backend/internals/features/authorization/model"
	"eventhub_backend/internals/features/events/event/model"

	"eventhub_backend/internals/apperror"
	"eventhub_backend/internals/constants"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

type CreateEventRequest struct {
	Name          string   `json:"name" validate:"required,min=2,max=50"`
	Description   string   `json:"description" validate:"required,min=20,max=500"`
	Latitude      float64  `json:"latitude" validate:"min=-90,max=90"`
	Longitude     float64  `json:"longitude" validate:"min=-180,max=180"`
	Governorate   string   `json:"governorate" validate:"required"`
	StartAt       string   `json:"start_at" validate:"required"`
	Duration      int      `json:"duration" validate:"required,min=15,max=720"`
	MaxAttendees  int      `json:"max_attendees" validate:"required,min=1,max=10000"`
	ImageURL      *string  `json:"image_url" validate:"omitempty,url"`
	Visibility    string   `json:"visibility" validate:"required"`
	PaymentMethod string   `json:"payment_method" validate:"required"`
	Price         *float64 `json:"price" validate:"omitempty,gt=0"`
}

type UpdateEventRequest struct {
	Name         *string  `json:"name" validate:"omitempty,min=2,max=50"`
	Description  *string  `json:"description" validate:"omitempty,min=20,max=500"`
	Latitude     *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
	Governorate  *string  `json:"governorate"`
	StartAt      *string  `json:"start_at"`
	Duration     *int     `json:"duration" validate:"omitempty,min=15,max=720"`
	MaxAttendees *int     `json:"max_attendees" validate:"omitempty,min=1,max=10000"`
	ImageURL     *string  `json:"image_url" validate:"omitempty,url"`
	Visibility   *string  `json:"visibility"`
	State        *string  `json:"state"`
}

type EventInviteRequest struct {
	ReceiverID  uint     `json:"receiver_id" validate:"required,min=1"`
	Role        string   `json:"role" validate:"required"`
	Permissions []string `json:"permissions"`
}

type VerifyAttendanceRequest struct {
	AttendanceCode string `json:"attendance_code" validate:"required,uuid4"`
}

type QueryEventsRequest struct {
	Name        string `query:"name" validate:"omitempty,min=2,max=50"`
	Governorate string `query:"governorate"`
	Sort        string `query:"sort" validate:"omitempty,oneof=start_at -start_at price -price"`
}

/* =========================================================
 * CROSS-FIELD VALIDATION
 * ========================================================= */

// Validate applies the cross-field rules the tag validator cannot express:
// a future start time, a known governorate, known enum values, and the
// price-iff-paid-method invariant.
func (r *CreateEventRequest) Validate(now time.Time) (*ParsedEventData, *apperror.Error) {
	var details []apperror.Detail

	governorate := strings.ToLower(strings.TrimSpace(r.Governorate))
	if !constants.IsValidGovernorate(governorate) {
		details = append(details, apperror.Detail{Field: "governorate", Code: "unknown_governorate"})
	}

	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		details = append(details, apperror.Detail{Field: "start_at", Code: "invalid_datetime"})
	} else if !startAt.After(now) {
		details = append(details, apperror.Detail{Field: "start_at", Code: "start_time_in_past"})
	}

	visibility := model.EventVisibility(strings.ToUpper(strings.TrimSpace(r.Visibility)))
	if visibility != model.VisibilityPublic && visibility != model.VisibilityPrivate {
		details = append(details, apperror.Detail{Field: "visibility", Code: "invalid_visibility"})
	}

	payment := model.PaymentMethod(strings.ToUpper(strings.TrimSpace(r.PaymentMethod)))
	switch payment {
	case model.PaymentFree, model.PaymentOnline, model.PaymentAtEvent:
	default:
		details = append(details, apperror.Detail{Field: "payment_method", Code: "invalid_payment_method"})
	}

	details = append(details, priceDetails(payment, r.Price)...)

	if len(details) > 0 {
		return nil, apperror.Validation(apperror.CodeInvalidData, "Validation failed", details...)
	}

	return &ParsedEventData{
		Governorate:   governorate,
		StartAt:       startAt,
		Visibility:    visibility,
		PaymentMethod: payment,
	}, nil
}

// priceDetails enforces: price present iff payment method is ONLINE or
// AT_EVENT.
func priceDetails(payment model.PaymentMethod, price *float64) []apperror.Detail {
	paid := payment == model.PaymentOnline || payment == model.PaymentAtEvent
	if price != nil && !paid {
		return []apperror.Detail{{Field: "price", Code: "price_not_allowed"}}
	}
	if price == nil && paid {
		return []apperror.Detail{{Field: "price", Code: "price_required"}}
	}
	return nil
}

// ParsedEventData carries the normalized enum fields of a create request.
type ParsedEventData struct {
	Governorate   string
	StartAt       time.Time
	Visibility    model.EventVisibility
	PaymentMethod model.PaymentMethod
}

// Validate normalizes and checks the partial-update fields.
func (r *UpdateEventRequest) Validate(now time.Time) (*ParsedEventUpdate, *apperror.Error) {
	var details []apperror.Detail
	parsed := &ParsedEventUpdate{}

	if r.Governorate != nil {
		governorate := strings.ToLower(strings.TrimSpace(*r.Governorate))
		if !constants.IsValidGovernorate(governorate) {
			details = append(details, apperror.Detail{Field: "governorate", Code: "unknown_governorate"})
		}
		parsed.Governorate = &governorate
	}

	if r.StartAt != nil {
		startAt, err := time.Parse(time.RFC3339, *r.StartAt)
		if err != nil {
			details = append(details, apperror.Detail{Field: "start_at", Code: "invalid_datetime"})
		} else if !startAt.After(now) {
			details = append(details, apperror.Detail{Field: "start_at", Code: "start_time_in_past"})
		} else {
			parsed.StartAt = &startAt
		}
	}

	if r.Visibility != nil {
		visibility := model.EventVisibility(strings.ToUpper(strings.TrimSpace(*r.Visibility)))
		if visibility != model.VisibilityPublic && visibility != model.VisibilityPrivate {
			details = append(details, apperror.Detail{Field: "visibility", Code: "invalid_visibility"})
		}
		parsed.Visibility = &visibility
	}

	if r.State != nil {
		state := model.EventState(strings.ToUpper(strings.TrimSpace(*r.State)))
		switch state {
		case model.StateOpenForRegistration, model.StateClosedForRegistration, model.StateCancelled:
			parsed.State = &state
		default:
			details = append(details, apperror.Detail{Field: "state", Code: "invalid_state"})
		}
	}

	if len(details) > 0 {
		return nil, apperror.Validation(apperror.CodeInvalidData, "Validation failed", details...)
	}
	return parsed, nil
}

type ParsedEventUpdate struct {
	Governorate *string
	StartAt     *time.Time
	Visibility  *model.EventVisibility
	State       *model.EventState
}

// Validate checks the invite transition rules that gate persistence:
// a known role, no permission overrides on attendee invites, and no
// manager-removal capability smuggled into manager overrides.
func (r *EventInviteRequest) Validate() (amodel.Role, []amodel.Permission, *apperror.Error) {
	var details []apperror.Detail

	role, ok := amodel.ParseRole(strings.ToUpper(strings.TrimSpace(r.Role)))
	if !ok {
		details = append(details, apperror.Detail{Field: "role", Code: "invalid_role"})
	}

	if role == amodel.RoleAttendee && len(r.Permissions) > 0 {
		details = append(details, apperror.Detail{Field: "permissions", Code: "attendees_cannot_have_permissions"})
	}

	perms := make([]amodel.Permission, 0, len(r.Permissions))
	for _, raw := range r.Permissions {
		perm, ok := amodel.ParsePermission(strings.ToUpper(strings.TrimSpace(raw)))
		if !ok {
			details = append(details, apperror.Detail{Field: "permissions", Code: "unknown_permission"})
			continue
		}
		if perm == amodel.PermissionRemoveManagers {
			details = append(details, apperror.Detail{Field: "permissions", Code: "managers_cannot_have_permission"})
			continue
		}
		perms = append(perms, perm)
	}

	if len(details) > 0 {
		return "", nil, apperror.Validation(apperror.CodeInvalidData, "Validation failed", details...)
	}
	return role, perms, nil
}
