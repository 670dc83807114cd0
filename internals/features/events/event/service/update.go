package service

import (
	"context"

	amodel "eventhub_backend/internals/features/authorization/model"
	"eventhub_backend/internals/features/events/event/dto"
	"eventhub_backend/internals/features/events/event/model"

	"eventhub_backend/internals/apperror"
)

// UpdateEvent applies a partial update. Updates are blocked once the event
// is ONGOING, COMPLETED or CANCELLED; capacity can never drop below the
// live attendance; registration cannot be reopened on a full event.
// Transitioning the stored state to CANCELLED triggers the same
// cancellation fan-out as an owner leaving.
func (s *EventService) UpdateEvent(ctx context.Context, eventID, actorID uint, req dto.UpdateEventRequest) (*EventWithState, error) {
	parsed, verr := req.Validate(s.now())
	if verr != nil {
		return nil, verr
	}

	event, err := s.getWithState(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if terminal(event.State) {
		return nil, apperror.Conflict(apperror.CodeEventNotEditable, "Event can no longer be updated")
	}

	if _, err := s.resolve(ctx, event, actorID, amodel.PermissionUpdateEventDetails); err != nil {
		return nil, err
	}

	effectiveMax := event.EventMaxAttendees
	if req.MaxAttendees != nil {
		if *req.MaxAttendees < event.CurrentAttendees {
			return nil, apperror.Conflict(apperror.CodeCapacityBelowAttendance, "Capacity cannot be lower than current attendance")
		}
		effectiveMax = *req.MaxAttendees
	}

	if parsed.State != nil && *parsed.State == model.StateOpenForRegistration && event.CurrentAttendees >= effectiveMax {
		return nil, apperror.Conflict(apperror.CodeEventFull, "Cannot open registration on a full event")
	}

	updates := buildEventUpdates(req, parsed)
	if len(updates) > 0 {
		if err := s.store.UpdateFields(ctx, eventID, updates); err != nil {
			return nil, apperror.Internal(err)
		}
	}

	cancelled := parsed.State != nil && *parsed.State == model.StateCancelled
	if cancelled {
		memberIDs, err := s.store.MemberUserIDs(ctx, eventID, nil)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		s.notifyCancellation(ctx, &event.EventModel, memberIDs)
	}

	return s.getWithState(ctx, eventID)
}

func buildEventUpdates(req dto.UpdateEventRequest, parsed *dto.ParsedEventUpdate) map[string]interface{} {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["event_name"] = *req.Name
	}
	if req.Description != nil {
		updates["event_description"] = *req.Description
	}
	if req.Latitude != nil {
		updates["event_latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		updates["event_longitude"] = *req.Longitude
	}
	if parsed.Governorate != nil {
		updates["event_governorate"] = *parsed.Governorate
	}
	if parsed.StartAt != nil {
		updates["event_start_at"] = *parsed.StartAt
	}
	if req.Duration != nil {
		updates["event_duration_minutes"] = *req.Duration
	}
	if req.MaxAttendees != nil {
		updates["event_max_attendees"] = *req.MaxAttendees
	}
	if req.ImageURL != nil {
		updates["event_image_url"] = *req.ImageURL
	}
	if parsed.Visibility != nil {
		updates["event_visibility"] = *parsed.Visibility
	}
	if parsed.State != nil {
		updates["event_state"] = *parsed.State
	}
	return updates
}
