package service

import (
	"context"

	"github.com/google/uuid"

	amodel "eventhub_backend/internals/features/authorization/model"
	"eventhub_backend/internals/features/events/event/model"
	notifdto "eventhub_backend/internals/features/notifications/notification/dto"

	"eventhub_backend/internals/apperror"
	database "eventhub_backend/internals/databases"
)

/* =========================================================
 * Join
 * ========================================================= */

// JoinPublicEvent registers the caller as an attendee of a public event and
// returns their fresh attendance code. Check order is fixed: existence,
// visibility, derived state, owner exclusion. Capacity is covered by the
// derived state (a full event is never OPEN) with the unique membership
// constraint as the race backstop.
func (s *EventService) JoinPublicEvent(ctx context.Context, eventID, userID uint) (string, error) {
	event, err := s.getWithState(ctx, eventID)
	if err != nil {
		return "", err
	}

	if event.EventVisibility != model.VisibilityPublic {
		return "", apperror.Forbidden(apperror.CodeEventNotPublic, "Cannot join a private event without an invitation")
	}
	if event.State != model.DerivedOpenForRegistration {
		return "", apperror.Conflict(apperror.CodeEventNotOpen, "Event is not open for registration")
	}
	if event.EventOwnerID != nil && *event.EventOwnerID == userID {
		return "", apperror.Conflict(apperror.CodeOwnerCannotJoin, "Event owner cannot join as an attendee")
	}

	attendeeRoleID, err := s.cache.RoleID(amodel.RoleAttendee)
	if err != nil {
		return "", err
	}

	attendanceCode := uuid.NewString()
	member := &model.UserEventRoleModel{
		UserEventRoleEventID:        eventID,
		UserEventRoleUserID:         userID,
		UserEventRoleRoleID:         attendeeRoleID,
		UserEventRoleAttendanceCode: &attendanceCode,
	}

	if err := s.store.AddMember(ctx, member); err != nil {
		if database.IsDuplicateKey(err) {
			return "", apperror.Conflict(apperror.CodeUserAlreadyAttendee, "User is already an attendee of this event")
		}
		return "", apperror.Internal(err)
	}

	return attendanceCode, nil
}

/* =========================================================
 * Leave
 * ========================================================= */

// LeaveEvent removes the caller's membership. No permission is required.
// An owner leaving cancels the event irreversibly: stored state becomes
// CANCELLED, ownership is cleared, and every remaining member is notified.
func (s *EventService) LeaveEvent(ctx context.Context, eventID, userID uint) error {
	event, err := s.getWithState(ctx, eventID)
	if err != nil {
		return err
	}

	if terminal(event.State) {
		return apperror.Conflict(apperror.CodeEventNotActive, "Event is no longer accepting membership changes")
	}

	if event.EventOwnerID != nil && *event.EventOwnerID == userID {
		memberIDs, err := s.store.MemberUserIDs(ctx, eventID, nil)
		if err != nil {
			return apperror.Internal(err)
		}
		if err := s.store.CancelAndClearOwner(ctx, eventID); err != nil {
			return apperror.Internal(err)
		}
		s.notifyCancellation(ctx, &event.EventModel, memberIDs)
		return nil
	}

	removed, err := s.store.RemoveMember(ctx, eventID, userID, nil)
	if err != nil {
		return apperror.Internal(err)
	}
	if removed == 0 {
		return apperror.Forbidden(apperror.CodeUserNotMember, "User is not a member of the event")
	}
	return nil
}

/* =========================================================
 * Removal
 * ========================================================= */

// RemoveAttendee removes a registered attendee. Self-removal degrades to
// leave semantics and bypasses the permission check.
func (s *EventService) RemoveAttendee(ctx context.Context, eventID, actorID, targetID uint) error {
	roleID, err := s.cache.RoleID(amodel.RoleAttendee)
	if err != nil {
		return err
	}
	return s.removeMember(ctx, eventID, actorID, targetID, roleID, amodel.PermissionRemoveRegisteredUsers, "User is not an attendee of this event")
}

// RemoveManager removes a manager; requires REMOVE_MANAGERS unless the
// manager is removing themselves.
func (s *EventService) RemoveManager(ctx context.Context, eventID, actorID, targetID uint) error {
	roleID, err := s.cache.RoleID(amodel.RoleManager)
	if err != nil {
		return err
	}
	return s.removeMember(ctx, eventID, actorID, targetID, roleID, amodel.PermissionRemoveManagers, "User is not a manager of this event")
}

func (s *EventService) removeMember(ctx context.Context, eventID, actorID, targetID, roleID uint, required amodel.Permission, missingMsg string) error {
	if actorID == targetID {
		return s.LeaveEvent(ctx, eventID, actorID)
	}

	event, err := s.getWithState(ctx, eventID)
	if err != nil {
		return err
	}
	if terminal(event.State) {
		return apperror.Conflict(apperror.CodeEventNotActive, "Event is no longer accepting membership changes")
	}

	if _, err := s.resolve(ctx, event, actorID, required); err != nil {
		return err
	}

	removed, err := s.store.RemoveMember(ctx, eventID, targetID, &roleID)
	if err != nil {
		return apperror.Internal(err)
	}
	if removed == 0 {
		return apperror.NotFound(apperror.CodeUserNotMember, missingMsg)
	}
	return nil
}

// terminal reports states in which membership can no longer change.
func terminal(state model.DerivedState) bool {
	switch state {
	case model.DerivedOngoing, model.DerivedCompleted, model.DerivedCancelled:
		return true
	}
	return false
}

/* =========================================================
 * Cancellation fan-out
 * ========================================================= */

func (s *EventService) notifyCancellation(ctx context.Context, event *model.EventModel, memberIDs []uint) {
	if len(memberIDs) == 0 {
		return
	}
	targetType := notifdto.TargetEvent
	s.notify.Send(ctx, notifdto.CreateNotification{
		Type:       notifdto.TypeEventCancelled,
		TargetID:   &event.EventID,
		TargetType: &targetType,
		Data: map[string]interface{}{
			"title":      "Event cancelled",
			"body":       event.EventName + " has been cancelled.",
			"event_id":   event.EventID,
			"event_name": event.EventName,
		},
	}, memberIDs)
}
