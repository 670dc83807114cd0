package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	amodel "eventhub_backend/internals/features/authorization/model"
	aservice "eventhub_backend/internals/features/authorization/service"
	evdto "eventhub_backend/internals/features/events/event/dto"
	evmodel "eventhub_backend/internals/features/events/event/model"
	"eventhub_backend/internals/features/events/invite/model"
	"eventhub_backend/internals/features/events/invite/repository"
	notifdto "eventhub_backend/internals/features/notifications/notification/dto"
	umodel "eventhub_backend/internals/features/users/user/model"

	"eventhub_backend/internals/apperror"
	database "eventhub_backend/internals/databases"
)

// InviteStore is the invite persistence boundary; implemented by
// repository.InviteRepository.
type InviteStore interface {
	Create(ctx context.Context, invite *model.InviteModel) error
	GetByID(ctx context.Context, inviteID uint) (*model.InviteModel, error)
	Accept(ctx context.Context, inviteID uint, member *evmodel.UserEventRoleModel) error
	DeclineIfPending(ctx context.Context, inviteID uint) (int64, error)
	ResendIfDeclined(ctx context.Context, inviteID, senderID uint, now time.Time) (int64, error)
	Details(ctx context.Context, inviteID uint) (*repository.InviteDetails, error)
	ListByEvent(ctx context.Context, eventID uint, offset, limit int) ([]repository.InviteRow, error)
}

// EventReader is the read slice of event storage the invite flow needs.
type EventReader interface {
	GetByID(ctx context.Context, eventID uint) (*evmodel.EventModel, error)
	CountAttendees(ctx context.Context, eventID uint) (int, error)
	Membership(ctx context.Context, eventID, userID uint) (*evmodel.UserEventRoleModel, error)
}

// UserReader looks up invite participants. Absence is (nil, nil).
type UserReader interface {
	GetByID(ctx context.Context, userID uint) (*umodel.UserModel, error)
}

type Authorizer interface {
	Resolve(ctx context.Context, in aservice.ResolveInput) (aservice.Access, error)
}

// Notifier dispatches invite notifications and cleans them up once the
// invite resolves. Both calls are best-effort.
type Notifier interface {
	Send(ctx context.Context, notification notifdto.CreateNotification, recipientIDs []uint)
	DeleteInviteNotification(ctx context.Context, inviteID uint)
}

type InviteService struct {
	invites InviteStore
	events  EventReader
	users   UserReader
	authz   Authorizer
	cache   *aservice.Cache
	notify  Notifier
	now     func() time.Time
}

func NewInviteService(invites InviteStore, events EventReader, users UserReader, authz Authorizer, cache *aservice.Cache, notify Notifier) *InviteService {
	return &InviteService{
		invites: invites,
		events:  events,
		users:   users,
		authz:   authz,
		cache:   cache,
		notify:  notify,
		now:     time.Now,
	}
}

func (s *InviteService) WithClock(now func() time.Time) *InviteService {
	s.now = now
	return s
}

/* =========================================================
 * Send
 * ========================================================= */

// SendInvite offers a role on an event to another user. The guard order is
// fixed: self-invite, event existence, lifecycle state, attendee capacity,
// receiver existence, existing membership, then the sender's permission.
// A full event rejects attendee invites even when the sender would lack
// permission anyway.
func (s *InviteService) SendInvite(ctx context.Context, eventID, senderID uint, req *evdto.EventInviteRequest) (*model.InviteModel, error) {
	role, overrides, verr := req.Validate()
	if verr != nil {
		return nil, verr
	}

	if senderID == req.ReceiverID {
		return nil, apperror.Validation(apperror.CodeUserCannotInviteSelf, "Users cannot invite themselves")
	}

	event, state, count, err := s.eventState(ctx, eventID)
	if err != nil {
		return nil, err
	}

	switch state {
	case evmodel.DerivedOpenForRegistration, evmodel.DerivedClosedForRegistration:
	default:
		return nil, apperror.Conflict(apperror.CodeEventNotAcceptingMember, "Event is no longer accepting members")
	}
	if role == amodel.RoleAttendee && count >= event.EventMaxAttendees {
		return nil, apperror.Conflict(apperror.CodeEventFull, "Event has reached its maximum attendance")
	}

	receiver, err := s.users.GetByID(ctx, req.ReceiverID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if receiver == nil {
		return nil, apperror.NotFound(apperror.CodeUserNotFound, "User not found")
	}

	if event.EventOwnerID != nil && *event.EventOwnerID == req.ReceiverID {
		return nil, apperror.Conflict(apperror.CodeUserAlreadyMember, "User is already a member of the event")
	}
	membership, err := s.events.Membership(ctx, eventID, req.ReceiverID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if membership != nil {
		return nil, apperror.Conflict(apperror.CodeUserAlreadyMember, "User is already a member of the event")
	}

	required := amodel.PermissionInviteAttendees
	if role == amodel.RoleManager {
		required = amodel.PermissionInviteManagers
	}
	if _, err := s.authz.Resolve(ctx, aservice.ResolveInput{
		EventID:  eventID,
		OwnerID:  event.EventOwnerID,
		Public:   event.EventVisibility == evmodel.VisibilityPublic,
		UserID:   senderID,
		Required: required,
	}); err != nil {
		return nil, err
	}

	roleID, err := s.cache.RoleID(role)
	if err != nil {
		return nil, err
	}

	invite := &model.InviteModel{
		InviteEventID:    eventID,
		InviteSenderID:   senderID,
		InviteReceiverID: req.ReceiverID,
		InviteRoleID:     roleID,
		InviteStatus:     model.InvitePending,
	}
	for _, perm := range overrides {
		invite.InvitePermissions = append(invite.InvitePermissions, string(perm))
	}

	if err := s.invites.Create(ctx, invite); err != nil {
		if database.IsDuplicateKey(err) {
			return nil, apperror.Conflict(apperror.CodeUserAlreadyInvited, "User has already been invited to this event")
		}
		return nil, apperror.Internal(err)
	}

	s.notifyInvite(ctx, invite, event, senderID)
	return invite, nil
}

/* =========================================================
 * Accept / decline / resend
 * ========================================================= */

// AcceptResult is what acceptance hands back to the receiver: attendee
// invites yield a fresh attendance code, manager invites none.
type AcceptResult struct {
	Role           amodel.Role `json:"role"`
	AttendanceCode *string     `json:"attendance_code,omitempty"`
}

// AcceptInvite converts a pending invite into a membership row. The event
// must still be accepting members and, for attendee invites, below
// capacity at acceptance time, not just at send time.
func (s *InviteService) AcceptInvite(ctx context.Context, inviteID, userID uint) (*AcceptResult, error) {
	invite, err := s.receiverInvite(ctx, inviteID, userID)
	if err != nil {
		return nil, err
	}
	if invite.InviteStatus != model.InvitePending {
		return nil, apperror.Conflict(apperror.CodeInviteNotPending, "Invite is not pending")
	}

	event, state, count, err := s.eventState(ctx, invite.InviteEventID)
	if err != nil {
		return nil, err
	}
	switch state {
	case evmodel.DerivedOpenForRegistration, evmodel.DerivedClosedForRegistration:
	default:
		return nil, apperror.Conflict(apperror.CodeEventNotAcceptingMember, "Event is no longer accepting members")
	}

	role, err := s.cache.RoleByID(invite.InviteRoleID)
	if err != nil {
		return nil, err
	}
	if role == amodel.RoleAttendee && count >= event.EventMaxAttendees {
		return nil, apperror.Conflict(apperror.CodeEventFull, "Event has reached its maximum attendance")
	}

	member := &evmodel.UserEventRoleModel{
		UserEventRoleEventID:     invite.InviteEventID,
		UserEventRoleUserID:      invite.InviteReceiverID,
		UserEventRoleRoleID:      invite.InviteRoleID,
		UserEventRolePermissions: invite.InvitePermissions,
	}
	var code *string
	if role == amodel.RoleAttendee {
		attendanceCode := uuid.NewString()
		code = &attendanceCode
		member.UserEventRoleAttendanceCode = code
	}

	if err := s.invites.Accept(ctx, invite.InviteID, member); err != nil {
		switch {
		case err == repository.ErrNotPending:
			return nil, apperror.Conflict(apperror.CodeInviteNotPending, "Invite is not pending")
		case database.IsDuplicateKey(err):
			return nil, apperror.Conflict(apperror.CodeUserAlreadyMember, "User is already a member of the event")
		}
		return nil, apperror.Internal(err)
	}

	s.notify.DeleteInviteNotification(ctx, invite.InviteID)
	return &AcceptResult{Role: role, AttendanceCode: code}, nil
}

// DeclineInvite marks a pending invite declined. The sender may resend it
// later; declining is not terminal.
func (s *InviteService) DeclineInvite(ctx context.Context, inviteID, userID uint) error {
	invite, err := s.receiverInvite(ctx, inviteID, userID)
	if err != nil {
		return err
	}

	declined, err := s.invites.DeclineIfPending(ctx, invite.InviteID)
	if err != nil {
		return apperror.Internal(err)
	}
	if declined == 0 {
		return apperror.Conflict(apperror.CodeInviteNotPending, "Invite is not pending")
	}

	s.notify.DeleteInviteNotification(ctx, invite.InviteID)
	return nil
}

// ResendInvite reopens a declined invite. Only the original sender may
// resend, and the event must still be accepting members.
func (s *InviteService) ResendInvite(ctx context.Context, inviteID, senderID uint) error {
	invite, err := s.invites.GetByID(ctx, inviteID)
	if err != nil {
		return apperror.Internal(err)
	}
	if invite == nil || invite.InviteSenderID != senderID {
		return apperror.NotFound(apperror.CodeInviteNotFound, "Invite not found")
	}
	if invite.InviteStatus != model.InviteDeclined {
		return apperror.Conflict(apperror.CodeInviteNotDeclined, "Only declined invites can be resent")
	}

	event, state, count, err := s.eventState(ctx, invite.InviteEventID)
	if err != nil {
		return err
	}
	switch state {
	case evmodel.DerivedOpenForRegistration, evmodel.DerivedClosedForRegistration:
	default:
		return apperror.Conflict(apperror.CodeEventNotAcceptingMember, "Event is no longer accepting members")
	}
	role, err := s.cache.RoleByID(invite.InviteRoleID)
	if err != nil {
		return err
	}
	if role == amodel.RoleAttendee && count >= event.EventMaxAttendees {
		return apperror.Conflict(apperror.CodeEventFull, "Event has reached its maximum attendance")
	}

	resent, err := s.invites.ResendIfDeclined(ctx, invite.InviteID, senderID, s.now())
	if err != nil {
		return apperror.Internal(err)
	}
	if resent == 0 {
		return apperror.Conflict(apperror.CodeInviteNotDeclined, "Only declined invites can be resent")
	}

	s.notifyInvite(ctx, invite, event, senderID)
	return nil
}

/* =========================================================
 * Reads
 * ========================================================= */

// GetInviteDetails returns the full invite view. Only the sender and the
// receiver may see it; everyone else gets a not-found.
func (s *InviteService) GetInviteDetails(ctx context.Context, inviteID, userID uint) (*repository.InviteDetails, error) {
	details, err := s.invites.Details(ctx, inviteID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if details == nil || (details.Invite.InviteSenderID != userID && details.Invite.InviteReceiverID != userID) {
		return nil, apperror.NotFound(apperror.CodeInviteNotFound, "Invite not found")
	}
	return details, nil
}

// ListEventInvites lists an event's invites for members holding
// VIEW_INVITES.
func (s *InviteService) ListEventInvites(ctx context.Context, eventID, userID uint, offset, limit int) ([]repository.InviteRow, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if event == nil {
		return nil, apperror.NotFound(apperror.CodeEventNotFound, "Event not found")
	}

	if _, err := s.authz.Resolve(ctx, aservice.ResolveInput{
		EventID:  eventID,
		OwnerID:  event.EventOwnerID,
		Public:   event.EventVisibility == evmodel.VisibilityPublic,
		UserID:   userID,
		Required: amodel.PermissionViewInvites,
	}); err != nil {
		return nil, err
	}

	rows, err := s.invites.ListByEvent(ctx, eventID, offset, limit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return rows, nil
}

/* =========================================================
 * Helpers
 * ========================================================= */

func (s *InviteService) eventState(ctx context.Context, eventID uint) (*evmodel.EventModel, evmodel.DerivedState, int, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, "", 0, apperror.Internal(err)
	}
	if event == nil {
		return nil, "", 0, apperror.NotFound(apperror.CodeEventNotFound, "Event not found")
	}
	count, err := s.events.CountAttendees(ctx, eventID)
	if err != nil {
		return nil, "", 0, apperror.Internal(err)
	}
	return event, event.StateOf(count, s.now()), count, nil
}

func (s *InviteService) receiverInvite(ctx context.Context, inviteID, userID uint) (*model.InviteModel, error) {
	invite, err := s.invites.GetByID(ctx, inviteID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if invite == nil || invite.InviteReceiverID != userID {
		return nil, apperror.NotFound(apperror.CodeInviteNotFound, "Invite not found")
	}
	return invite, nil
}

func (s *InviteService) notifyInvite(ctx context.Context, invite *model.InviteModel, event *evmodel.EventModel, senderID uint) {
	sender, err := s.users.GetByID(ctx, senderID)
	senderName := "Someone"
	if err == nil && sender != nil {
		senderName = sender.UserName
	}

	targetType := notifdto.TargetInvite
	s.notify.Send(ctx, notifdto.CreateNotification{
		Type:       notifdto.TypeInvite,
		SenderID:   &invite.InviteSenderID,
		TargetID:   &invite.InviteID,
		TargetType: &targetType,
		Data: map[string]interface{}{
			"title":      "New invitation",
			"body":       senderName + " invited you to " + event.EventName + ".",
			"invite_id":  invite.InviteID,
			"event_id":   event.EventID,
			"event_name": event.EventName,
		},
	}, []uint{invite.InviteReceiverID})
}
