package service

import (
	"context"
	"strings"
	"time"

	amodel "eventhub_backend/internals/features/authorization/model"
	aservice "eventhub_backend/internals/features/authorization/service"
	"eventhub_backend/internals/features/events/event/dto"
	"eventhub_backend/internals/features/events/event/model"
	"eventhub_backend/internals/features/events/event/repository"
	notifdto "eventhub_backend/internals/features/notifications/notification/dto"
	umodel "eventhub_backend/internals/features/users/user/model"

	"eventhub_backend/internals/apperror"
)

// EventStore is the persistence boundary the engine drives. Implemented by
// repository.EventRepository; tests substitute an in-memory fake.
type EventStore interface {
	Create(ctx context.Context, event *model.EventModel) error
	GetByID(ctx context.Context, eventID uint) (*model.EventModel, error)
	CountAttendees(ctx context.Context, eventID uint) (int, error)
	Owner(ctx context.Context, ownerID uint) (*umodel.PublicUser, error)
	Search(ctx context.Context, q repository.SearchQuery) ([]repository.EventSearchRow, error)

	AddMember(ctx context.Context, member *model.UserEventRoleModel) error
	Membership(ctx context.Context, eventID, userID uint) (*model.UserEventRoleModel, error)
	RemoveMember(ctx context.Context, eventID, userID uint, roleID *uint) (int64, error)
	MemberUserIDs(ctx context.Context, eventID uint, roleID *uint) ([]uint, error)
	ListAttendees(ctx context.Context, eventID uint, offset, limit int) ([]repository.AttendeeRow, error)
	ListManagers(ctx context.Context, eventID uint, offset, limit int) ([]repository.ManagerRow, error)

	UpdateFields(ctx context.Context, eventID uint, updates map[string]interface{}) error
	CancelAndClearOwner(ctx context.Context, eventID uint) error
	VerifyAttendance(ctx context.Context, eventID, verifierID uint, attendanceCode string, now time.Time) (*repository.VerifiedAttendee, error)

	EventsNeedingReminder(ctx context.Context, from, until time.Time) ([]model.EventModel, error)
	MarkReminderSent(ctx context.Context, eventID uint) error
}

// Authorizer resolves effective permissions; implemented by the
// authorization resolver.
type Authorizer interface {
	Resolve(ctx context.Context, in aservice.ResolveInput) (aservice.Access, error)
}

// Notifier is the best-effort notification dispatch; it never fails the
// triggering action.
type Notifier interface {
	Send(ctx context.Context, notification notifdto.CreateNotification, recipientIDs []uint)
}

type EventService struct {
	store  EventStore
	authz  Authorizer
	cache  *aservice.Cache
	notify Notifier
	now    func() time.Time
}

func NewEventService(store EventStore, authz Authorizer, cache *aservice.Cache, notify Notifier) *EventService {
	return &EventService{
		store:  store,
		authz:  authz,
		cache:  cache,
		notify: notify,
		now:    time.Now,
	}
}

// WithClock pins the wall clock; tests use it to hit state boundaries.
func (s *EventService) WithClock(now func() time.Time) *EventService {
	s.now = now
	return s
}

// EventWithState is an event plus its live attendance and derived phase.
type EventWithState struct {
	model.EventModel
	CurrentAttendees int                `json:"current_attendees"`
	State            model.DerivedState `json:"state"`
}

// getWithState loads an event and re-derives its lifecycle phase. Absence
// is a NotFound, the only place that mapping happens.
func (s *EventService) getWithState(ctx context.Context, eventID uint) (*EventWithState, error) {
	event, err := s.store.GetByID(ctx, eventID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if event == nil {
		return nil, apperror.NotFound(apperror.CodeEventNotFound, "Event not found")
	}

	count, err := s.store.CountAttendees(ctx, eventID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &EventWithState{
		EventModel:       *event,
		CurrentAttendees: count,
		State:            event.StateOf(count, s.now()),
	}, nil
}

func (s *EventService) resolve(ctx context.Context, event *EventWithState, userID uint, required amodel.Permission) (aservice.Access, error) {
	return s.authz.Resolve(ctx, aservice.ResolveInput{
		EventID:  event.EventID,
		OwnerID:  event.EventOwnerID,
		Public:   event.EventVisibility == model.VisibilityPublic,
		UserID:   userID,
		Required: required,
	})
}

/* =========================================================
 * Create / query / details
 * ========================================================= */

func (s *EventService) CreateEvent(ctx context.Context, ownerID uint, req dto.CreateEventRequest) (*model.EventModel, error) {
	parsed, verr := req.Validate(s.now())
	if verr != nil {
		return nil, verr
	}

	event := &model.EventModel{
		EventOwnerID:         &ownerID,
		EventName:            req.Name,
		EventDescription:     req.Description,
		EventLatitude:        req.Latitude,
		EventLongitude:       req.Longitude,
		EventGovernorate:     parsed.Governorate,
		EventStartAt:         parsed.StartAt,
		EventDurationMinutes: req.Duration,
		EventMaxAttendees:    req.MaxAttendees,
		EventImageURL:        req.ImageURL,
		EventVisibility:      parsed.Visibility,
		EventPaymentMethod:   parsed.PaymentMethod,
		EventPrice:           req.Price,
		EventState:           model.StateOpenForRegistration,
	}

	if err := s.store.Create(ctx, event); err != nil {
		return nil, apperror.Internal(err)
	}
	return event, nil
}

func (s *EventService) QueryEvents(ctx context.Context, req dto.QueryEventsRequest, offset, limit int) ([]repository.EventSearchRow, error) {
	sort := req.Sort
	if sort == "" {
		sort = "start_at"
	}
	desc := strings.HasPrefix(sort, "-")
	field := strings.TrimPrefix(sort, "-")

	governorate := strings.ToLower(strings.TrimSpace(req.Governorate))

	rows, err := s.store.Search(ctx, repository.SearchQuery{
		Name:        strings.TrimSpace(req.Name),
		Governorate: governorate,
		SortField:   field,
		SortDesc:    desc,
		Offset:      offset,
		Limit:       limit,
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return rows, nil
}

// EventDetails is the full event view: derived state plus, for an attendee
// viewer, their own attendance code and attended flag.
type EventDetails struct {
	EventWithState
	Owner          *umodel.PublicUser `json:"owner,omitempty"`
	AttendanceCode *string            `json:"attendance_code,omitempty"`
	Attended       *bool              `json:"attended,omitempty"`
}

// GetEventDetails enforces VIEW_EVENT: members and owners always see the
// event; non-members only when it is public. viewerID is nil for
// unauthenticated reads.
func (s *EventService) GetEventDetails(ctx context.Context, eventID uint, viewerID *uint) (*EventDetails, error) {
	event, err := s.getWithState(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if viewerID == nil {
		if event.EventVisibility != model.VisibilityPublic {
			return nil, apperror.Forbidden(apperror.CodeUserNotMember, "User is not a member of the event")
		}
	} else {
		if _, err := s.resolve(ctx, event, *viewerID, amodel.PermissionViewEvent); err != nil {
			return nil, err
		}
	}

	details := &EventDetails{EventWithState: *event}

	if event.EventOwnerID != nil {
		owner, err := s.store.Owner(ctx, *event.EventOwnerID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		details.Owner = owner
	}

	if viewerID != nil {
		member, err := s.store.Membership(ctx, eventID, *viewerID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if member != nil {
			details.AttendanceCode = member.UserEventRoleAttendanceCode
			details.Attended = &member.UserEventRoleAttended
		}
	}

	return details, nil
}

func (s *EventService) ListAttendees(ctx context.Context, eventID, userID uint, offset, limit int) ([]repository.AttendeeRow, error) {
	event, err := s.getWithState(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolve(ctx, event, userID, amodel.PermissionViewAttendees); err != nil {
		return nil, err
	}

	rows, err := s.store.ListAttendees(ctx, eventID, offset, limit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return rows, nil
}

func (s *EventService) ListManagers(ctx context.Context, eventID, userID uint, offset, limit int) ([]repository.ManagerRow, error) {
	event, err := s.getWithState(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolve(ctx, event, userID, amodel.PermissionViewManagers); err != nil {
		return nil, err
	}

	rows, err := s.store.ListManagers(ctx, eventID, offset, limit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return rows, nil
}
