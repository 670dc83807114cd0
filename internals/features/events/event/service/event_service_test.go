package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	amodel "eventhub_backend/internals/features/authorization/model"
	aservice "eventhub_backend/internals/features/authorization/service"
	"eventhub_backend/internals/features/events/event/dto"
	"eventhub_backend/internals/features/events/event/model"
	"eventhub_backend/internals/features/events/event/repository"
	notifdto "eventhub_backend/internals/features/notifications/notification/dto"
	umodel "eventhub_backend/internals/features/users/user/model"

	"eventhub_backend/internals/apperror"
)

const (
	attendeeRoleID = uint(1)
	managerRoleID  = uint(2)
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

/* =========================================================
 * Fakes
 * ========================================================= */

type fakeStore struct {
	events  map[uint]*model.EventModel
	members map[uint][]*model.UserEventRoleModel
	users   map[uint]umodel.PublicUser

	nextMemberID uint
	updates      map[uint]map[string]interface{}
	reminded     []uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:  map[uint]*model.EventModel{},
		members: map[uint][]*model.UserEventRoleModel{},
		users:   map[uint]umodel.PublicUser{},
		updates: map[uint]map[string]interface{}{},
	}
}

func (f *fakeStore) Create(_ context.Context, event *model.EventModel) error {
	event.EventID = uint(len(f.events) + 1)
	f.events[event.EventID] = event
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, eventID uint) (*model.EventModel, error) {
	return f.events[eventID], nil
}

func (f *fakeStore) CountAttendees(_ context.Context, eventID uint) (int, error) {
	count := 0
	for _, m := range f.members[eventID] {
		if m.UserEventRoleRoleID == attendeeRoleID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) Owner(_ context.Context, ownerID uint) (*umodel.PublicUser, error) {
	if u, ok := f.users[ownerID]; ok {
		return &u, nil
	}
	return nil, nil
}

func (f *fakeStore) Search(_ context.Context, _ repository.SearchQuery) ([]repository.EventSearchRow, error) {
	return nil, nil
}

func (f *fakeStore) AddMember(_ context.Context, member *model.UserEventRoleModel) error {
	for _, m := range f.members[member.UserEventRoleEventID] {
		if m.UserEventRoleUserID == member.UserEventRoleUserID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextMemberID++
	member.UserEventRoleID = f.nextMemberID
	f.members[member.UserEventRoleEventID] = append(f.members[member.UserEventRoleEventID], member)
	return nil
}

func (f *fakeStore) Membership(_ context.Context, eventID, userID uint) (*model.UserEventRoleModel, error) {
	for _, m := range f.members[eventID] {
		if m.UserEventRoleUserID == userID {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) RemoveMember(_ context.Context, eventID, userID uint, roleID *uint) (int64, error) {
	kept := f.members[eventID][:0]
	var removed int64
	for _, m := range f.members[eventID] {
		if m.UserEventRoleUserID == userID && (roleID == nil || m.UserEventRoleRoleID == *roleID) {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	f.members[eventID] = kept
	return removed, nil
}

func (f *fakeStore) MemberUserIDs(_ context.Context, eventID uint, roleID *uint) ([]uint, error) {
	var ids []uint
	for _, m := range f.members[eventID] {
		if roleID == nil || m.UserEventRoleRoleID == *roleID {
			ids = append(ids, m.UserEventRoleUserID)
		}
	}
	return ids, nil
}

func (f *fakeStore) ListAttendees(_ context.Context, eventID uint, _, _ int) ([]repository.AttendeeRow, error) {
	var rows []repository.AttendeeRow
	for _, m := range f.members[eventID] {
		if m.UserEventRoleRoleID == attendeeRoleID {
			rows = append(rows, repository.AttendeeRow{
				User:     f.users[m.UserEventRoleUserID],
				Attended: m.UserEventRoleAttended,
			})
		}
	}
	return rows, nil
}

func (f *fakeStore) ListManagers(_ context.Context, eventID uint, _, _ int) ([]repository.ManagerRow, error) {
	var rows []repository.ManagerRow
	for _, m := range f.members[eventID] {
		if m.UserEventRoleRoleID == managerRoleID {
			rows = append(rows, repository.ManagerRow{
				User:        f.users[m.UserEventRoleUserID],
				Permissions: m.UserEventRolePermissions,
			})
		}
	}
	return rows, nil
}

func (f *fakeStore) UpdateFields(_ context.Context, eventID uint, updates map[string]interface{}) error {
	f.updates[eventID] = updates
	event := f.events[eventID]
	for key, value := range updates {
		switch key {
		case "event_state":
			event.EventState = value.(model.EventState)
		case "event_max_attendees":
			event.EventMaxAttendees = value.(int)
		case "event_name":
			event.EventName = value.(string)
		case "event_start_at":
			event.EventStartAt = value.(time.Time)
		}
	}
	return nil
}

func (f *fakeStore) CancelAndClearOwner(_ context.Context, eventID uint) error {
	event := f.events[eventID]
	event.EventState = model.StateCancelled
	event.EventOwnerID = nil
	return nil
}

func (f *fakeStore) VerifyAttendance(_ context.Context, eventID, verifierID uint, attendanceCode string, now time.Time) (*repository.VerifiedAttendee, error) {
	for _, m := range f.members[eventID] {
		if m.UserEventRoleAttendanceCode == nil || *m.UserEventRoleAttendanceCode != attendanceCode {
			continue
		}
		if m.UserEventRoleVerifiedAt != nil {
			conflict := &repository.AlreadyVerifiedError{VerifiedAt: *m.UserEventRoleVerifiedAt}
			if m.UserEventRoleVerifiedBy != nil {
				verifier := f.users[*m.UserEventRoleVerifiedBy]
				conflict.Verifier = &verifier
			}
			return nil, conflict
		}
		m.UserEventRoleAttended = true
		m.UserEventRoleVerifiedAt = &now
		m.UserEventRoleVerifiedBy = &verifierID
		return &repository.VerifiedAttendee{
			User:       f.users[m.UserEventRoleUserID],
			Attended:   true,
			VerifiedAt: now,
			VerifiedBy: verifierID,
		}, nil
	}
	return nil, repository.ErrCodeNotFound
}

func (f *fakeStore) EventsNeedingReminder(_ context.Context, from, until time.Time) ([]model.EventModel, error) {
	var events []model.EventModel
	for _, e := range f.events {
		if e.EventReminderSent || e.EventState == model.StateCancelled {
			continue
		}
		if !e.EventStartAt.Before(from) && e.EventStartAt.Before(until) {
			events = append(events, *e)
		}
	}
	return events, nil
}

func (f *fakeStore) MarkReminderSent(_ context.Context, eventID uint) error {
	f.events[eventID].EventReminderSent = true
	f.reminded = append(f.reminded, eventID)
	return nil
}

type sentNotification struct {
	Notification notifdto.CreateNotification
	Recipients   []uint
}

type fakeNotifier struct {
	sent []sentNotification
}

func (f *fakeNotifier) Send(_ context.Context, n notifdto.CreateNotification, recipients []uint) {
	f.sent = append(f.sent, sentNotification{Notification: n, Recipients: recipients})
}

type storeMemberships struct {
	store *fakeStore
}

func (a storeMemberships) Membership(ctx context.Context, eventID, userID uint) (*aservice.Membership, error) {
	row, err := a.store.Membership(ctx, eventID, userID)
	if err != nil || row == nil {
		return nil, err
	}
	return &aservice.Membership{RoleID: row.UserEventRoleRoleID, Grants: row.UserEventRolePermissions}, nil
}

func seedCache() *aservice.Cache {
	return aservice.NewCacheFromSeed(
		map[amodel.Role]uint{amodel.RoleAttendee: attendeeRoleID, amodel.RoleManager: managerRoleID},
		map[amodel.Role][]amodel.Permission{
			amodel.RoleAttendee: {amodel.PermissionViewEvent},
			amodel.RoleManager: {
				amodel.PermissionViewEvent,
				amodel.PermissionViewAttendees,
				amodel.PermissionScanCode,
			},
		},
	)
}

func newTestService() (*EventService, *fakeStore, *fakeNotifier) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	cache := seedCache()
	resolver := aservice.NewResolver(cache, storeMemberships{store: store})
	svc := NewEventService(store, resolver, cache, notifier).WithClock(func() time.Time { return testNow })
	return svc, store, notifier
}

func seedEvent(store *fakeStore, ownerID uint, mutate func(*model.EventModel)) *model.EventModel {
	event := &model.EventModel{
		EventID:              uint(len(store.events) + 1),
		EventOwnerID:         &ownerID,
		EventName:            "Cairo Tech Meetup",
		EventGovernorate:     "cairo",
		EventStartAt:         testNow.Add(48 * time.Hour),
		EventDurationMinutes: 120,
		EventMaxAttendees:    3,
		EventVisibility:      model.VisibilityPublic,
		EventPaymentMethod:   model.PaymentFree,
		EventState:           model.StateOpenForRegistration,
	}
	if mutate != nil {
		mutate(event)
	}
	store.events[event.EventID] = event
	return event
}

func seedMember(store *fakeStore, eventID, userID, roleID uint, code *string) *model.UserEventRoleModel {
	member := &model.UserEventRoleModel{
		UserEventRoleEventID:        eventID,
		UserEventRoleUserID:         userID,
		UserEventRoleRoleID:         roleID,
		UserEventRoleAttendanceCode: code,
	}
	store.nextMemberID++
	member.UserEventRoleID = store.nextMemberID
	store.members[eventID] = append(store.members[eventID], member)
	return member
}

func strptr(s string) *string { return &s }

/* =========================================================
 * Join
 * ========================================================= */

func TestJoinPublicEvent(t *testing.T) {
	svc, store, _ := newTestService()
	event := seedEvent(store, 1, nil)

	code, err := svc.JoinPublicEvent(context.Background(), event.EventID, 5)
	require.NoError(t, err)
	assert.NotEmpty(t, code)

	member, _ := store.Membership(context.Background(), event.EventID, 5)
	require.NotNil(t, member)
	assert.Equal(t, attendeeRoleID, member.UserEventRoleRoleID)
	assert.Equal(t, code, *member.UserEventRoleAttendanceCode)
}

func TestJoinPrivateEventRejected(t *testing.T) {
	svc, store, _ := newTestService()
	event := seedEvent(store, 1, func(e *model.EventModel) {
		e.EventVisibility = model.VisibilityPrivate
	})

	_, err := svc.JoinPublicEvent(context.Background(), event.EventID, 5)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
	assert.Equal(t, apperror.CodeEventNotPublic, apperror.From(err).Code)
}

func TestJoinFullEventRejected(t *testing.T) {
	svc, store, _ := newTestService()
	event := seedEvent(store, 1, func(e *model.EventModel) {
		e.EventMaxAttendees = 2
	})
	seedMember(store, event.EventID, 10, attendeeRoleID, strptr("code-a"))
	seedMember(store, event.EventID, 11, attendeeRoleID, strptr("code-b"))

	_, err := svc.JoinPublicEvent(context.Background(), event.EventID, 5)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeEventNotOpen, apperror.From(err).Code)
}

func TestJoinOngoingEventRejected(t *testing.T) {
	svc, store, _ := newTestService()
	event := seedEvent(store, 1, func(e *model.EventModel) {
		e.EventStartAt = testNow.Add(-time.Minute)
	})

	_, err := svc.JoinPublicEvent(context.Background(), event.EventID, 5)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeEventNotOpen, apperror.From(err).Code)
}

func TestOwnerCannotJoinOwnEvent(t *testing.T) {
	svc, store, _ := newTestService()
	event := seedEvent(store, 1, nil)

	_, err := svc.JoinPublicEvent(context.Background(), event.EventID, 1)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeOwnerCannotJoin, apperror.From(err).Code)
}

func TestJoinTwiceRejected(t *testing.T) {
	svc, store, _ := newTestService()
	event := seedEvent(store, 1, nil)

	_, err := svc.JoinPublicEvent(context.Background(), event.EventID, 5)
	require.NoError(t, err)

	_, err = svc.JoinPublicEvent(context.Background(), event.EventID, 5)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeUserAlreadyAttendee, apperror.From(err).Code)
}

func TestJoinUnknownEvent(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.JoinPublicEvent(context.Background(), 99, 5)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

/* =========================================================
 * Leave
 * ========================================================= */

func TestLeaveEventAsAttendee(t *testing.T) {
	svc, store, notifier := newTestService()
	event := seedEvent(store, 1, nil)
	seedMember(store, event.EventID, 5, attendeeRoleID, strptr("code-a"))

	require.NoError(t, svc.LeaveEvent(context.Background(), event.EventID, 5))

	member, _ := store.Membership(context.Background(), event.EventID, 5)
	assert.Nil(t, member)
	assert.Empty(t, notifier.sent)
}

func TestLeaveEventNotMember(t *testing.T) {
	svc, store, _ := newTestService()
	event := seedEvent(store, 1, nil)

	err := svc.LeaveEvent(context.Background(), event.EventID, 5)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeUserNotMember, apperror.From(err).Code)
}

func TestOwnerLeaveCancelsAndNotifies(t *testing.T) {
	svc, store, notifier := newTestService()
	event := seedEvent(store, 1, func(e *model.EventModel) {
		e.EventMaxAttendees = 10
	})
	for userID := uint(10); userID < 14; userID++ {
		seedMember(store, event.EventID, userID, attendeeRoleID, nil)
	}
	seedMember(store, event.EventID, 20, managerRoleID, nil)

	require.NoError(t, svc.LeaveEvent(context.Background(), event.EventID, 1))

	assert.Equal(t, model.StateCancelled, event.EventState)
	assert.Nil(t, event.EventOwnerID)

	require.Len(t, notifier.sent, 1)
	sent := notifier.sent[0]
	assert.Equal(t, notifdto.TypeEventCancelled, sent.Notification.Type)
	assert.Len(t, sent.Recipients, 5)
}

func TestLeaveCancelledEventRejected(t *testing.T) {
	svc, store, _ := newTestService()
	event := seedEvent(store, 1, func(e *model.EventModel) {
		e.EventState = model.StateCancelled
	})
	seedMember(store, event.EventID, 5, attendeeRoleID, nil)

	err := svc.LeaveEvent(context.Background(), event.EventID, 5)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeEventNotActive, apperror.From(err).Code)
}

/* =========================================================
 * Removal
 * ========================================================= */

func TestRemoveAttendeeRequiresPermission(t *testing.T) {
	svc, store, _ := newTestService()
	event := seedEvent(store, 1, nil)
	seedMember(store, event.EventID, 5, attendeeRoleID, nil)
	// Default manager permissions do not include REMOVE_REGISTERED_USERS.
	seedMember(store, event.EventID, 20, managerRoleID, nil)

	err := svc.RemoveAttendee(context.Background(), event.EventID, 20, 5)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeNoPermission, apperror.From(err).Code)
}

func TestRemoveAttendeeWithGrant(t *testing.T) {
	svc, store, _ := newTestService()
	event := seedEvent(store, 1, nil)
	seedMember(store, event.EventID, 5, attendeeRoleID, nil)
	manager := seedMember(store, event.EventID, 20, managerRoleID, nil)
	manager.UserEventRolePermissions = []string{"REMOVE_REGISTERED_USERS"}

	require.NoError(t, svc.RemoveAttendee(context.Background(), event.EventID, 20, 5))

	member, _ := store.Membership(context.Background(), event.EventID, 5)
	assert.Nil(t, member)
}

func TestRemoveAttendeeAsOwner(t *testing.T) {
	svc, store, _ := newTestService()
	event := seedEvent(store, 1, nil)
	seedMember(store, event.EventID, 5, attendeeRoleID, nil)

	require.NoError(t, svc.RemoveAttendee(context.Background(), event.EventID, 1, 5))
}

func TestRemoveSelfBypassesPermission(t *testing.T) {
	svc, store, _ := newTestService()
	event := seedEvent(store, 1, nil)
	seedMember(store, event.EventID, 5, attendeeRoleID, nil)

	// Attendees hold no removal permission; self-removal is leave.
	require.NoError(t, svc.RemoveAttendee(context.Background(), event.EventID, 5, 5))

	member, _ := store.Membership(context.Background(), event.EventID, 5)
	assert.Nil(t, member)
}

func TestRemoveManagerMissingTarget(t *testing.T) {
	svc, store, _ := newTestService()
	event := seedEvent(store, 1, nil)

	err := svc.RemoveManager(context.Background(), event.EventID, 1, 42)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

/* =========================================================
 * Create / details
 * ========================================================= */

func TestCreateEventValidation(t *testing.T) {
	svc, _, _ := newTestService()

	base := dto.CreateEventRequest{
		Name:          "Alexandria Book Fair",
		Description:   "A community gathering for readers and local publishers.",
		Governorate:   "alexandria",
		StartAt:       testNow.Add(72 * time.Hour).Format(time.RFC3339),
		Duration:      180,
		MaxAttendees:  100,
		Visibility:    "PUBLIC",
		PaymentMethod: "FREE",
	}

	t.Run("valid", func(t *testing.T) {
		event, err := svc.CreateEvent(context.Background(), 1, base)
		require.NoError(t, err)
		assert.Equal(t, uint(1), *event.EventOwnerID)
		assert.Equal(t, model.StateOpenForRegistration, event.EventState)
	})

	t.Run("start in past", func(t *testing.T) {
		req := base
		req.StartAt = testNow.Add(-time.Hour).Format(time.RFC3339)
		_, err := svc.CreateEvent(context.Background(), 1, req)
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	})

	t.Run("price required for paid method", func(t *testing.T) {
		req := base
		req.PaymentMethod = "ONLINE"
		_, err := svc.CreateEvent(context.Background(), 1, req)
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	})

	t.Run("price forbidden for free event", func(t *testing.T) {
		req := base
		price := 50.0
		req.Price = &price
		_, err := svc.CreateEvent(context.Background(), 1, req)
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	})

	t.Run("unknown governorate", func(t *testing.T) {
		req := base
		req.Governorate = "atlantis"
		_, err := svc.CreateEvent(context.Background(), 1, req)
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	})
}

func TestGetEventDetailsVisibility(t *testing.T) {
	svc, store, _ := newTestService()
	private := seedEvent(store, 1, func(e *model.EventModel) {
		e.EventVisibility = model.VisibilityPrivate
	})
	seedMember(store, private.EventID, 5, attendeeRoleID, strptr("my-code"))

	t.Run("anonymous viewer denied on private event", func(t *testing.T) {
		_, err := svc.GetEventDetails(context.Background(), private.EventID, nil)
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
	})

	t.Run("non-member denied on private event", func(t *testing.T) {
		viewer := uint(9)
		_, err := svc.GetEventDetails(context.Background(), private.EventID, &viewer)
		require.Error(t, err)
		assert.Equal(t, apperror.CodeUserNotMember, apperror.From(err).Code)
	})

	t.Run("member sees own attendance code", func(t *testing.T) {
		viewer := uint(5)
		details, err := svc.GetEventDetails(context.Background(), private.EventID, &viewer)
		require.NoError(t, err)
		require.NotNil(t, details.AttendanceCode)
		assert.Equal(t, "my-code", *details.AttendanceCode)
	})

	t.Run("derived state included", func(t *testing.T) {
		viewer := uint(1)
		details, err := svc.GetEventDetails(context.Background(), private.EventID, &viewer)
		require.NoError(t, err)
		assert.Equal(t, model.DerivedOpenForRegistration, details.State)
		assert.Nil(t, details.AttendanceCode)
	})
}
