package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub_backend/internals/features/events/event/dto"
	"eventhub_backend/internals/features/events/event/model"
	notifdto "eventhub_backend/internals/features/notifications/notification/dto"
	umodel "eventhub_backend/internals/features/users/user/model"

	"eventhub_backend/internals/apperror"
)

func intptr(n int) *int { return &n }

/* =========================================================
 * Update
 * ========================================================= */

func TestUpdateEventRequiresPermission(t *testing.T) {
	svc, store, _ := newTestService()
	event := seedEvent(store, 1, nil)
	seedMember(store, event.EventID, 20, managerRoleID, nil)

	name := "Renamed Meetup With Longer Title"
	_, err := svc.UpdateEvent(context.Background(), event.EventID, 20, dto.UpdateEventRequest{Name: &name})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeNoPermission, apperror.From(err).Code)
}

func TestUpdateEventByOwner(t *testing.T) {
	svc, store, _ := newTestService()
	event := seedEvent(store, 1, nil)

	name := "Renamed Meetup"
	updated, err := svc.UpdateEvent(context.Background(), event.EventID, 1, dto.UpdateEventRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Meetup", updated.EventName)
}

func TestUpdateTerminalEventRejected(t *testing.T) {
	svc, store, _ := newTestService()
	event := seedEvent(store, 1, func(e *model.EventModel) {
		e.EventStartAt = testNow.Add(-time.Minute)
	})

	name := "Too Late"
	_, err := svc.UpdateEvent(context.Background(), event.EventID, 1, dto.UpdateEventRequest{Name: &name})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeEventNotEditable, apperror.From(err).Code)
}

func TestUpdateCapacityBelowAttendance(t *testing.T) {
	svc, store, _ := newTestService()
	event := seedEvent(store, 1, func(e *model.EventModel) {
		e.EventMaxAttendees = 10
	})
	seedMember(store, event.EventID, 10, attendeeRoleID, nil)
	seedMember(store, event.EventID, 11, attendeeRoleID, nil)
	seedMember(store, event.EventID, 12, attendeeRoleID, nil)

	_, err := svc.UpdateEvent(context.Background(), event.EventID, 1, dto.UpdateEventRequest{
		MaxAttendees: intptr(2),
	})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeCapacityBelowAttendance, apperror.From(err).Code)

	// Shrinking exactly to the live attendance is allowed.
	updated, err := svc.UpdateEvent(context.Background(), event.EventID, 1, dto.UpdateEventRequest{
		MaxAttendees: intptr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.EventMaxAttendees)
	assert.Equal(t, model.DerivedClosedForRegistration, updated.State)
}

func TestUpdateCannotReopenFullEvent(t *testing.T) {
	svc, store, _ := newTestService()
	event := seedEvent(store, 1, func(e *model.EventModel) {
		e.EventMaxAttendees = 2
		e.EventState = model.StateClosedForRegistration
	})
	seedMember(store, event.EventID, 10, attendeeRoleID, nil)
	seedMember(store, event.EventID, 11, attendeeRoleID, nil)

	state := "OPEN_FOR_REGISTRATION"
	_, err := svc.UpdateEvent(context.Background(), event.EventID, 1, dto.UpdateEventRequest{State: &state})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeEventFull, apperror.From(err).Code)

	// Raising capacity in the same request makes reopening legal.
	updated, err := svc.UpdateEvent(context.Background(), event.EventID, 1, dto.UpdateEventRequest{
		State:        &state,
		MaxAttendees: intptr(5),
	})
	require.NoError(t, err)
	assert.Equal(t, model.DerivedOpenForRegistration, updated.State)
}

func TestUpdateCancellationNotifiesMembers(t *testing.T) {
	svc, store, notifier := newTestService()
	event := seedEvent(store, 1, func(e *model.EventModel) {
		e.EventMaxAttendees = 10
	})
	seedMember(store, event.EventID, 10, attendeeRoleID, nil)
	seedMember(store, event.EventID, 20, managerRoleID, nil)

	state := "CANCELLED"
	updated, err := svc.UpdateEvent(context.Background(), event.EventID, 1, dto.UpdateEventRequest{State: &state})
	require.NoError(t, err)
	assert.Equal(t, model.DerivedCancelled, updated.State)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, notifdto.TypeEventCancelled, notifier.sent[0].Notification.Type)
	assert.ElementsMatch(t, []uint{10, 20}, notifier.sent[0].Recipients)
}

/* =========================================================
 * Verification
 * ========================================================= */

func verifiableEvent(store *fakeStore) *model.EventModel {
	// Started half an hour ago; well inside the scan window.
	return seedEvent(store, 1, func(e *model.EventModel) {
		e.EventStartAt = testNow.Add(-30 * time.Minute)
	})
}

func TestVerifyAttendance(t *testing.T) {
	svc, store, _ := newTestService()
	event := verifiableEvent(store)
	store.users[5] = umodel.PublicUser{UserID: 5, UserName: "Attendee"}
	seedMember(store, event.EventID, 5, attendeeRoleID, strptr("the-code"))
	seedMember(store, event.EventID, 20, managerRoleID, nil)

	verified, err := svc.VerifyAttendance(context.Background(), event.EventID, 20, "the-code")
	require.NoError(t, err)
	assert.True(t, verified.Attended)
	assert.Equal(t, uint(20), verified.VerifiedBy)
	assert.Equal(t, uint(5), verified.User.UserID)
}

func TestVerifyAttendanceWindow(t *testing.T) {
	svc, store, _ := newTestService()
	// Starts in 2 hours; scanning opens 1 hour before start.
	event := seedEvent(store, 1, func(e *model.EventModel) {
		e.EventStartAt = testNow.Add(2 * time.Hour)
	})
	seedMember(store, event.EventID, 5, attendeeRoleID, strptr("the-code"))

	// The window gate fires before the permission check: a non-member
	// outside the window sees the window conflict, not a denial.
	_, err := svc.VerifyAttendance(context.Background(), event.EventID, 99, "the-code")
	require.Error(t, err)
	assert.Equal(t, apperror.CodeVerificationClosed, apperror.From(err).Code)
}

func TestVerifyAttendanceRequiresScanPermission(t *testing.T) {
	svc, store, _ := newTestService()
	event := verifiableEvent(store)
	seedMember(store, event.EventID, 5, attendeeRoleID, strptr("the-code"))
	seedMember(store, event.EventID, 6, attendeeRoleID, strptr("other-code"))

	// Attendees cannot scan each other.
	_, err := svc.VerifyAttendance(context.Background(), event.EventID, 6, "the-code")
	require.Error(t, err)
	assert.Equal(t, apperror.CodeNoPermission, apperror.From(err).Code)
}

func TestVerifyAttendanceInvalidCode(t *testing.T) {
	svc, store, _ := newTestService()
	event := verifiableEvent(store)
	seedMember(store, event.EventID, 20, managerRoleID, nil)

	_, err := svc.VerifyAttendance(context.Background(), event.EventID, 20, "no-such-code")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Equal(t, apperror.CodeInvalidAttendanceCode, apperror.From(err).Code)
}

func TestVerifyAttendanceTwice(t *testing.T) {
	svc, store, _ := newTestService()
	event := verifiableEvent(store)
	store.users[5] = umodel.PublicUser{UserID: 5}
	store.users[20] = umodel.PublicUser{UserID: 20, UserName: "First Scanner"}
	seedMember(store, event.EventID, 5, attendeeRoleID, strptr("the-code"))
	seedMember(store, event.EventID, 20, managerRoleID, nil)
	seedMember(store, event.EventID, 21, managerRoleID, nil)

	_, err := svc.VerifyAttendance(context.Background(), event.EventID, 20, "the-code")
	require.NoError(t, err)

	// Second scan loses and learns who verified first.
	_, err = svc.VerifyAttendance(context.Background(), event.EventID, 21, "the-code")
	require.Error(t, err)
	appErr := apperror.From(err)
	assert.Equal(t, apperror.CodeAlreadyVerified, appErr.Code)
	require.NotNil(t, appErr.Meta)
	assert.Equal(t, testNow, appErr.Meta["verified_at"])
	verifier, ok := appErr.Meta["verifier"].(*umodel.PublicUser)
	require.True(t, ok)
	assert.Equal(t, "First Scanner", verifier.UserName)
}

/* =========================================================
 * Reminder sweep
 * ========================================================= */

func TestRemindUpcomingEvents(t *testing.T) {
	svc, store, notifier := newTestService()

	soon := seedEvent(store, 1, func(e *model.EventModel) {
		e.EventStartAt = testNow.Add(30 * time.Minute)
	})
	seedMember(store, soon.EventID, 10, attendeeRoleID, nil)
	seedMember(store, soon.EventID, 11, attendeeRoleID, nil)

	// Outside the horizon: untouched.
	later := seedEvent(store, 1, func(e *model.EventModel) {
		e.EventStartAt = testNow.Add(5 * time.Hour)
	})
	seedMember(store, later.EventID, 12, attendeeRoleID, nil)

	// Cancelled events never remind.
	cancelled := seedEvent(store, 1, func(e *model.EventModel) {
		e.EventStartAt = testNow.Add(30 * time.Minute)
		e.EventState = model.StateCancelled
	})
	seedMember(store, cancelled.EventID, 13, attendeeRoleID, nil)

	require.NoError(t, svc.RemindUpcomingEvents(context.Background()))

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, notifdto.TypeEventReminder, notifier.sent[0].Notification.Type)
	assert.ElementsMatch(t, []uint{10, 11}, notifier.sent[0].Recipients)
	assert.Equal(t, []uint{soon.EventID}, store.reminded)
	assert.True(t, store.events[soon.EventID].EventReminderSent)

	// Second sweep is a no-op; the flag prevents duplicates.
	require.NoError(t, svc.RemindUpcomingEvents(context.Background()))
	assert.Len(t, notifier.sent, 1)
}
