package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub_backend/internals/features/notifications/notification/dto"
	"eventhub_backend/internals/features/notifications/notification/repository"

	"eventhub_backend/internals/apperror"
)

/* =========================================================
 * Fakes
 * ========================================================= */

type fakeNotifStore struct {
	created    []dto.CreateNotification
	recipients [][]uint
	createErr  error

	deletedTargets []uint
	receiptRows    int64
}

func (f *fakeNotifStore) CreateForUsers(_ context.Context, data dto.CreateNotification, userIDs []uint) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, data)
	f.recipients = append(f.recipients, userIDs)
	return nil
}

func (f *fakeNotifStore) ListByUser(_ context.Context, _ uint, _, _ int) ([]repository.InboxEntry, error) {
	return nil, nil
}

func (f *fakeNotifStore) CountUnread(_ context.Context, _ uint) (int64, error) { return 0, nil }

func (f *fakeNotifStore) MarkAllRead(_ context.Context, _ uint) error { return nil }

func (f *fakeNotifStore) DeleteReceipt(_ context.Context, _, _ uint) (int64, error) {
	return f.receiptRows, nil
}

func (f *fakeNotifStore) DeleteByTarget(_ context.Context, targetID uint, _ dto.NotificationTarget) error {
	f.deletedTargets = append(f.deletedTargets, targetID)
	return nil
}

type fakeTokens struct {
	tokens  map[uint][]string
	deleted []string
	lookupErr error
}

func (f *fakeTokens) Create(_ context.Context, userID uint, token string) error {
	f.tokens[userID] = append(f.tokens[userID], token)
	return nil
}

func (f *fakeTokens) Exists(_ context.Context, token string) (bool, error) {
	for _, list := range f.tokens {
		for _, t := range list {
			if t == token {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeTokens) TokensForUsers(_ context.Context, userIDs []uint) ([]string, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	var out []string
	for _, id := range userIDs {
		out = append(out, f.tokens[id]...)
	}
	return out, nil
}

func (f *fakeTokens) DeleteByToken(_ context.Context, token string) error {
	f.deleted = append(f.deleted, token)
	return nil
}

type fakePusher struct {
	messages []PushMessage
	tokens   [][]string
	results  []PushResult
	err      error
}

func (f *fakePusher) SendMulticast(_ context.Context, msg PushMessage, tokens []string) ([]PushResult, error) {
	f.messages = append(f.messages, msg)
	f.tokens = append(f.tokens, tokens)
	if f.err != nil {
		return nil, f.err
	}
	if f.results != nil {
		return f.results, nil
	}
	results := make([]PushResult, len(tokens))
	for i, t := range tokens {
		results[i] = PushResult{Token: t}
	}
	return results, nil
}

func newNotifFixture() (*NotificationService, *fakeNotifStore, *fakeTokens, *fakePusher) {
	store := &fakeNotifStore{}
	tokens := &fakeTokens{tokens: map[uint][]string{}}
	pusher := &fakePusher{}
	return NewNotificationService(store, tokens, pusher), store, tokens, pusher
}

func inviteNotification() dto.CreateNotification {
	return dto.CreateNotification{
		Type: dto.TypeInvite,
		Data: map[string]interface{}{
			"title": "New invitation",
			"body":  "Someone invited you.",
		},
	}
}

/* =========================================================
 * Dispatch
 * ========================================================= */

func TestSendStoresAndPushes(t *testing.T) {
	svc, store, tokens, pusher := newNotifFixture()
	tokens.tokens[1] = []string{"tok-1"}
	tokens.tokens[2] = []string{"tok-2a", "tok-2b"}

	svc.Send(context.Background(), inviteNotification(), []uint{1, 2, 3})

	require.Len(t, store.created, 1)
	assert.Equal(t, []uint{1, 2, 3}, store.recipients[0])

	require.Len(t, pusher.messages, 1)
	assert.Equal(t, "New invitation", pusher.messages[0].Title)
	assert.Equal(t, "INVITE", pusher.messages[0].Data["notification_type"])
	assert.ElementsMatch(t, []string{"tok-1", "tok-2a", "tok-2b"}, pusher.tokens[0])
}

func TestSendStoredOnlyWithoutTokens(t *testing.T) {
	svc, store, _, pusher := newNotifFixture()

	svc.Send(context.Background(), inviteNotification(), []uint{7})

	assert.Len(t, store.created, 1)
	assert.Empty(t, pusher.messages)
}

func TestSendNoRecipients(t *testing.T) {
	svc, store, _, _ := newNotifFixture()

	svc.Send(context.Background(), inviteNotification(), nil)
	assert.Empty(t, store.created)
}

func TestSendAbsorbsStoreFailure(t *testing.T) {
	svc, store, tokens, pusher := newNotifFixture()
	store.createErr = errors.New("db down")
	tokens.tokens[1] = []string{"tok-1"}

	// Must not panic or push when storage failed.
	svc.Send(context.Background(), inviteNotification(), []uint{1})
	assert.Empty(t, pusher.messages)
}

func TestSendAbsorbsPushFailure(t *testing.T) {
	svc, store, tokens, pusher := newNotifFixture()
	tokens.tokens[1] = []string{"tok-1"}
	pusher.err = errors.New("provider unreachable")

	svc.Send(context.Background(), inviteNotification(), []uint{1})
	// Stored delivery survived the push outage.
	assert.Len(t, store.created, 1)
}

func TestSendPrunesUnregisteredTokens(t *testing.T) {
	svc, _, tokens, pusher := newNotifFixture()
	tokens.tokens[1] = []string{"stale", "live"}
	pusher.results = []PushResult{
		{Token: "stale", Unregistered: true},
		{Token: "live"},
	}

	svc.Send(context.Background(), inviteNotification(), []uint{1})
	assert.Equal(t, []string{"stale"}, tokens.deleted)
}

func TestDeleteInviteNotification(t *testing.T) {
	svc, store, _, _ := newNotifFixture()

	svc.DeleteInviteNotification(context.Background(), 42)
	assert.Equal(t, []uint{42}, store.deletedTargets)
}

/* =========================================================
 * Token registration / inbox
 * ========================================================= */

func TestRegisterToken(t *testing.T) {
	svc, _, tokens, _ := newNotifFixture()

	require.NoError(t, svc.RegisterToken(context.Background(), 1, "tok-1"))
	assert.Equal(t, []string{"tok-1"}, tokens.tokens[1])

	err := svc.RegisterToken(context.Background(), 2, "tok-1")
	require.Error(t, err)
	assert.Equal(t, apperror.CodeTokenAlreadyRegistered, apperror.From(err).Code)
}

func TestDeleteOwnNotification(t *testing.T) {
	svc, store, _, _ := newNotifFixture()

	err := svc.DeleteOwn(context.Background(), 1, 5)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	store.receiptRows = 1
	require.NoError(t, svc.DeleteOwn(context.Background(), 1, 5))
}
