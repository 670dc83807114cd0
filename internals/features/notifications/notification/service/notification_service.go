package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"eventhub_backend/internals/features/notifications/notification/dto"
	"eventhub_backend/internals/features/notifications/notification/repository"

	"eventhub_backend/internals/apperror"
	database "eventhub_backend/internals/databases"
)

// PushMessage is a provider-agnostic multicast push.
type PushMessage struct {
	Title string
	Body  string
	Data  map[string]string
}

// PushResult is the per-token delivery outcome. Unregistered marks tokens
// the provider reports as permanently invalid; those are pruned.
type PushResult struct {
	Token        string
	Unregistered bool
	Err          error
}

// Pusher is the delivery provider boundary (FCM in production).
type Pusher interface {
	SendMulticast(ctx context.Context, msg PushMessage, tokens []string) ([]PushResult, error)
}

// NotificationStore is the persistence slice the dispatcher needs.
type NotificationStore interface {
	CreateForUsers(ctx context.Context, data dto.CreateNotification, userIDs []uint) error
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]repository.InboxEntry, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	MarkAllRead(ctx context.Context, userID uint) error
	DeleteReceipt(ctx context.Context, userID, notificationID uint) (int64, error)
	DeleteByTarget(ctx context.Context, targetID uint, targetType dto.NotificationTarget) error
}

// TokenStore manages registered delivery endpoints.
type TokenStore interface {
	Create(ctx context.Context, userID uint, token string) error
	Exists(ctx context.Context, token string) (bool, error)
	TokensForUsers(ctx context.Context, userIDs []uint) ([]string, error)
	DeleteByToken(ctx context.Context, token string) error
}

type NotificationService struct {
	store  NotificationStore
	tokens TokenStore
	pusher Pusher
}

func NewNotificationService(store NotificationStore, tokens TokenStore, pusher Pusher) *NotificationService {
	return &NotificationService{store: store, tokens: tokens, pusher: pusher}
}

// Send persists the notification with one receipt per recipient, then
// best-effort pushes to every registered endpoint. Nothing here ever fails
// the triggering action: storage and delivery problems are logged and
// swallowed, and recipients without endpoints simply get stored-only
// delivery.
func (s *NotificationService) Send(ctx context.Context, notification dto.CreateNotification, recipientIDs []uint) {
	if len(recipientIDs) == 0 {
		return
	}

	if err := s.store.CreateForUsers(ctx, notification, recipientIDs); err != nil {
		logrus.WithError(err).WithField("type", notification.Type).Error("notification store failed")
		return
	}

	tokens, err := s.tokens.TokensForUsers(ctx, recipientIDs)
	if err != nil {
		logrus.WithError(err).Warn("device token lookup failed, notification stored only")
		return
	}
	if len(tokens) == 0 {
		return
	}

	results, err := s.pusher.SendMulticast(ctx, buildPushMessage(notification), tokens)
	if err != nil {
		logrus.WithError(err).Warn("push delivery failed, notification stored only")
		return
	}

	// Prune endpoints the provider reports as permanently gone; one bad
	// token must not affect delivery to the rest.
	for _, result := range results {
		if result.Unregistered {
			if err := s.tokens.DeleteByToken(ctx, result.Token); err != nil {
				logrus.WithError(err).Warn("stale device token prune failed")
			}
			continue
		}
		if result.Err != nil {
			logrus.WithError(result.Err).Debug("push delivery failed for token")
		}
	}
}

func buildPushMessage(notification dto.CreateNotification) PushMessage {
	data := map[string]string{
		"notification_type": string(notification.Type),
	}
	for key, value := range notification.Data {
		data[key] = fmt.Sprintf("%v", value)
	}
	return PushMessage{
		Title: notification.Title(),
		Body:  notification.Body(),
		Data:  data,
	}
}

// DeleteInviteNotification removes the pending-invite notification once the
// invite is accepted or declined.
func (s *NotificationService) DeleteInviteNotification(ctx context.Context, inviteID uint) {
	if err := s.store.DeleteByTarget(ctx, inviteID, dto.TargetInvite); err != nil {
		logrus.WithError(err).WithField("invite_id", inviteID).Warn("invite notification cleanup failed")
	}
}

/* =========================================================
 * Inbox APIs
 * ========================================================= */

func (s *NotificationService) RegisterToken(ctx context.Context, userID uint, token string) error {
	exists, err := s.tokens.Exists(ctx, token)
	if err != nil {
		return apperror.Internal(err)
	}
	if exists {
		return apperror.Conflict(apperror.CodeTokenAlreadyRegistered, "Device token already registered")
	}
	if err := s.tokens.Create(ctx, userID, token); err != nil {
		if database.IsDuplicateKey(err) {
			return apperror.Conflict(apperror.CodeTokenAlreadyRegistered, "Device token already registered")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (s *NotificationService) ListInbox(ctx context.Context, userID uint, offset, limit int) ([]repository.InboxEntry, error) {
	entries, err := s.store.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return entries, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	count, err := s.store.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperror.Internal(err)
	}
	return count, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	if err := s.store.MarkAllRead(ctx, userID); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (s *NotificationService) DeleteOwn(ctx context.Context, userID, notificationID uint) error {
	deleted, err := s.store.DeleteReceipt(ctx, userID, notificationID)
	if err != nil {
		return apperror.Internal(err)
	}
	if deleted == 0 {
		return apperror.NotFound(apperror.CodeNotificationNotFound, "Notification not found")
	}
	return nil
}
