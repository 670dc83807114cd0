package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"eventhub_backend/internals/features/notifications/notification/dto"
	"eventhub_backend/internals/features/notifications/notification/model"
)

type NotificationRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateForUsers stores the notification record and one receipt row per
// recipient in a single transaction.
func (r *NotificationRepository) CreateForUsers(ctx context.Context, data dto.CreateNotification, userIDs []uint) error {
	payload, err := json.Marshal(data.Data)
	if err != nil {
		return err
	}

	var targetType *string
	if data.TargetType != nil {
		s := string(*data.TargetType)
		targetType = &s
	}

	notification := model.NotificationModel{
		NotificationType:       string(data.Type),
		NotificationSenderID:   data.SenderID,
		NotificationTargetID:   data.TargetID,
		NotificationTargetType: targetType,
		NotificationData:       payload,
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&notification).Error; err != nil {
			return err
		}
		receivers := make([]model.NotificationReceiverModel, 0, len(userIDs))
		for _, id := range userIDs {
			receivers = append(receivers, model.NotificationReceiverModel{
				NotificationReceiverNotificationID: notification.NotificationID,
				NotificationReceiverUserID:         id,
			})
		}
		return tx.Create(&receivers).Error
	})
}

type InboxEntry struct {
	NotificationID uint            `json:"notification_id"`
	Type           string          `json:"type"`
	TargetID       *uint           `json:"target_id,omitempty"`
	TargetType     *string         `json:"target_type,omitempty"`
	Data           json.RawMessage `json:"data"`
	Read           bool            `json:"read"`
	CreatedAt      time.Time       `json:"created_at"`
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]InboxEntry, error) {
	var rows []struct {
		model.NotificationModel
		NotificationReceiverRead bool
	}
	err := r.db.WithContext(ctx).
		Table("notification_receivers").
		Select("notifications.*, notification_receivers.notification_receiver_read").
		Joins("JOIN notifications ON notifications.notification_id = notification_receivers.notification_receiver_notification_id").
		Where("notification_receiver_user_id = ?", userID).
		Order("notifications.created_at DESC").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]InboxEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, InboxEntry{
			NotificationID: row.NotificationID,
			Type:           row.NotificationType,
			TargetID:       row.NotificationTargetID,
			TargetType:     row.NotificationTargetType,
			Data:           json.RawMessage(row.NotificationData),
			Read:           row.NotificationReceiverRead,
			CreatedAt:      row.CreatedAt,
		})
	}
	return entries, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.NotificationReceiverModel{}).
		Where("notification_receiver_user_id = ? AND notification_receiver_read = false", userID).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&model.NotificationReceiverModel{}).
		Where("notification_receiver_user_id = ? AND notification_receiver_read = false", userID).
		Update("notification_receiver_read", true).Error
}

// DeleteReceipt removes the caller's own receipt; scoping by user id keeps
// users from deleting each other's history.
func (r *NotificationRepository) DeleteReceipt(ctx context.Context, userID, notificationID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("notification_receiver_user_id = ? AND notification_receiver_notification_id = ?", userID, notificationID).
		Delete(&model.NotificationReceiverModel{})
	return result.RowsAffected, result.Error
}

// DeleteByTarget removes notifications (and their receipts) tied to a
// resolved target, e.g. an accepted or declined invite.
func (r *NotificationRepository) DeleteByTarget(ctx context.Context, targetID uint, targetType dto.NotificationTarget) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		err := tx.Model(&model.NotificationModel{}).
			Where("notification_target_id = ? AND notification_target_type = ?", targetID, string(targetType)).
			Pluck("notification_id", &ids).Error
		if err != nil || len(ids) == 0 {
			return err
		}
		if err := tx.Where("notification_receiver_notification_id IN ?", ids).
			Delete(&model.NotificationReceiverModel{}).Error; err != nil {
			return err
		}
		return tx.Where("notification_id IN ?", ids).Delete(&model.NotificationModel{}).Error
	})
}

/* =========================================================
 * Device tokens
 * ========================================================= */

type DeviceTokenRepository struct {
	db *gorm.DB
}

func NewDeviceTokens(db *gorm.DB) *DeviceTokenRepository {
	return &DeviceTokenRepository{db: db}
}

func (r *DeviceTokenRepository) Create(ctx context.Context, userID uint, token string) error {
	return r.db.WithContext(ctx).Create(&model.DeviceTokenModel{
		DeviceTokenUserID: userID,
		DeviceTokenToken:  token,
	}).Error
}

func (r *DeviceTokenRepository) Exists(ctx context.Context, token string) (bool, error) {
	var existing model.DeviceTokenModel
	err := r.db.WithContext(ctx).First(&existing, "device_token_token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *DeviceTokenRepository) TokensForUsers(ctx context.Context, userIDs []uint) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).Model(&model.DeviceTokenModel{}).
		Where("device_token_user_id IN ?", userIDs).
		Pluck("device_token_token", &tokens).Error
	return tokens, err
}

func (r *DeviceTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).
		Where("device_token_token = ?", token).
		Delete(&model.DeviceTokenModel{}).Error
}
