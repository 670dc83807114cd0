package model

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationModel struct {
	NotificationID uint `gorm:"column:notification_id;primaryKey" json:"notification_id"`

	NotificationType       string  `gorm:"column:notification_type;type:varchar(30);not null" json:"notification_type"`
	NotificationSenderID   *uint   `gorm:"column:notification_sender_id" json:"notification_sender_id,omitempty"`
	NotificationTargetID   *uint   `gorm:"column:notification_target_id;index:idx_notifications_target" json:"notification_target_id,omitempty"`
	NotificationTargetType *string `gorm:"column:notification_target_type;type:varchar(20);index:idx_notifications_target" json:"notification_target_type,omitempty"`

	NotificationData datatypes.JSON `gorm:"column:notification_data;type:jsonb" json:"notification_data"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

// NotificationReceiverModel is the per-recipient receipt row backing the
// in-app notification history.
type NotificationReceiverModel struct {
	NotificationReceiverID uint `gorm:"column:notification_receiver_id;primaryKey" json:"notification_receiver_id"`

	NotificationReceiverNotificationID uint `gorm:"column:notification_receiver_notification_id;not null;index" json:"notification_receiver_notification_id"`
	NotificationReceiverUserID         uint `gorm:"column:notification_receiver_user_id;not null;index" json:"notification_receiver_user_id"`

	NotificationReceiverRead bool `gorm:"column:notification_receiver_read;not null;default:false" json:"notification_receiver_read"`
}

func (NotificationReceiverModel) TableName() string {
	return "notification_receivers"
}

// DeviceTokenModel is a registered push delivery endpoint.
type DeviceTokenModel struct {
	DeviceTokenID     uint      `gorm:"column:device_token_id;primaryKey" json:"device_token_id"`
	DeviceTokenUserID uint      `gorm:"column:device_token_user_id;not null;index" json:"device_token_user_id"`
	DeviceTokenToken  string    `gorm:"column:device_token_token;unique;not null" json:"-"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (DeviceTokenModel) TableName() string {
	return "device_tokens"
}
