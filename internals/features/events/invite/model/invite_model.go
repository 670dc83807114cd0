package model

import (
	"time"

	"github.com/lib/pq"
)

type InviteStatus string

const (
	InvitePending  InviteStatus = "PENDING"
	InviteAccepted InviteStatus = "ACCEPTED"
	InviteDeclined InviteStatus = "DECLINED"
)

// InviteModel is a pending (or resolved) role offer. One invite per
// (event, receiver) pair regardless of status; a declined invite is resent
// in place, never duplicated.
type InviteModel struct {
	InviteID uint `gorm:"column:invite_id;primaryKey" json:"invite_id"`

	InviteEventID    uint `gorm:"column:invite_event_id;not null;uniqueIndex:uq_invites_event_receiver" json:"invite_event_id"`
	InviteSenderID   uint `gorm:"column:invite_sender_id;not null;index" json:"invite_sender_id"`
	InviteReceiverID uint `gorm:"column:invite_receiver_id;not null;uniqueIndex:uq_invites_event_receiver;index" json:"invite_receiver_id"`

	InviteRoleID uint `gorm:"column:invite_role_id;not null" json:"invite_role_id"`

	// Permission overrides carried into the membership row on acceptance.
	// Always empty for attendee invites.
	InvitePermissions pq.StringArray `gorm:"column:invite_permissions;type:text[]" json:"invite_permissions,omitempty"`

	InviteStatus InviteStatus `gorm:"column:invite_status;type:varchar(10);not null;default:'PENDING'" json:"invite_status"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (InviteModel) TableName() string {
	return "invites"
}
