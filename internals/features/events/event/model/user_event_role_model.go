package model

import (
	"time"

	"github.com/lib/pq"
)

// UserEventRoleModel is a stored membership: one MANAGER or ATTENDEE row per
// (event, user) pair. Owners never have a row. The attendance code is unique
// per event and only present for attendees.
type UserEventRoleModel struct {
	UserEventRoleID uint `gorm:"column:user_event_role_id;primaryKey" json:"user_event_role_id"`

	UserEventRoleEventID uint `gorm:"column:user_event_role_event_id;not null;uniqueIndex:uq_user_event_roles_event_user;uniqueIndex:uq_user_event_roles_event_code" json:"user_event_role_event_id"`
	UserEventRoleUserID  uint `gorm:"column:user_event_role_user_id;not null;uniqueIndex:uq_user_event_roles_event_user;index" json:"user_event_role_user_id"`
	UserEventRoleRoleID  uint `gorm:"column:user_event_role_role_id;not null;index" json:"user_event_role_role_id"`

	// Extra permissions granted beyond the role defaults (manager invites
	// may carry overrides; attendees never do).
	UserEventRolePermissions pq.StringArray `gorm:"column:user_event_role_permissions;type:text[]" json:"user_event_role_permissions,omitempty"`

	UserEventRoleAttendanceCode *string `gorm:"column:user_event_role_attendance_code;type:uuid;uniqueIndex:uq_user_event_roles_event_code" json:"user_event_role_attendance_code,omitempty"`

	UserEventRoleAttended   bool       `gorm:"column:user_event_role_attended;not null;default:false" json:"user_event_role_attended"`
	UserEventRoleVerifiedAt *time.Time `gorm:"column:user_event_role_verified_at" json:"user_event_role_verified_at,omitempty"`
	UserEventRoleVerifiedBy *uint      `gorm:"column:user_event_role_verified_by" json:"user_event_role_verified_by,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (UserEventRoleModel) TableName() string {
	return "user_event_roles"
}
