package database

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	amodel "eventhub_backend/internals/features/authorization/model"
	evmodel "eventhub_backend/internals/features/events/event/model"
	invmodel "eventhub_backend/internals/features/events/invite/model"
	notifmodel "eventhub_backend/internals/features/notifications/notification/model"
	umodel "eventhub_backend/internals/features/users/user/model"
)

// Migrate applies the schema and seeds the role tables. Seeding is
// idempotent; existing rows are left alone.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&umodel.UserModel{},
		&amodel.RoleModel{},
		&amodel.RolePermissionModel{},
		&evmodel.EventModel{},
		&evmodel.UserEventRoleModel{},
		&invmodel.InviteModel{},
		&notifmodel.NotificationModel{},
		&notifmodel.NotificationReceiverModel{},
		&notifmodel.DeviceTokenModel{},
	); err != nil {
		return err
	}
	return seedRoles(db)
}

// seedRoles installs the invitable roles and their default permissions.
// OWNER is never stored as a role row; ownership lives on the event.
func seedRoles(db *gorm.DB) error {
	defaults := map[amodel.Role][]amodel.Permission{
		amodel.RoleAttendee: {
			amodel.PermissionViewEvent,
		},
		amodel.RoleManager: {
			amodel.PermissionViewEvent,
			amodel.PermissionViewAttendees,
			amodel.PermissionScanCode,
		},
	}

	for role, perms := range defaults {
		var row amodel.RoleModel
		err := db.Where("role_name = ?", string(role)).First(&row).Error
		if err == gorm.ErrRecordNotFound {
			row = amodel.RoleModel{RoleName: string(role)}
			if err := db.Create(&row).Error; err != nil {
				return err
			}
			logrus.WithField("role", role).Info("role seeded")
		} else if err != nil {
			return err
		}

		for _, perm := range perms {
			grant := amodel.RolePermissionModel{
				RolePermissionRoleID:     row.RoleID,
				RolePermissionPermission: string(perm),
			}
			err := db.Where("role_permission_role_id = ? AND role_permission_permission = ?", row.RoleID, string(perm)).
				First(&amodel.RolePermissionModel{}).Error
			if err == gorm.ErrRecordNotFound {
				if err := db.Create(&grant).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}
		}
	}
	return nil
}
