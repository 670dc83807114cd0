package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eventhub_backend/internals/features/events/event/model"
	umodel "eventhub_backend/internals/features/users/user/model"
)

type EventRepository struct {
	db             *gorm.DB
	attendeeRoleID uint
	managerRoleID  uint
}

// New builds the repository with the role ids resolved from the role cache
// at startup; attendee counting and role-scoped listings depend on them.
func New(db *gorm.DB, attendeeRoleID, managerRoleID uint) *EventRepository {
	return &EventRepository{db: db, attendeeRoleID: attendeeRoleID, managerRoleID: managerRoleID}
}

func (r *EventRepository) Create(ctx context.Context, event *model.EventModel) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// GetByID returns (nil, nil) when the event does not exist.
func (r *EventRepository) GetByID(ctx context.Context, eventID uint) (*model.EventModel, error) {
	var event model.EventModel
	err := r.db.WithContext(ctx).First(&event, "event_id = ?", eventID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) CountAttendees(ctx context.Context, eventID uint) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserEventRoleModel{}).
		Where("user_event_role_event_id = ? AND user_event_role_role_id = ?", eventID, r.attendeeRoleID).
		Count(&count).Error
	return int(count), err
}

func (r *EventRepository) Owner(ctx context.Context, ownerID uint) (*umodel.PublicUser, error) {
	var user umodel.UserModel
	err := r.db.WithContext(ctx).First(&user, "user_id = ?", ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

/* =========================================================
 * Memberships
 * ========================================================= */

func (r *EventRepository) AddMember(ctx context.Context, member *model.UserEventRoleModel) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// Membership returns (nil, nil) when no row exists for the pair.
func (r *EventRepository) Membership(ctx context.Context, eventID, userID uint) (*model.UserEventRoleModel, error) {
	var member model.UserEventRoleModel
	err := r.db.WithContext(ctx).
		Where("user_event_role_event_id = ? AND user_event_role_user_id = ?", eventID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// RemoveMember deletes the membership row, optionally restricted to a role.
// Returns the number of rows removed.
func (r *EventRepository) RemoveMember(ctx context.Context, eventID, userID uint, roleID *uint) (int64, error) {
	query := r.db.WithContext(ctx).
		Where("user_event_role_event_id = ? AND user_event_role_user_id = ?", eventID, userID)
	if roleID != nil {
		query = query.Where("user_event_role_role_id = ?", *roleID)
	}
	result := query.Delete(&model.UserEventRoleModel{})
	return result.RowsAffected, result.Error
}

// MemberUserIDs lists member user ids, optionally restricted to a role.
func (r *EventRepository) MemberUserIDs(ctx context.Context, eventID uint, roleID *uint) ([]uint, error) {
	query := r.db.WithContext(ctx).Model(&model.UserEventRoleModel{}).
		Where("user_event_role_event_id = ?", eventID)
	if roleID != nil {
		query = query.Where("user_event_role_role_id = ?", *roleID)
	}
	var ids []uint
	err := query.Pluck("user_event_role_user_id", &ids).Error
	return ids, err
}

func (r *EventRepository) AttendeeRoleID() uint { return r.attendeeRoleID }
func (r *EventRepository) ManagerRoleID() uint  { return r.managerRoleID }

type AttendeeRow struct {
	User       umodel.PublicUser `json:"user"`
	Attended   bool              `json:"attended"`
	VerifiedAt *time.Time        `json:"verified_at,omitempty"`
	VerifiedBy *uint             `json:"verified_by,omitempty"`
}

func (r *EventRepository) ListAttendees(ctx context.Context, eventID uint, offset, limit int) ([]AttendeeRow, error) {
	var rows []struct {
		umodel.UserModel
		UserEventRoleAttended   bool
		UserEventRoleVerifiedAt *time.Time
		UserEventRoleVerifiedBy *uint
	}
	err := r.db.WithContext(ctx).
		Table("user_event_roles").
		Select("users.*, user_event_roles.user_event_role_attended, user_event_roles.user_event_role_verified_at, user_event_roles.user_event_role_verified_by").
		Joins("JOIN users ON users.user_id = user_event_roles.user_event_role_user_id").
		Where("user_event_role_event_id = ? AND user_event_role_role_id = ?", eventID, r.attendeeRoleID).
		Order("user_event_roles.created_at ASC").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	attendees := make([]AttendeeRow, 0, len(rows))
	for _, row := range rows {
		attendees = append(attendees, AttendeeRow{
			User:       row.UserModel.Public(),
			Attended:   row.UserEventRoleAttended,
			VerifiedAt: row.UserEventRoleVerifiedAt,
			VerifiedBy: row.UserEventRoleVerifiedBy,
		})
	}
	return attendees, nil
}

type ManagerRow struct {
	User        umodel.PublicUser `json:"user"`
	Permissions []string          `json:"permissions"`
}

func (r *EventRepository) ListManagers(ctx context.Context, eventID uint, offset, limit int) ([]ManagerRow, error) {
	var members []model.UserEventRoleModel
	err := r.db.WithContext(ctx).
		Where("user_event_role_event_id = ? AND user_event_role_role_id = ?", eventID, r.managerRoleID).
		Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&members).Error
	if err != nil {
		return nil, err
	}

	managers := make([]ManagerRow, 0, len(members))
	for _, member := range members {
		var user umodel.UserModel
		if err := r.db.WithContext(ctx).First(&user, "user_id = ?", member.UserEventRoleUserID).Error; err != nil {
			return nil, err
		}
		managers = append(managers, ManagerRow{
			User:        user.Public(),
			Permissions: member.UserEventRolePermissions,
		})
	}
	return managers, nil
}

/* =========================================================
 * Updates
 * ========================================================= */

func (r *EventRepository) UpdateFields(ctx context.Context, eventID uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.EventModel{}).
		Where("event_id = ?", eventID).
		Updates(updates).Error
}

// CancelAndClearOwner performs the owner-leave transition: the event is
// irreversibly cancelled and ownership is cleared in a single update.
func (r *EventRepository) CancelAndClearOwner(ctx context.Context, eventID uint) error {
	return r.db.WithContext(ctx).Model(&model.EventModel{}).
		Where("event_id = ?", eventID).
		Updates(map[string]interface{}{
			"event_state":    model.StateCancelled,
			"event_owner_id": nil,
		}).Error
}

/* =========================================================
 * Attendance verification
 * ========================================================= */

// ErrCodeNotFound signals an unknown attendance code for the event.
var ErrCodeNotFound = errors.New("attendance code not found")

// AlreadyVerifiedError reports the conflicting prior verification.
type AlreadyVerifiedError struct {
	VerifiedAt time.Time
	Verifier   *umodel.PublicUser
}

func (e *AlreadyVerifiedError) Error() string {
	return fmt.Sprintf("attendance already verified at %s", e.VerifiedAt.Format(time.RFC3339))
}

type VerifiedAttendee struct {
	User       umodel.PublicUser `json:"user"`
	Attended   bool              `json:"attended"`
	VerifiedAt time.Time         `json:"verified_at"`
	VerifiedBy uint              `json:"verified_by"`
}

// VerifyAttendance runs the one-shot check-and-mark inside a single
// transaction. The membership row is locked so two concurrent scans of the
// same code cannot both win: the loser observes the winner's verification.
func (r *EventRepository) VerifyAttendance(ctx context.Context, eventID, verifierID uint, attendanceCode string, now time.Time) (*VerifiedAttendee, error) {
	var verified *VerifiedAttendee

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var member model.UserEventRoleModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_event_role_event_id = ? AND user_event_role_attendance_code = ?", eventID, attendanceCode).
			First(&member).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCodeNotFound
		}
		if err != nil {
			return err
		}

		if member.UserEventRoleVerifiedAt != nil {
			conflict := &AlreadyVerifiedError{VerifiedAt: *member.UserEventRoleVerifiedAt}
			if member.UserEventRoleVerifiedBy != nil {
				var verifier umodel.UserModel
				if err := tx.First(&verifier, "user_id = ?", *member.UserEventRoleVerifiedBy).Error; err == nil {
					public := verifier.Public()
					conflict.Verifier = &public
				}
			}
			return conflict
		}

		if err := tx.Model(&model.UserEventRoleModel{}).
			Where("user_event_role_id = ?", member.UserEventRoleID).
			Updates(map[string]interface{}{
				"user_event_role_attended":    true,
				"user_event_role_verified_at": now,
				"user_event_role_verified_by": verifierID,
			}).Error; err != nil {
			return err
		}

		var attendee umodel.UserModel
		if err := tx.First(&attendee, "user_id = ?", member.UserEventRoleUserID).Error; err != nil {
			return err
		}

		verified = &VerifiedAttendee{
			User:       attendee.Public(),
			Attended:   true,
			VerifiedAt: now,
			VerifiedBy: verifierID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return verified, nil
}

/* =========================================================
 * Reminder sweep
 * ========================================================= */

func (r *EventRepository) EventsNeedingReminder(ctx context.Context, from, until time.Time) ([]model.EventModel, error) {
	var events []model.EventModel
	err := r.db.WithContext(ctx).
		Where("event_start_at >= ? AND event_start_at < ? AND event_reminder_sent = false AND event_state <> ?",
			from, until, model.StateCancelled).
		Find(&events).Error
	return events, err
}

func (r *EventRepository) MarkReminderSent(ctx context.Context, eventID uint) error {
	return r.db.WithContext(ctx).Model(&model.EventModel{}).
		Where("event_id = ?", eventID).
		Update("event_reminder_sent", true).Error
}
