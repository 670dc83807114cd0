package repository

import (
	"context"
	"time"
)

type UserEventRow struct {
	EventID              uint       `json:"event_id"`
	EventName            string     `json:"event_name"`
	EventStartAt         time.Time  `json:"event_start_at"`
	EventDurationMinutes int        `json:"event_duration_minutes"`
	EventGovernorate     string     `json:"event_governorate"`
	EventState           string     `json:"event_state"`
	EventImageURL        *string    `json:"event_image_url,omitempty"`
	VerifiedAt           *time.Time `json:"verified_at,omitempty"`
}

// AttendedEvents lists events whose attendance was verified for the user,
// most recent first.
func (r *UserRepository) AttendedEvents(ctx context.Context, userID uint, offset, limit int) ([]UserEventRow, error) {
	sql := `
		SELECT
			e.event_id,
			e.event_name,
			e.event_start_at,
			e.event_duration_minutes,
			e.event_governorate,
			e.event_state,
			e.event_image_url,
			ur.user_event_role_verified_at AS verified_at
		FROM user_event_roles ur
		JOIN events e ON e.event_id = ur.user_event_role_event_id
		WHERE ur.user_event_role_user_id = ?
			AND ur.user_event_role_attended = TRUE
		ORDER BY e.event_start_at DESC
		LIMIT ? OFFSET ?`

	var rows []UserEventRow
	err := r.db.WithContext(ctx).Raw(sql, userID, limit, offset).Scan(&rows).Error
	return rows, err
}

// OrganizedEvents lists events the user owns, most recent first.
func (r *UserRepository) OrganizedEvents(ctx context.Context, userID uint, offset, limit int) ([]UserEventRow, error) {
	sql := `
		SELECT
			e.event_id,
			e.event_name,
			e.event_start_at,
			e.event_duration_minutes,
			e.event_governorate,
			e.event_state,
			e.event_image_url
		FROM events e
		WHERE e.event_owner_id = ?
		ORDER BY e.event_start_at DESC
		LIMIT ? OFFSET ?`

	var rows []UserEventRow
	err := r.db.WithContext(ctx).Raw(sql, userID, limit, offset).Scan(&rows).Error
	return rows, err
}
