package repository

import (
	"context"
	"time"
)

type SearchQuery struct {
	Name        string
	Governorate string
	SortField   string // "start_at" or "price"
	SortDesc    bool
	Offset      int
	Limit       int
}

type EventSearchRow struct {
	EventID              uint      `json:"event_id"`
	EventOwnerID         *uint     `json:"event_owner_id"`
	EventName            string    `json:"event_name"`
	EventStartAt         time.Time `json:"event_start_at"`
	EventDurationMinutes int       `json:"event_duration_minutes"`
	EventPrice           *float64  `json:"event_price,omitempty"`
	EventMaxAttendees    int       `json:"event_max_attendees"`
	EventGovernorate     string    `json:"event_governorate"`
	EventImageURL        *string   `json:"event_image_url,omitempty"`
	CurrentAttendees     int       `json:"current_attendees"`
}

// Search lists public upcoming events that still have room, with the live
// attendee count aggregated in SQL. Sort keys are whitelisted in Go; only
// the filter values are bound parameters.
func (r *EventRepository) Search(ctx context.Context, q SearchQuery) ([]EventSearchRow, error) {
	sql := `
		SELECT
			e.event_id,
			e.event_owner_id,
			e.event_name,
			e.event_start_at,
			e.event_duration_minutes,
			e.event_price,
			e.event_max_attendees,
			e.event_governorate,
			e.event_image_url,
			COUNT(ur.user_event_role_user_id)::int AS current_attendees
		FROM events e
		LEFT JOIN user_event_roles ur
			ON ur.user_event_role_event_id = e.event_id
			AND ur.user_event_role_role_id = ?
		WHERE e.event_visibility = 'PUBLIC'
			AND e.event_state <> 'CANCELLED'
			AND e.event_start_at >= NOW()`

	args := []interface{}{r.attendeeRoleID}

	if q.Name != "" {
		sql += ` AND e.event_name ILIKE ?`
		args = append(args, "%"+q.Name+"%")
	}
	if q.Governorate != "" {
		sql += ` AND e.event_governorate = ?`
		args = append(args, q.Governorate)
	}

	sql += `
		GROUP BY e.event_id
		HAVING COUNT(ur.user_event_role_user_id) < e.event_max_attendees
		ORDER BY ` + orderClause(q) + `
		LIMIT ? OFFSET ?`
	args = append(args, q.Limit, q.Offset)

	var rows []EventSearchRow
	err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error
	return rows, err
}

func orderClause(q SearchQuery) string {
	if q.SortField == "price" {
		if q.SortDesc {
			return "e.event_price DESC NULLS LAST"
		}
		return "e.event_price ASC NULLS FIRST"
	}
	if q.SortDesc {
		return "e.event_start_at DESC"
	}
	return "e.event_start_at ASC"
}
