package model

import (
	"time"
)

type EventVisibility string

const (
	VisibilityPublic  EventVisibility = "PUBLIC"
	VisibilityPrivate EventVisibility = "PRIVATE"
)

type PaymentMethod string

const (
	PaymentFree    PaymentMethod = "FREE"
	PaymentOnline  PaymentMethod = "ONLINE"
	PaymentAtEvent PaymentMethod = "AT_EVENT"
)

// EventState is the author-settable stored subset of the lifecycle.
// ONGOING and COMPLETED are never stored; they are derived from time.
type EventState string

const (
	StateOpenForRegistration   EventState = "OPEN_FOR_REGISTRATION"
	StateClosedForRegistration EventState = "CLOSED_FOR_REGISTRATION"
	StateCancelled             EventState = "CANCELLED"
)

// DerivedState is the lifecycle phase computed at read time from the stored
// state, the wall clock and the live attendee count.
type DerivedState string

const (
	DerivedOpenForRegistration   DerivedState = "OPEN_FOR_REGISTRATION"
	DerivedClosedForRegistration DerivedState = "CLOSED_FOR_REGISTRATION"
	DerivedOngoing               DerivedState = "ONGOING"
	DerivedCompleted             DerivedState = "COMPLETED"
	DerivedCancelled             DerivedState = "CANCELLED"
)

type EventModel struct {
	EventID uint `gorm:"column:event_id;primaryKey" json:"event_id"`

	// Nullable: cleared when the owner leaves (which cancels the event).
	EventOwnerID *uint `gorm:"column:event_owner_id;index" json:"event_owner_id"`

	EventName        string  `gorm:"column:event_name;type:varchar(50);not null" json:"event_name"`
	EventDescription string  `gorm:"column:event_description;type:text;not null" json:"event_description"`
	EventLatitude    float64 `gorm:"column:event_latitude;type:numeric(9,6);not null" json:"event_latitude"`
	EventLongitude   float64 `gorm:"column:event_longitude;type:numeric(9,6);not null" json:"event_longitude"`
	EventGovernorate string  `gorm:"column:event_governorate;type:varchar(30);not null;index" json:"event_governorate"`

	EventStartAt         time.Time `gorm:"column:event_start_at;not null;index" json:"event_start_at"`
	EventDurationMinutes int       `gorm:"column:event_duration_minutes;not null" json:"event_duration_minutes"`
	EventMaxAttendees    int       `gorm:"column:event_max_attendees;not null" json:"event_max_attendees"`

	EventImageURL *string `gorm:"column:event_image_url" json:"event_image_url,omitempty"`

	EventVisibility    EventVisibility `gorm:"column:event_visibility;type:varchar(10);not null;default:PUBLIC" json:"event_visibility"`
	EventPaymentMethod PaymentMethod   `gorm:"column:event_payment_method;type:varchar(10);not null;default:FREE" json:"event_payment_method"`
	EventPrice         *float64        `gorm:"column:event_price;type:numeric(10,2)" json:"event_price,omitempty"`

	EventState        EventState `gorm:"column:event_state;type:varchar(30);not null;default:OPEN_FOR_REGISTRATION" json:"event_state"`
	EventReminderSent bool       `gorm:"column:event_reminder_sent;not null;default:false" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (EventModel) TableName() string {
	return "events"
}

// EndAt is the scheduled end of the event.
func (e *EventModel) EndAt() time.Time {
	return e.EventStartAt.Add(time.Duration(e.EventDurationMinutes) * time.Minute)
}
