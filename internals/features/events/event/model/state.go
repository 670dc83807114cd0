package model

import "time"

// DeriveState computes the lifecycle phase of an event at a given instant.
// Precedence is fixed and must not be reordered: a stored CANCELLED is
// terminal and wins over everything; then time decides COMPLETED and
// ONGOING; only for future events do capacity and the stored registration
// flag decide CLOSED vs OPEN. The boundaries are inclusive: an event
// exactly at its start is ONGOING, exactly at start+duration is COMPLETED,
// and exactly at capacity is CLOSED.
//
// The result is never stored or cached; time and attendance are both
// free-running inputs, so every read re-derives.
func DeriveState(stored EventState, startAt time.Time, durationMinutes, currentAttendees, maxAttendees int, now time.Time) DerivedState {
	if stored == StateCancelled {
		return DerivedCancelled
	}

	end := startAt.Add(time.Duration(durationMinutes) * time.Minute)
	if !now.Before(end) {
		return DerivedCompleted
	}
	if !now.Before(startAt) {
		return DerivedOngoing
	}

	if currentAttendees >= maxAttendees || stored == StateClosedForRegistration {
		return DerivedClosedForRegistration
	}

	return DerivedOpenForRegistration
}

// StateOf derives the event's current phase from its own fields.
func (e *EventModel) StateOf(currentAttendees int, now time.Time) DerivedState {
	return DeriveState(e.EventState, e.EventStartAt, e.EventDurationMinutes, currentAttendees, e.EventMaxAttendees, now)
}
