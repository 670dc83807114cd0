package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	notifdto "eventhub_backend/internals/features/notifications/notification/dto"
)

// reminderHorizon is how far ahead the sweep looks for upcoming events.
const reminderHorizon = time.Hour

// RemindUpcomingEvents notifies all members of events starting within the
// next hour that have not been reminded yet, then flips the reminder flag.
// Called by the periodic scheduler; one failed event does not stop the
// sweep.
func (s *EventService) RemindUpcomingEvents(ctx context.Context) error {
	now := s.now()
	events, err := s.store.EventsNeedingReminder(ctx, now, now.Add(reminderHorizon))
	if err != nil {
		return err
	}

	for i := range events {
		event := &events[i]

		memberIDs, err := s.store.MemberUserIDs(ctx, event.EventID, nil)
		if err != nil {
			logrus.WithError(err).WithField("event_id", event.EventID).Warn("reminder sweep: member lookup failed")
			continue
		}

		if len(memberIDs) > 0 {
			targetType := notifdto.TargetEvent
			s.notify.Send(ctx, notifdto.CreateNotification{
				Type:       notifdto.TypeEventReminder,
				TargetID:   &event.EventID,
				TargetType: &targetType,
				Data: map[string]interface{}{
					"title":      "Event starting soon",
					"body":       event.EventName + " starts within the hour.",
					"event_id":   event.EventID,
					"event_name": event.EventName,
					"start_at":   event.EventStartAt,
				},
			}, memberIDs)
		}

		if err := s.store.MarkReminderSent(ctx, event.EventID); err != nil {
			logrus.WithError(err).WithField("event_id", event.EventID).Warn("reminder sweep: flag update failed")
		}
	}

	return nil
}
