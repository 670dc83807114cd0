package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	evservice "eventhub_backend/internals/features/events/event/service"
)

const sweepInterval = 10 * time.Minute

// StartReminderScheduler sweeps for events starting within the reminder
// horizon and notifies their members. Runs until the context is cancelled.
func StartReminderScheduler(ctx context.Context, events *evservice.EventService) {
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		// First sweep right away so a restart does not delay reminders
		// by a full interval.
		run(ctx, events)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				run(ctx, events)
			}
		}
	}()
}

func run(ctx context.Context, events *evservice.EventService) {
	if err := events.RemindUpcomingEvents(ctx); err != nil {
		logrus.WithError(err).Warn("reminder sweep failed")
	}
}
