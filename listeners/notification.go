package listeners

import (
	"github.com/gobuffalo/events"

	"github.com/pawtrail/pawtrail-api/domain"
	"github.com/pawtrail/pawtrail-api/job"
)

// notificationCreated nudges the queue sender so a freshly queued message goes
// out right away instead of waiting for the next scheduled sweep.
func notificationCreated(e events.Event) {
	if e.Kind != domain.EventApiNotificationCreated {
		return
	}

	defer panicRecover(e.Kind)

	if err := job.Submit(job.SendQueuedNotifications, map[string]any{}); err != nil {
		domain.ErrLogger.Printf("error submitting %s job, %s", job.SendQueuedNotifications, err)
	}
}
