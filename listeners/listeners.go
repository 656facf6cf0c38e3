package listeners

import (
	"errors"
	"fmt"
	"time"

	"github.com/gobuffalo/events"
	"github.com/gobuffalo/nulls"
	"github.com/gofrs/uuid"

	"github.com/pawtrail/pawtrail-api/domain"
	"github.com/pawtrail/pawtrail-api/models"
)

type apiListener struct {
	name     string
	listener func(events.Event)
}

//
// Register new listener functions here.  Remember, though, that these groupings just
// describe what we want.  They don't make it happen this way. The listeners
// themselves still need to verify the event kind
//
var apiListeners = map[string][]apiListener{
	domain.EventApiClaimCreated: {
		{
			name:     "claim-created-notify-owner",
			listener: claimCreated,
		},
	},
	domain.EventApiClaimApproved: {
		{
			name:     "claim-approved-notify-claimant",
			listener: claimApproved,
		},
	},
	domain.EventApiClaimRejected: {
		{
			name:     "claim-rejected-notify-claimant",
			listener: claimRejected,
		},
	},
	domain.EventApiClaimCancelled: {
		{
			name:     "claim-cancelled-notify-other-party",
			listener: claimCancelled,
		},
	},
	domain.EventApiClaimCompleted: {
		{
			name:     "claim-completed-notify-claimant",
			listener: claimCompleted,
		},
	},
	domain.EventApiNotificationCreated: {
		{
			name:     "notification-created-send-queued",
			listener: notificationCreated,
		},
	},
}

// RegisterListeners registers all the listeners to be used by the app
func RegisterListeners() {
	for _, listeners := range apiListeners {
		for _, l := range listeners {
			_, err := events.NamedListen(l.name, l.listener)
			if err != nil {
				domain.ErrLogger.Printf("Failed registering listener: %s, err: %s", l.name, err.Error())
			}
		}
	}
}

func getID(p events.Payload) (uuid.UUID, error) {
	return getPayloadUUID(p, domain.EventPayloadID)
}

func getPayloadUUID(p events.Payload, key string) (uuid.UUID, error) {
	i, ok := p[key]
	if !ok {
		return uuid.UUID{}, fmt.Errorf("%s not in event payload", key)
	}

	switch id := i.(type) {
	case string:
		return uuid.FromStringOrNil(id), nil
	case uuid.UUID:
		return id, nil
	case nulls.UUID:
		return id.UUID, nil
	default:
		return uuid.UUID{}, fmt.Errorf("%s not a valid type: %T", key, id)
	}
}

func findObject(payload events.Payload, object any, listenerName string) error {
	id, err := getID(payload)
	if err != nil {
		err := errors.New("Failed to get object ID from event payload: " + err.Error())
		domain.ErrLogger.Printf(err.Error())
		return err
	}

	foundObject := false
	var findErr error

	i := 1
	for ; i <= domain.Env.ListenerMaxRetries; i++ {
		findErr = models.DB.Find(object, id)
		if findErr == nil {
			foundObject = true
			break
		}
		time.Sleep(getDelayDuration(i * i))
		if i > 3 {
			return findErr
		}
	}

	if !foundObject {
		err := fmt.Errorf("Failed to find object in %s, %s", listenerName, findErr)
		domain.ErrLogger.Printf("Failed to find object in %s, %s", listenerName, findErr)
		return err
	}
	return nil
}

func panicRecover(name string) {
	if err := recover(); err != nil {
		domain.Logger.Printf("panic occurred in %s: %s", name, err)
	}
}

// getDelayDuration is a helper function to calculate delay in milliseconds before processing event
func getDelayDuration(multiplier int) time.Duration {
	return time.Duration(domain.Env.ListenerDelayMilliseconds) * time.Millisecond * time.Duration(multiplier)
}
