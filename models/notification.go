package models

import (
	"time"

	"github.com/gobuffalo/events"
	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/pawtrail/pawtrail-api/domain"
)

type Notifications []Notification

// Notification is a queued message produced by a claim or chat event. One row
// per message, fanned out through NotificationUser rows per recipient.
type Notification struct {
	ID            uuid.UUID  `db:"id"`
	AlertID       nulls.UUID `db:"alert_id"`
	ClaimID       nulls.UUID `db:"claim_id"`
	Event         string     `db:"event"`
	EventCategory string     `db:"event_category"`
	Subject       string     `db:"subject"` // validation is checked at the struct level
	InappText     string     `db:"inapp_text"`
	Body          string     `db:"body"` // validation is checked at the struct level
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`

	Alert Alert `belongs_to:"alerts" validate:"-"`
	Claim Claim `belongs_to:"claims" validate:"-"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (n *Notification) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(n), nil
}

// Create stores the Notification data as a new record in the database and
// announces it, so delivery can start before the next scheduled queue sweep.
func (n *Notification) Create(tx *pop.Connection) error {
	if err := create(tx, n); err != nil {
		return err
	}

	emitEvent(events.Event{
		Kind:    domain.EventApiNotificationCreated,
		Message: "Notification created",
		Payload: events.Payload{domain.EventPayloadID: n.ID},
	})
	return nil
}

// Update writes the Notification data to an existing database record.
func (n *Notification) Update(tx *pop.Connection) error {
	return update(tx, n)
}

func (n *Notification) GetID() uuid.UUID {
	return n.ID
}

func (n *Notification) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return tx.Find(n, id)
}

// LoadAlert - a simple wrapper method for loading the alert on the struct
func (n *Notification) LoadAlert(tx *pop.Connection, reload bool) {
	if n.AlertID.Valid && (n.Alert.ID == uuid.Nil || reload) {
		if err := tx.Load(n, "Alert"); err != nil {
			panic("database error loading Notification.Alert, " + err.Error())
		}
	}
}

// LoadClaim - a simple wrapper method for loading the claim on the struct
func (n *Notification) LoadClaim(tx *pop.Connection, reload bool) {
	if n.ClaimID.Valid && (n.Claim.ID == uuid.Nil || reload) {
		if err := tx.Load(n, "Claim"); err != nil {
			panic("database error loading Notification.Claim, " + err.Error())
		}
	}
}

// CreateNotificationUser queues this notification for delivery to the given user
func (n *Notification) CreateNotificationUser(tx *pop.Connection, user User) error {
	notnUser := NotificationUser{
		NotificationID: n.ID,
		UserID:         nulls.NewUUID(user.ID),
		EmailAddress:   user.Email,
		ToName:         user.Name(),
		SendAfterUTC:   time.Now().UTC(),
	}
	return notnUser.Create(tx)
}
