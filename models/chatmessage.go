package models

import (
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/pawtrail/pawtrail-api/api"
)

type ChatMessages []ChatMessage

type ChatMessage struct {
	ID        uuid.UUID `db:"id"`
	RoomID    uuid.UUID `db:"room_id" validate:"required"`
	SenderID  uuid.UUID `db:"sender_id" validate:"required"`
	Body      string    `db:"body" validate:"required"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (c *ChatMessage) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(c), nil
}

// Create stores the ChatMessage data as a new record in the database.
func (c *ChatMessage) Create(tx *pop.Connection) error {
	return create(tx, c)
}

func (c *ChatMessage) GetID() uuid.UUID {
	return c.ID
}

func (c *ChatMessage) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return tx.Find(c, id)
}

func (c *ChatMessage) ConvertToAPI() api.ChatMessage {
	return api.ChatMessage{
		ID:        c.ID,
		RoomID:    c.RoomID,
		SenderID:  c.SenderID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

func (cs ChatMessages) ConvertToAPI() []api.ChatMessage {
	messages := make([]api.ChatMessage, len(cs))
	for i, c := range cs {
		messages[i] = c.ConvertToAPI()
	}
	return messages
}
