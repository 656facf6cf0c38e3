package api

import (
	"time"

	"github.com/gofrs/uuid"
)

type File struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	URL           string    `json:"url"`
	URLExpiration time.Time `json:"url_expiration"`
	Size          int       `json:"size"`
	ContentType   string    `json:"content_type"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
