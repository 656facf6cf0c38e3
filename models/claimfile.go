package models

import (
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/pawtrail/pawtrail-api/api"
)

type ClaimFiles []ClaimFile

// ClaimFile links a verification image to a claim
type ClaimFile struct {
	ID        uuid.UUID `db:"id"`
	ClaimID   uuid.UUID `db:"claim_id" validate:"required"`
	FileID    uuid.UUID `db:"file_id" validate:"required"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	File File `belongs_to:"files" validate:"-"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (c *ClaimFile) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(c), nil
}

// Create stores the ClaimFile data as a new record in the database.
func (c *ClaimFile) Create(tx *pop.Connection) error {
	return create(tx, c)
}

func (c *ClaimFile) GetID() uuid.UUID {
	return c.ID
}

func (c *ClaimFile) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return tx.Find(c, id)
}

func (c *ClaimFile) ConvertToAPI(tx *pop.Connection) api.ClaimFile {
	if err := tx.Load(c, "File"); err != nil {
		panic("database error loading ClaimFile.File, " + err.Error())
	}
	if err := c.File.RefreshURL(tx); err != nil {
		panic("file URL refresh error, " + err.Error())
	}

	return api.ClaimFile{
		ID:        c.ID,
		ClaimID:   c.ClaimID,
		FileID:    c.FileID,
		File:      c.File.ConvertToAPI(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (cs ClaimFiles) ConvertToAPI(tx *pop.Connection) []api.ClaimFile {
	claimFiles := make([]api.ClaimFile, len(cs))
	for i, c := range cs {
		claimFiles[i] = c.ConvertToAPI(tx)
	}
	return claimFiles
}
