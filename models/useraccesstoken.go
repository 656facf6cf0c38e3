package models

import (
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/pawtrail/pawtrail-api/api"
	"github.com/pawtrail/pawtrail-api/domain"
)

type UserAccessTokens []UserAccessToken

type UserAccessToken struct {
	ID          uuid.UUID  `db:"id"`
	UserID      uuid.UUID  `db:"user_id" validate:"required"`
	AccessToken string     `db:"-"`
	TokenHash   string     `db:"access_token" validate:"required"`
	ExpiresAt   time.Time  `db:"expires_at" validate:"required"`
	LastUsedAt  nulls.Time `db:"last_used_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`

	User User `belongs_to:"users" validate:"-"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (u *UserAccessToken) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(u), nil
}

// Create stores the UserAccessToken data as a new record in the database.
func (u *UserAccessToken) Create(tx *pop.Connection) error {
	return create(tx, u)
}

// Update writes the UserAccessToken data to an existing database record.
func (u *UserAccessToken) Update(tx *pop.Connection) error {
	return update(tx, u)
}

func (u *UserAccessToken) GetID() uuid.UUID {
	return u.ID
}

func (u *UserAccessToken) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return tx.Find(u, id)
}

// FindByBearerToken hashes the bearer token and looks it up
func (u *UserAccessToken) FindByBearerToken(tx *pop.Connection, bearerToken string) *api.AppError {
	if err := tx.Where("access_token = ?", HashClientIdAccessToken(bearerToken)).First(u); err != nil {
		appErr := api.NewAppError(err, api.ErrorFindingAccessToken, api.CategoryDatabase)
		if !domain.IsOtherThanNoRows(err) {
			appErr.Category = api.CategoryUnauthorized
		}
		return appErr
	}
	return nil
}

// DeleteIfExpired checks the token expiration and returns `true` if expired. Also deletes
// the token from the database if it is expired.
func (u *UserAccessToken) DeleteIfExpired(tx *pop.Connection) (bool, error) {
	if u.ExpiresAt.After(time.Now().UTC()) {
		return false, nil
	}

	if err := destroy(tx, u); err != nil {
		return true, api.NewAppError(err, api.ErrorFindingAccessToken, api.CategoryInternal)
	}
	return true, nil
}

// GetUser loads the user that owns the token
func (u *UserAccessToken) GetUser(tx *pop.Connection) (User, error) {
	if err := tx.Load(u, "User"); err != nil {
		return User{}, err
	}
	return u.User, nil
}

// Bump updates the LastUsedAt timestamp of the token
func (u *UserAccessToken) Bump(tx *pop.Connection) error {
	u.LastUsedAt = nulls.NewTime(time.Now().UTC())
	return update(tx, u)
}
