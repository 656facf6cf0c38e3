package models

import (
	"crypto/sha256"
	"fmt"
	"net/http"
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/pawtrail/pawtrail-api/api"
	"github.com/pawtrail/pawtrail-api/domain"
)

var ValidUserAppRoles = map[api.UserAppRole]struct{}{
	api.UserAppRoleUser:  {},
	api.UserAppRoleAdmin: {},
}

type Users []User

type User struct {
	ID           uuid.UUID       `db:"id"`
	Email        string          `db:"email" validate:"required,email"`
	FirstName    string          `db:"first_name"`
	LastName     string          `db:"last_name"`
	AppRole      api.UserAppRole `db:"app_role" validate:"appRole"`
	LastLoginUTC time.Time       `db:"last_login_utc"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (u *User) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(u), nil
}

// Create stores the User data as a new record in the database.
func (u *User) Create(tx *pop.Connection) error {
	if u.AppRole == "" {
		u.AppRole = api.UserAppRoleUser
	}
	return create(tx, u)
}

// Update writes the User data to an existing database record.
func (u *User) Update(tx *pop.Connection) error {
	return update(tx, u)
}

func (u *User) GetID() uuid.UUID {
	return u.ID
}

func (u *User) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return tx.Find(u, id)
}

func (u *User) FindByEmail(tx *pop.Connection, email string) error {
	return tx.Where("email = ?", email).First(u)
}

func (u *User) IsAdmin() bool {
	return u.AppRole == api.UserAppRoleAdmin
}

// IsActorAllowedTo lets anyone view or list users, but only the user
// themselves or an admin may change a user record
func (u *User) IsActorAllowedTo(tx *pop.Connection, actor User, perm Permission, sub SubResource, r *http.Request) bool {
	switch perm {
	case PermissionView, PermissionList:
		return true
	default:
		return actor.IsAdmin() || actor.ID == u.ID
	}
}

// Name combines the first and last names of the user
func (u *User) Name() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}

// MyClaims returns claims submitted by the user
func (u *User) MyClaims(tx *pop.Connection) Claims {
	var claims Claims
	if err := tx.Where("claimant_id = ?", u.ID).Order("created_at desc").All(&claims); err != nil {
		panic("database error finding user's claims, " + err.Error())
	}
	return claims
}

// ReceivedClaims returns claims submitted against the user's alerts
func (u *User) ReceivedClaims(tx *pop.Connection) Claims {
	var claims Claims
	if err := tx.Where("owner_id = ?", u.ID).Order("created_at desc").All(&claims); err != nil {
		panic("database error finding claims on user's alerts, " + err.Error())
	}
	return claims
}

// MyAlerts returns the alerts owned by the user
func (u *User) MyAlerts(tx *pop.Connection) Alerts {
	var alerts Alerts
	if err := tx.Where("owner_id = ?", u.ID).Order("created_at desc").All(&alerts); err != nil {
		panic("database error finding user's alerts, " + err.Error())
	}
	return alerts
}

func (us *Users) All(tx *pop.Connection) error {
	err := tx.Order("created_at desc").All(us)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}

// HashClientIdAccessToken just returns a sha256.Sum256 of the input value
func HashClientIdAccessToken(accessToken string) string {
	hashedAccessToken := sha256.Sum256([]byte(accessToken))
	return fmt.Sprintf("%x", hashedAccessToken)
}

// CreateAccessToken stores a new access token for the user, returning the
// plain token for delivery to the client. Only the hash is stored.
func (u *User) CreateAccessToken(tx *pop.Connection) (UserAccessToken, error) {
	token, err := getRandomToken()
	if err != nil {
		return UserAccessToken{}, api.NewAppError(err, api.ErrorCreatingAccessToken, api.CategoryInternal)
	}

	uat := UserAccessToken{
		UserID:      u.ID,
		AccessToken: token,
		TokenHash:   HashClientIdAccessToken(token),
		ExpiresAt:   time.Now().UTC().Add(time.Second * time.Duration(domain.Env.AccessTokenLifetimeSeconds)),
	}
	if err := uat.Create(tx); err != nil {
		return UserAccessToken{}, err
	}
	return uat, nil
}

func (u *User) ConvertToAPI() api.User {
	return api.User{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Name:      u.Name(),
		AppRole:   u.AppRole,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (us Users) ConvertToAPI() api.Users {
	users := make(api.Users, len(us))
	for i, u := range us {
		users[i] = u.ConvertToAPI()
	}
	return users
}
