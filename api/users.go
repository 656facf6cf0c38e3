package api

import (
	"time"

	"github.com/gofrs/uuid"
)

type UserAppRole string

const (
	UserAppRoleUser  = UserAppRole("User")
	UserAppRoleAdmin = UserAppRole("Admin")
)

type Users []User

type User struct {
	ID        uuid.UUID   `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Name      string      `json:"name"`
	AppRole   UserAppRole `json:"app_role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
