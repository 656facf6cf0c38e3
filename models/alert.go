package models

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/pawtrail/pawtrail-api/api"
)

var ValidAlertTypes = map[api.AlertType]struct{}{
	api.AlertTypeLost:  {},
	api.AlertTypeFound: {},
}

var ValidAlertStatuses = map[api.AlertStatus]struct{}{
	api.AlertStatusActive:   {},
	api.AlertStatusResolved: {},
}

type Alerts []Alert

// Alert is a LOST or FOUND pet report owned by a user
type Alert struct {
	ID               uuid.UUID       `db:"id"`
	OwnerID          uuid.UUID       `db:"owner_id" validate:"required"`
	Type             api.AlertType   `db:"type" validate:"alertType"`
	Status           api.AlertStatus `db:"status" validate:"alertStatus"`
	PetName          string          `db:"pet_name"`
	Species          string          `db:"species" validate:"required"`
	Breed            string          `db:"breed"`
	Description      string          `db:"description" validate:"required"`
	LastSeenLocation string          `db:"last_seen_location"`
	PhotoFileID      nulls.UUID      `db:"photo_file_id"`
	ResolutionNote   nulls.String    `db:"resolution_note"`
	ResolvedAt       nulls.Time      `db:"resolved_at"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`

	Owner User `belongs_to:"users" validate:"-"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (a *Alert) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(a), nil
}

// Create stores the Alert data as a new record in the database.
// If its status is not valid, it is created in Active status.
func (a *Alert) Create(tx *pop.Connection) error {
	if _, ok := ValidAlertStatuses[a.Status]; !ok {
		a.Status = api.AlertStatusActive
	}
	return create(tx, a)
}

// Update writes the Alert data to an existing database record.
func (a *Alert) Update(tx *pop.Connection) error {
	return update(tx, a)
}

func (a *Alert) GetID() uuid.UUID {
	return a.ID
}

func (a *Alert) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return tx.Find(a, id)
}

// FindByIDAndType loads an alert only if it has the requested type. This is how
// claim submission resolves the alert owner, so a claim naming the wrong alert
// type does not silently attach to the wrong report.
func (a *Alert) FindByIDAndType(tx *pop.Connection, id uuid.UUID, alertType api.AlertType) error {
	return tx.Where("id = ? AND type = ?", id, alertType).First(a)
}

// IsActorAllowedTo lets any authenticated user browse alerts and create new
// ones. Only the alert owner or an admin may update or resolve one.
func (a *Alert) IsActorAllowedTo(tx *pop.Connection, actor User, perm Permission, sub SubResource, r *http.Request) bool {
	switch perm {
	case PermissionView, PermissionList:
		return true
	case PermissionCreate:
		if sub == api.ResourceResolve {
			return actor.IsAdmin() || actor.ID == a.OwnerID
		}
		return true
	default:
		return actor.IsAdmin() || actor.ID == a.OwnerID
	}
}

// MarkResolved closes out an active alert. Resolving an already-resolved
// alert is rejected so a stale claim completion cannot clobber the note.
func (a *Alert) MarkResolved(tx *pop.Connection, note string) error {
	if a.Status == api.AlertStatusResolved {
		err := fmt.Errorf("alert %s is already resolved", a.ID)
		return api.NewAppError(err, api.ErrorAlertStatus, api.CategoryConflict)
	}

	a.Status = api.AlertStatusResolved
	a.ResolutionNote = nulls.NewString(note)
	a.ResolvedAt = nulls.NewTime(time.Now().UTC())
	return update(tx, a)
}

func (a *Alert) LoadOwner(tx *pop.Connection, reload bool) {
	if a.Owner.ID == uuid.Nil || reload {
		if err := tx.Load(a, "Owner"); err != nil {
			panic("database error loading Alert.Owner, " + err.Error())
		}
	}
}

// AllActive loads all alerts that have not been resolved, newest first
func (a *Alerts) AllActive(tx *pop.Connection) error {
	err := tx.Where("status = ?", api.AlertStatusActive).Order("created_at desc").All(a)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}

func (a *Alerts) All(tx *pop.Connection) error {
	err := tx.Order("created_at desc").All(a)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}

// NewAlertFromInput converts an AlertCreateInput to an Alert owned by the given user
func NewAlertFromInput(input api.AlertCreateInput, ownerID uuid.UUID) (Alert, error) {
	if _, ok := ValidAlertTypes[input.Type]; !ok {
		err := errors.New("invalid alert type: " + string(input.Type))
		return Alert{}, api.NewAppError(err, api.ErrorAlertInvalidType, api.CategoryUser)
	}

	alert := Alert{
		OwnerID:          ownerID,
		Type:             input.Type,
		Status:           api.AlertStatusActive,
		PetName:          input.PetName,
		Species:          input.Species,
		Breed:            input.Breed,
		Description:      input.Description,
		LastSeenLocation: input.LastSeenLocation,
	}
	if input.PhotoFileID != nil {
		alert.PhotoFileID = nulls.NewUUID(*input.PhotoFileID)
	}
	return alert, nil
}

func (a *Alert) ConvertToAPI() api.Alert {
	return api.Alert{
		ID:               a.ID,
		OwnerID:          a.OwnerID,
		Type:             a.Type,
		Status:           a.Status,
		PetName:          a.PetName,
		Species:          a.Species,
		Breed:            a.Breed,
		Description:      a.Description,
		LastSeenLocation: a.LastSeenLocation,
		PhotoFileID:      convertUUIDToAPI(a.PhotoFileID),
		ResolutionNote:   a.ResolutionNote.String,
		ResolvedAt:       convertTimeToAPI(a.ResolvedAt),
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func (as Alerts) ConvertToAPI() api.Alerts {
	alerts := make(api.Alerts, len(as))
	for i, a := range as {
		alerts[i] = a.ConvertToAPI()
	}
	return alerts
}
