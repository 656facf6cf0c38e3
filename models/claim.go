package models

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gobuffalo/events"
	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/pawtrail/pawtrail-api/api"
	"github.com/pawtrail/pawtrail-api/domain"
)

// claimsOneActiveConstraint is the partial unique index on
// (claimant_id, alert_id) for claims in a non-terminal status. It backstops
// the duplicate check in SubmitClaim against concurrent submissions.
const claimsOneActiveConstraint = "claims_one_active_per_claimant_alert_idx"

var ValidClaimStatus = map[api.ClaimStatus]struct{}{
	api.ClaimStatusPending:   {},
	api.ClaimStatusApproved:  {},
	api.ClaimStatusRejected:  {},
	api.ClaimStatusCompleted: {},
	api.ClaimStatusCancelled: {},
}

// activeClaimStatuses are the non-terminal statuses. A claimant may hold at
// most one claim in these statuses per alert.
var activeClaimStatuses = []api.ClaimStatus{
	api.ClaimStatusPending,
	api.ClaimStatusApproved,
}

type Claims []Claim

// Claim is a user's assertion of ownership over the pet referenced by an
// alert, together with the verification evidence they offered. Claims are
// never destroyed; terminal statuses keep them for history.
type Claim struct {
	ID              uuid.UUID       `db:"id"`
	AlertID         uuid.UUID       `db:"alert_id" validate:"required"`
	AlertType       api.AlertType   `db:"alert_type" validate:"alertType"`
	ClaimantID      uuid.UUID       `db:"claimant_id" validate:"required"`
	OwnerID         uuid.UUID       `db:"owner_id" validate:"required"`
	Status          api.ClaimStatus `db:"status" validate:"claimStatus"`
	StatusReason    nulls.String    `db:"status_reason"`
	MicrochipNumber nulls.String    `db:"microchip_number"`
	PetFeatures     string          `db:"pet_features" validate:"required"`
	AdditionalInfo  nulls.String    `db:"additional_info"`
	ReviewedAt      nulls.Time      `db:"reviewed_at"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`

	Alert      Alert      `belongs_to:"alerts" validate:"-"`
	Claimant   User       `belongs_to:"users" validate:"-"`
	Owner      User       `belongs_to:"users" validate:"-"`
	ClaimFiles ClaimFiles `has_many:"claim_files" validate:"-"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (c *Claim) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(c), nil
}

// Create stores the Claim data as a new record in the database.
// If its status is not valid, it is created in Pending status. A second active
// claim by the same claimant on the same alert is rejected by the partial
// unique index, which backstops the read check in SubmitClaim against
// concurrent submissions.
func (c *Claim) Create(tx *pop.Connection) error {
	if _, ok := ValidClaimStatus[c.Status]; !ok {
		c.Status = api.ClaimStatusPending
	}
	if err := create(tx, c); err != nil {
		if isUniqueViolation(err, claimsOneActiveConstraint) {
			dupErr := fmt.Errorf("claimant %s already has an active claim on alert %s", c.ClaimantID, c.AlertID)
			return api.NewAppError(dupErr, api.ErrorClaimDuplicatePending, api.CategoryConflict)
		}
		return err
	}
	return nil
}

func (c *Claim) GetID() uuid.UUID {
	return c.ID
}

func (c *Claim) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return tx.Find(c, id)
}

// FindActiveByClaimantAndAlert looks for a non-terminal claim by the given
// claimant on the given alert. Returns false if none exists.
func (c *Claim) FindActiveByClaimantAndAlert(tx *pop.Connection, claimantID, alertID uuid.UUID) (bool, error) {
	err := tx.Where("claimant_id = ? AND alert_id = ?", claimantID, alertID).
		Where("status in (?)", activeClaimStatuses[0], activeClaimStatuses[1]).
		First(c)
	if err != nil {
		if domain.IsOtherThanNoRows(err) {
			return false, appErrorFromDB(err, api.ErrorQueryFailure)
		}
		return false, nil
	}
	return true, nil
}

// IsActorAllowedTo permits admins everything, and otherwise restricts a claim
// to the two parties involved. Creating and listing claims is open to any
// authenticated user; the created claim is scoped by SubmitClaim.
func (c *Claim) IsActorAllowedTo(tx *pop.Connection, actor User, perm Permission, sub SubResource, r *http.Request) bool {
	if actor.IsAdmin() {
		return true
	}

	if perm == PermissionList || perm == PermissionCreate && sub == "" {
		return true
	}

	return actor.ID == c.ClaimantID || actor.ID == c.OwnerID
}

// claimStatusTransitions defines the legal edges of the claim state machine.
// Rejected, Completed, and Cancelled are terminal.
func claimStatusTransitions() map[api.ClaimStatus][]api.ClaimStatus {
	return map[api.ClaimStatus][]api.ClaimStatus{
		api.ClaimStatusPending: {
			api.ClaimStatusApproved,
			api.ClaimStatusRejected,
			api.ClaimStatusCancelled,
		},
		api.ClaimStatusApproved: {
			api.ClaimStatusCompleted,
			api.ClaimStatusCancelled,
		},
		api.ClaimStatusRejected:  {},
		api.ClaimStatusCompleted: {},
		api.ClaimStatusCancelled: {},
	}
}

func isClaimTransitionValid(status1, status2 api.ClaimStatus) (bool, error) {
	targets, ok := claimStatusTransitions()[status1]
	if !ok {
		return false, errors.New("unexpected initial status - " + string(status1))
	}

	for _, target := range targets {
		if status2 == target {
			return true, nil
		}
	}

	return false, nil
}

type transitionActor int

const (
	transitionActorOwner transitionActor = iota
	transitionActorClaimant
	transitionActorEither
)

type claimTransition struct {
	from, to api.ClaimStatus
}

// claimTransitionAuthority names which party may trigger each edge
func claimTransitionAuthority() map[claimTransition]transitionActor {
	return map[claimTransition]transitionActor{
		{api.ClaimStatusPending, api.ClaimStatusApproved}:   transitionActorOwner,
		{api.ClaimStatusPending, api.ClaimStatusRejected}:   transitionActorOwner,
		{api.ClaimStatusPending, api.ClaimStatusCancelled}:  transitionActorClaimant,
		{api.ClaimStatusApproved, api.ClaimStatusCompleted}: transitionActorOwner,
		{api.ClaimStatusApproved, api.ClaimStatusCancelled}: transitionActorEither,
	}
}

func (c *Claim) isActorAuthorizedFor(actor User, target api.ClaimStatus) bool {
	role, ok := claimTransitionAuthority()[claimTransition{c.Status, target}]
	if !ok {
		return false
	}

	switch role {
	case transitionActorOwner:
		return actor.ID == c.OwnerID
	case transitionActorClaimant:
		return actor.ID == c.ClaimantID
	case transitionActorEither:
		return actor.ID == c.OwnerID || actor.ID == c.ClaimantID
	}
	return false
}

var claimTransitionEvents = map[api.ClaimStatus]string{
	api.ClaimStatusApproved:  domain.EventApiClaimApproved,
	api.ClaimStatusRejected:  domain.EventApiClaimRejected,
	api.ClaimStatusCancelled: domain.EventApiClaimCancelled,
	api.ClaimStatusCompleted: domain.EventApiClaimCompleted,
}

var claimStatusChangeDescriptions = map[api.ClaimStatus]string{
	api.ClaimStatusApproved:  ClaimStatusChangeApproved,
	api.ClaimStatusRejected:  ClaimStatusChangeRejected,
	api.ClaimStatusCancelled: ClaimStatusChangeCancelled,
	api.ClaimStatusCompleted: ClaimStatusChangeCompleted,
}

// SubmitClaim validates a claim submission and persists it in Pending status.
// The alert owner is resolved from the alert itself, never taken from input.
func SubmitClaim(tx *pop.Connection, claimant User, input api.ClaimCreateInput) (Claim, error) {
	if _, ok := ValidAlertTypes[input.AlertType]; !ok {
		err := fmt.Errorf("invalid alert type for claim: %q", input.AlertType)
		return Claim{}, api.NewAppError(err, api.ErrorAlertInvalidType, api.CategoryUser)
	}

	petFeatures := strings.TrimSpace(input.VerificationDetails.PetFeatures)
	if len(petFeatures) < domain.Env.ClaimEvidenceMinLength {
		err := fmt.Errorf("pet features description must be at least %d characters",
			domain.Env.ClaimEvidenceMinLength)
		return Claim{}, api.NewAppError(err, api.ErrorClaimInsufficientEvidence, api.CategoryUnprocessable)
	}

	if len(input.VerificationFileIDs) == 0 {
		err := errors.New("claim must include at least one verification image")
		return Claim{}, api.NewAppError(err, api.ErrorClaimMissingEvidence, api.CategoryUnprocessable)
	}

	var alert Alert
	if err := alert.FindByIDAndType(tx, input.AlertID, input.AlertType); err != nil {
		err = fmt.Errorf("failed to load alert %s for claim: %w", input.AlertID, err)
		appErr := api.NewAppError(err, api.ErrorAlertNotFound, api.CategoryNotFound)
		if domain.IsOtherThanNoRows(err) {
			appErr.Category = api.CategoryInternal
		}
		return Claim{}, appErr
	}

	if alert.OwnerID == claimant.ID {
		err := errors.New("users may not claim their own alert")
		return Claim{}, api.NewAppError(err, api.ErrorClaimSelfForbidden, api.CategoryForbidden)
	}

	var existing Claim
	found, err := existing.FindActiveByClaimantAndAlert(tx, claimant.ID, alert.ID)
	if err != nil {
		return Claim{}, err
	}
	if found {
		err := fmt.Errorf("claimant already has a %s claim on alert %s", existing.Status, alert.ID)
		return Claim{}, api.NewAppError(err, api.ErrorClaimDuplicatePending, api.CategoryConflict)
	}

	claim := Claim{
		AlertID:     alert.ID,
		AlertType:   alert.Type,
		ClaimantID:  claimant.ID,
		OwnerID:     alert.OwnerID,
		Status:      api.ClaimStatusPending,
		PetFeatures: petFeatures,
	}
	if input.VerificationDetails.MicrochipNumber != "" {
		claim.MicrochipNumber = nulls.NewString(input.VerificationDetails.MicrochipNumber)
	}
	if input.VerificationDetails.AdditionalInfo != "" {
		claim.AdditionalInfo = nulls.NewString(input.VerificationDetails.AdditionalInfo)
	}

	if err := claim.Create(tx); err != nil {
		return Claim{}, err
	}

	for _, fileID := range input.VerificationFileIDs {
		if _, err := claim.AttachFile(tx, fileID); err != nil {
			return Claim{}, err
		}
	}

	emitEvent(events.Event{
		Kind:    domain.EventApiClaimCreated,
		Message: "Claim created",
		Payload: events.Payload{
			domain.EventPayloadID:      claim.ID,
			domain.EventPayloadActorID: claimant.ID,
		},
	})

	return claim, nil
}

// Transition applies one edge of the claim state machine on behalf of the
// given actor. Authorization is per-edge. The status update is guarded by an
// optimistic check on the current status so two concurrent decisions on the
// same claim cannot both succeed.
func (c *Claim) Transition(tx *pop.Connection, actor User, input api.ClaimStatusInput) error {
	target := input.TargetStatus

	if valid, err := isClaimTransitionValid(c.Status, target); err != nil {
		panic(err)
	} else if !valid {
		err := fmt.Errorf("invalid claim status transition from %s to %s", c.Status, target)
		return api.NewAppError(err, api.ErrorClaimStatus, api.CategoryConflict)
	}

	if !c.isActorAuthorizedFor(actor, target) {
		err := fmt.Errorf("actor %s is not authorized to move claim %s from %s to %s",
			actor.ID, c.ID, c.Status, target)
		return api.NewAppError(err, api.ErrorClaimTransitionNotAllowed, api.CategoryForbidden)
	}

	reason := input.StatusReason
	if reason == "" {
		reason = claimStatusChangeDescriptions[target] + actor.Name()
	}

	if err := c.updateStatus(tx, c.Status, target, reason); err != nil {
		return err
	}

	// Completing a claim means the pet was physically recovered, which
	// resolves the underlying alert in the same transaction.
	if target == api.ClaimStatusCompleted {
		var alert Alert
		if err := alert.FindByID(tx, c.AlertID); err != nil {
			return appErrorFromDB(err, api.ErrorQueryFailure)
		}
		note := "pet recovered via claim " + c.ID.String()
		if err := alert.MarkResolved(tx, note); err != nil {
			return err
		}
	}

	emitEvent(events.Event{
		Kind:    claimTransitionEvents[target],
		Message: "Claim " + string(target),
		Payload: events.Payload{
			domain.EventPayloadID:      c.ID,
			domain.EventPayloadActorID: actor.ID,
		},
	})

	return nil
}

// updateStatus writes the new status only if the stored status still matches
// what this call was based on. Zero rows affected means another request won
// the race, surfaced as a conflict the caller may retry after re-reading.
func (c *Claim) updateStatus(tx *pop.Connection, oldStatus, newStatus api.ClaimStatus, reason string) error {
	now := time.Now().UTC()

	reviewedAt := c.ReviewedAt
	if newStatus == api.ClaimStatusApproved || newStatus == api.ClaimStatusRejected {
		reviewedAt = nulls.NewTime(now)
	}

	count, err := tx.RawQuery(
		`UPDATE claims SET status = ?, status_reason = ?, reviewed_at = ?, updated_at = ? WHERE id = ? AND status = ?`,
		newStatus, reason, reviewedAt, now, c.ID, oldStatus,
	).ExecWithCount()
	if err != nil {
		return appErrorFromDB(err, api.ErrorUpdateFailure)
	}

	if count == 0 {
		err := fmt.Errorf("claim %s was modified concurrently, expected status %s", c.ID, oldStatus)
		return api.NewAppError(err, api.ErrorClaimConcurrentModification, api.CategoryConflict)
	}

	c.Status = newStatus
	c.StatusReason = nulls.NewString(reason)
	c.ReviewedAt = reviewedAt
	c.UpdatedAt = now
	return nil
}

// AttachFile links an uploaded file to the claim as verification evidence
func (c *Claim) AttachFile(tx *pop.Connection, fileID uuid.UUID) (ClaimFile, error) {
	claimFile := ClaimFile{
		ClaimID: c.ID,
		FileID:  fileID,
	}
	if err := claimFile.Create(tx); err != nil {
		return ClaimFile{}, err
	}

	file := File{ID: fileID}
	if err := file.SetLinked(tx); err != nil {
		return ClaimFile{}, err
	}

	return claimFile, nil
}

func (c *Claim) LoadAlert(tx *pop.Connection, reload bool) {
	if c.Alert.ID == uuid.Nil || reload {
		if err := tx.Load(c, "Alert"); err != nil {
			panic("database error loading Claim.Alert, " + err.Error())
		}
	}
}

func (c *Claim) LoadClaimant(tx *pop.Connection, reload bool) {
	if c.Claimant.ID == uuid.Nil || reload {
		if err := tx.Load(c, "Claimant"); err != nil {
			panic("database error loading Claim.Claimant, " + err.Error())
		}
	}
}

func (c *Claim) LoadOwner(tx *pop.Connection, reload bool) {
	if c.Owner.ID == uuid.Nil || reload {
		if err := tx.Load(c, "Owner"); err != nil {
			panic("database error loading Claim.Owner, " + err.Error())
		}
	}
}

func (c *Claim) LoadClaimFiles(tx *pop.Connection, reload bool) {
	if len(c.ClaimFiles) == 0 || reload {
		if err := tx.Load(c, "ClaimFiles"); err != nil {
			panic("database error loading Claim.ClaimFiles, " + err.Error())
		}
	}
}

// OtherParty returns the counterpart of the given user on this claim
func (c *Claim) OtherParty(tx *pop.Connection, userID uuid.UUID) User {
	var other User
	otherID := c.OwnerID
	if userID == c.OwnerID {
		otherID = c.ClaimantID
	}
	if err := other.FindByID(tx, otherID); err != nil {
		panic("database error loading claim counterpart, " + err.Error())
	}
	return other
}

func (cs *Claims) All(tx *pop.Connection) error {
	err := tx.Order("created_at desc").All(cs)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}

func (c *Claim) ConvertToAPI(tx *pop.Connection) api.Claim {
	c.LoadClaimFiles(tx, true)

	return api.Claim{
		ID:              c.ID,
		AlertID:         c.AlertID,
		AlertType:       c.AlertType,
		ClaimantID:      c.ClaimantID,
		OwnerID:         c.OwnerID,
		Status:          c.Status,
		StatusReason:    c.StatusReason.String,
		PetFeatures:     c.PetFeatures,
		MicrochipNumber: c.MicrochipNumber.String,
		AdditionalInfo:  c.AdditionalInfo.String,
		ReviewedAt:      convertTimeToAPI(c.ReviewedAt),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		Files:           c.ClaimFiles.ConvertToAPI(tx),
	}
}

func (cs Claims) ConvertToAPI(tx *pop.Connection) api.Claims {
	claims := make(api.Claims, len(cs))
	for i, c := range cs {
		claims[i] = c.ConvertToAPI(tx)
	}
	return claims
}
