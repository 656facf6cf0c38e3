package models

import (
	"strings"
	"testing"

	"github.com/gofrs/uuid"

	"github.com/pawtrail/pawtrail-api/api"
	"github.com/pawtrail/pawtrail-api/domain"
)

func (ms *ModelSuite) TestClaim_Validate() {
	tests := []struct {
		name     string
		claim    *Claim
		errField string
		wantErr  bool
	}{
		{
			name:     "empty struct",
			claim:    &Claim{},
			errField: "Claim.Status",
			wantErr:  true,
		},
		{
			name: "valid",
			claim: &Claim{
				AlertID:     domain.GetUUID(),
				AlertType:   api.AlertTypeLost,
				ClaimantID:  domain.GetUUID(),
				OwnerID:     domain.GetUUID(),
				Status:      api.ClaimStatusPending,
				PetFeatures: "white patch on left ear",
			},
			errField: "",
			wantErr:  false,
		},
	}
	for _, tt := range tests {
		ms.T().Run(tt.name, func(t *testing.T) {
			vErr, _ := tt.claim.Validate(DB)
			if tt.wantErr {
				if vErr.Count() == 0 {
					t.Errorf("Expected an error, but did not get one")
				} else if len(vErr.Get(tt.errField)) == 0 {
					t.Errorf("Expected an error on field %v, but got none (errors: %+v)", tt.errField, vErr.Errors)
				}
			} else if vErr.HasAny() {
				t.Errorf("Unexpected error: %+v", vErr)
			}
		})
	}
}

func (ms *ModelSuite) TestSubmitClaim() {
	t := ms.T()

	users := CreateUserFixtures(ms.DB, 3).Users
	owner, claimant, repeatClaimant := users[0], users[1], users[2]

	alert := CreateAlertFixtures(ms.DB, owner, 1).Alerts[0]
	CreateClaimFixtures(ms.DB, repeatClaimant, alert, api.ClaimStatusPending)

	fileID := CreateFileFixtures(ms.DB, 1, claimant.ID).Files[0].ID

	goodDetails := api.ClaimVerificationDetails{
		MicrochipNumber: "985112003456789",
		PetFeatures:     "white patch on left ear, scar on right hind leg",
	}

	tests := []struct {
		name       string
		claimant   User
		input      api.ClaimCreateInput
		wantErrKey api.ErrorKey
		wantErrCat api.ErrorCategory
	}{
		{
			name:     "invalid alert type",
			claimant: claimant,
			input: api.ClaimCreateInput{
				AlertID:             alert.ID,
				AlertType:           "STOLEN",
				VerificationDetails: goodDetails,
				VerificationFileIDs: []uuid.UUID{fileID},
			},
			wantErrKey: api.ErrorAlertInvalidType,
			wantErrCat: api.CategoryUser,
		},
		{
			name:     "pet features too short",
			claimant: claimant,
			input: api.ClaimCreateInput{
				AlertID:   alert.ID,
				AlertType: alert.Type,
				VerificationDetails: api.ClaimVerificationDetails{
					PetFeatures: "fluffy",
				},
				VerificationFileIDs: []uuid.UUID{fileID},
			},
			wantErrKey: api.ErrorClaimInsufficientEvidence,
			wantErrCat: api.CategoryUnprocessable,
		},
		{
			name:     "whitespace does not count as evidence",
			claimant: claimant,
			input: api.ClaimCreateInput{
				AlertID:   alert.ID,
				AlertType: alert.Type,
				VerificationDetails: api.ClaimVerificationDetails{
					PetFeatures: "   fluffy   " + strings.Repeat(" ", 20),
				},
				VerificationFileIDs: []uuid.UUID{fileID},
			},
			wantErrKey: api.ErrorClaimInsufficientEvidence,
			wantErrCat: api.CategoryUnprocessable,
		},
		{
			name:     "no verification files",
			claimant: claimant,
			input: api.ClaimCreateInput{
				AlertID:             alert.ID,
				AlertType:           alert.Type,
				VerificationDetails: goodDetails,
				VerificationFileIDs: []uuid.UUID{},
			},
			wantErrKey: api.ErrorClaimMissingEvidence,
			wantErrCat: api.CategoryUnprocessable,
		},
		{
			name:     "alert does not exist",
			claimant: claimant,
			input: api.ClaimCreateInput{
				AlertID:             domain.GetUUID(),
				AlertType:           api.AlertTypeLost,
				VerificationDetails: goodDetails,
				VerificationFileIDs: []uuid.UUID{fileID},
			},
			wantErrKey: api.ErrorAlertNotFound,
			wantErrCat: api.CategoryNotFound,
		},
		{
			name:     "alert type does not match",
			claimant: claimant,
			input: api.ClaimCreateInput{
				AlertID:             alert.ID,
				AlertType:           api.AlertTypeFound,
				VerificationDetails: goodDetails,
				VerificationFileIDs: []uuid.UUID{fileID},
			},
			wantErrKey: api.ErrorAlertNotFound,
			wantErrCat: api.CategoryNotFound,
		},
		{
			name:     "owner claims own alert",
			claimant: owner,
			input: api.ClaimCreateInput{
				AlertID:             alert.ID,
				AlertType:           alert.Type,
				VerificationDetails: goodDetails,
				VerificationFileIDs: []uuid.UUID{fileID},
			},
			wantErrKey: api.ErrorClaimSelfForbidden,
			wantErrCat: api.CategoryForbidden,
		},
		{
			name:     "duplicate active claim",
			claimant: repeatClaimant,
			input: api.ClaimCreateInput{
				AlertID:             alert.ID,
				AlertType:           alert.Type,
				VerificationDetails: goodDetails,
				VerificationFileIDs: []uuid.UUID{fileID},
			},
			wantErrKey: api.ErrorClaimDuplicatePending,
			wantErrCat: api.CategoryConflict,
		},
		{
			name:     "good input",
			claimant: claimant,
			input: api.ClaimCreateInput{
				AlertID:             alert.ID,
				AlertType:           alert.Type,
				VerificationDetails: goodDetails,
				VerificationFileIDs: []uuid.UUID{fileID},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claim, err := SubmitClaim(ms.DB, tt.claimant, tt.input)

			if tt.wantErrKey != "" {
				ms.Error(err, "did not return expected error")
				ms.EqualAppError(api.AppError{Key: tt.wantErrKey, Category: tt.wantErrCat}, err)
				return
			}
			ms.NoError(err)

			ms.Equal(api.ClaimStatusPending, claim.Status, "incorrect status")
			ms.Equal(alert.OwnerID, claim.OwnerID, "owner not resolved from the alert")
			ms.Equal(tt.claimant.ID, claim.ClaimantID, "incorrect claimant")

			claim.LoadClaimFiles(ms.DB, true)
			ms.Len(claim.ClaimFiles, 1, "verification file not attached")
		})
	}
}

func (ms *ModelSuite) TestClaim_Transition() {
	t := ms.T()

	users := CreateUserFixtures(ms.DB, 3).Users
	owner, claimant, stranger := users[0], users[1], users[2]

	tests := []struct {
		name         string
		fromStatus   api.ClaimStatus
		target       api.ClaimStatus
		actor        User
		wantErrKey   api.ErrorKey
		wantErrCat   api.ErrorCategory
		wantResolved bool
	}{
		{
			name:       "owner approves pending",
			fromStatus: api.ClaimStatusPending,
			target:     api.ClaimStatusApproved,
			actor:      owner,
		},
		{
			name:       "claimant may not approve",
			fromStatus: api.ClaimStatusPending,
			target:     api.ClaimStatusApproved,
			actor:      claimant,
			wantErrKey: api.ErrorClaimTransitionNotAllowed,
			wantErrCat: api.CategoryForbidden,
		},
		{
			name:       "owner rejects pending",
			fromStatus: api.ClaimStatusPending,
			target:     api.ClaimStatusRejected,
			actor:      owner,
		},
		{
			name:       "claimant may not reject",
			fromStatus: api.ClaimStatusPending,
			target:     api.ClaimStatusRejected,
			actor:      claimant,
			wantErrKey: api.ErrorClaimTransitionNotAllowed,
			wantErrCat: api.CategoryForbidden,
		},
		{
			name:       "claimant cancels pending",
			fromStatus: api.ClaimStatusPending,
			target:     api.ClaimStatusCancelled,
			actor:      claimant,
		},
		{
			name:       "owner may not cancel pending",
			fromStatus: api.ClaimStatusPending,
			target:     api.ClaimStatusCancelled,
			actor:      owner,
			wantErrKey: api.ErrorClaimTransitionNotAllowed,
			wantErrCat: api.CategoryForbidden,
		},
		{
			name:         "owner completes approved",
			fromStatus:   api.ClaimStatusApproved,
			target:       api.ClaimStatusCompleted,
			actor:        owner,
			wantResolved: true,
		},
		{
			name:       "claimant may not complete",
			fromStatus: api.ClaimStatusApproved,
			target:     api.ClaimStatusCompleted,
			actor:      claimant,
			wantErrKey: api.ErrorClaimTransitionNotAllowed,
			wantErrCat: api.CategoryForbidden,
		},
		{
			name:       "claimant cancels approved",
			fromStatus: api.ClaimStatusApproved,
			target:     api.ClaimStatusCancelled,
			actor:      claimant,
		},
		{
			name:       "owner cancels approved",
			fromStatus: api.ClaimStatusApproved,
			target:     api.ClaimStatusCancelled,
			actor:      owner,
		},
		{
			name:       "stranger may not act",
			fromStatus: api.ClaimStatusPending,
			target:     api.ClaimStatusApproved,
			actor:      stranger,
			wantErrKey: api.ErrorClaimTransitionNotAllowed,
			wantErrCat: api.CategoryForbidden,
		},
		{
			name:       "pending cannot complete",
			fromStatus: api.ClaimStatusPending,
			target:     api.ClaimStatusCompleted,
			actor:      owner,
			wantErrKey: api.ErrorClaimStatus,
			wantErrCat: api.CategoryConflict,
		},
		{
			name:       "rejected is terminal",
			fromStatus: api.ClaimStatusRejected,
			target:     api.ClaimStatusApproved,
			actor:      owner,
			wantErrKey: api.ErrorClaimStatus,
			wantErrCat: api.CategoryConflict,
		},
		{
			name:       "completed is terminal",
			fromStatus: api.ClaimStatusCompleted,
			target:     api.ClaimStatusCancelled,
			actor:      claimant,
			wantErrKey: api.ErrorClaimStatus,
			wantErrCat: api.CategoryConflict,
		},
		{
			name:       "cancelled is terminal",
			fromStatus: api.ClaimStatusCancelled,
			target:     api.ClaimStatusApproved,
			actor:      owner,
			wantErrKey: api.ErrorClaimStatus,
			wantErrCat: api.CategoryConflict,
		},
		{
			name:       "same status is not a transition",
			fromStatus: api.ClaimStatusPending,
			target:     api.ClaimStatusPending,
			actor:      owner,
			wantErrKey: api.ErrorClaimStatus,
			wantErrCat: api.CategoryConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert := CreateAlertFixtures(ms.DB, owner, 1).Alerts[0]
			claim := CreateClaimFixtures(ms.DB, claimant, alert, tt.fromStatus).Claims[0]

			got := claim.Transition(ms.DB, tt.actor, api.ClaimStatusInput{
				TargetStatus: tt.target,
				StatusReason: "test reason",
			})

			if tt.wantErrKey != "" {
				ms.Error(got, "did not return expected error")
				ms.EqualAppError(api.AppError{Key: tt.wantErrKey, Category: tt.wantErrCat}, got)

				var fromDB Claim
				ms.NoError(fromDB.FindByID(ms.DB, claim.ID))
				ms.Equal(tt.fromStatus, fromDB.Status, "status changed despite error")
				return
			}
			ms.NoError(got)

			var fromDB Claim
			ms.NoError(fromDB.FindByID(ms.DB, claim.ID))
			ms.Equal(tt.target, fromDB.Status, "incorrect status")
			ms.Equal("test reason", fromDB.StatusReason.String, "incorrect status reason")

			var alertFromDB Alert
			ms.NoError(alertFromDB.FindByID(ms.DB, alert.ID))
			if tt.wantResolved {
				ms.Equal(api.AlertStatusResolved, alertFromDB.Status, "alert not resolved on completion")
			} else {
				ms.Equal(api.AlertStatusActive, alertFromDB.Status, "alert should not have been resolved")
			}
		})
	}
}

func (ms *ModelSuite) TestClaim_Create_DuplicateActive() {
	users := CreateUserFixtures(ms.DB, 2).Users
	owner, claimant := users[0], users[1]

	alert := CreateAlertFixtures(ms.DB, owner, 1).Alerts[0]
	claim := CreateClaimFixtures(ms.DB, claimant, alert, api.ClaimStatusPending).Claims[0]

	// A submission that slipped past the duplicate read check in SubmitClaim
	// hits the partial unique index on (claimant_id, alert_id)
	dup := Claim{
		AlertID:     alert.ID,
		AlertType:   alert.Type,
		ClaimantID:  claimant.ID,
		OwnerID:     owner.ID,
		Status:      api.ClaimStatusPending,
		PetFeatures: domain.RandomString(40, ""),
	}
	err := dup.Create(ms.DB)
	ms.Error(err, "second active claim was not rejected by the unique index")
	ms.EqualAppError(api.AppError{
		Key:      api.ErrorClaimDuplicatePending,
		Category: api.CategoryConflict,
	}, err)

	// a terminal claim does not block a new submission
	ms.NoError(claim.Transition(ms.DB, claimant, api.ClaimStatusInput{
		TargetStatus: api.ClaimStatusCancelled,
	}))
	ms.NoError(dup.Create(ms.DB), "terminal claim should not block a new one")
}

func (ms *ModelSuite) TestClaim_Transition_DefaultStatusReason() {
	users := CreateUserFixtures(ms.DB, 2).Users
	owner, claimant := users[0], users[1]

	alert := CreateAlertFixtures(ms.DB, owner, 1).Alerts[0]
	claim := CreateClaimFixtures(ms.DB, claimant, alert, api.ClaimStatusPending).Claims[0]

	ms.NoError(claim.Transition(ms.DB, owner, api.ClaimStatusInput{
		TargetStatus: api.ClaimStatusApproved,
	}))

	var fromDB Claim
	ms.NoError(fromDB.FindByID(ms.DB, claim.ID))
	ms.Equal(ClaimStatusChangeApproved+owner.Name(), fromDB.StatusReason.String,
		"empty reason should default to the status change description")
}

func (ms *ModelSuite) TestClaim_Transition_Concurrent() {
	users := CreateUserFixtures(ms.DB, 2).Users
	owner, claimant := users[0], users[1]

	alert := CreateAlertFixtures(ms.DB, owner, 1).Alerts[0]
	claim := CreateClaimFixtures(ms.DB, claimant, alert, api.ClaimStatusPending).Claims[0]

	// Two copies of the same claim, as two concurrent requests would hold
	copy1 := claim
	copy2 := claim

	ms.NoError(copy1.Transition(ms.DB, owner, api.ClaimStatusInput{
		TargetStatus: api.ClaimStatusApproved,
	}))

	// The second decision is based on a stale status and must not win
	got := copy2.Transition(ms.DB, owner, api.ClaimStatusInput{
		TargetStatus: api.ClaimStatusRejected,
	})
	ms.Error(got, "stale transition did not return an error")
	ms.EqualAppError(api.AppError{
		Key:      api.ErrorClaimConcurrentModification,
		Category: api.CategoryConflict,
	}, got)

	var fromDB Claim
	ms.NoError(fromDB.FindByID(ms.DB, claim.ID))
	ms.Equal(api.ClaimStatusApproved, fromDB.Status, "first decision did not stick")
}

func (ms *ModelSuite) TestClaim_FindActiveByClaimantAndAlert() {
	users := CreateUserFixtures(ms.DB, 2).Users
	owner, claimant := users[0], users[1]

	alerts := CreateAlertFixtures(ms.DB, owner, 2).Alerts
	CreateClaimFixtures(ms.DB, claimant, alerts[0], api.ClaimStatusCancelled)
	active := CreateClaimFixtures(ms.DB, claimant, alerts[1], api.ClaimStatusApproved).Claims[0]

	var c Claim
	found, err := c.FindActiveByClaimantAndAlert(ms.DB, claimant.ID, alerts[0].ID)
	ms.NoError(err)
	ms.False(found, "terminal claim should not count as active")

	found, err = c.FindActiveByClaimantAndAlert(ms.DB, claimant.ID, alerts[1].ID)
	ms.NoError(err)
	ms.True(found, "active claim not found")
	ms.Equal(active.ID, c.ID)
}
