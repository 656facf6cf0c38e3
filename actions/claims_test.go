package actions

import (
	"net/http"
	"testing"

	"github.com/gofrs/uuid"

	"github.com/pawtrail/pawtrail-api/api"
	"github.com/pawtrail/pawtrail-api/domain"
	"github.com/pawtrail/pawtrail-api/models"
)

func (as *ActionSuite) Test_ClaimsCreate() {
	fixtures := models.CreateUserFixtures(as.DB, 3)
	owner, claimant := fixtures.Users[0], fixtures.Users[1]

	alert := models.CreateAlertFixtures(as.DB, owner, 1).Alerts[0]
	file := models.CreateFileFixtures(as.DB, 1, claimant.ID).Files[0]

	goodInput := func() api.ClaimCreateInput {
		return api.ClaimCreateInput{
			AlertID:   alert.ID,
			AlertType: alert.Type,
			VerificationDetails: api.ClaimVerificationDetails{
				PetFeatures: "white blaze on chest, torn left ear, red collar",
			},
			VerificationFileIDs: []uuid.UUID{file.ID},
		}
	}

	tests := []struct {
		name       string
		actor      models.User
		modify     func(*api.ClaimCreateInput)
		wantStatus int
		wantInBody string
	}{
		{
			name:  "invalid alert type",
			actor: claimant,
			modify: func(i *api.ClaimCreateInput) {
				i.AlertType = "STOLEN"
			},
			wantStatus: http.StatusBadRequest,
			wantInBody: string(api.ErrorAlertInvalidType),
		},
		{
			name:  "insufficient evidence",
			actor: claimant,
			modify: func(i *api.ClaimCreateInput) {
				i.VerificationDetails.PetFeatures = "brown"
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantInBody: string(api.ErrorClaimInsufficientEvidence),
		},
		{
			name:  "missing evidence files",
			actor: claimant,
			modify: func(i *api.ClaimCreateInput) {
				i.VerificationFileIDs = nil
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantInBody: string(api.ErrorClaimMissingEvidence),
		},
		{
			name:  "alert not found",
			actor: claimant,
			modify: func(i *api.ClaimCreateInput) {
				i.AlertID = domain.GetUUID()
			},
			wantStatus: http.StatusNotFound,
			wantInBody: string(api.ErrorAlertNotFound),
		},
		{
			name:       "owner may not claim own alert",
			actor:      owner,
			modify:     func(i *api.ClaimCreateInput) {},
			wantStatus: http.StatusForbidden,
			wantInBody: string(api.ErrorClaimSelfForbidden),
		},
		{
			name:       "good input",
			actor:      claimant,
			modify:     func(i *api.ClaimCreateInput) {},
			wantStatus: http.StatusCreated,
			wantInBody: alert.ID.String(),
		},
		{
			name:       "duplicate active claim",
			actor:      claimant,
			modify:     func(i *api.ClaimCreateInput) {},
			wantStatus: http.StatusConflict,
			wantInBody: string(api.ErrorClaimDuplicatePending),
		},
	}

	for _, tt := range tests {
		as.T().Run(tt.name, func(t *testing.T) {
			input := goodInput()
			tt.modify(&input)

			res := as.request(http.MethodPost, "/claims", tt.actor, input)

			body := res.Body.String()
			as.Equal(tt.wantStatus, res.Code, "incorrect status code returned, body: %s", body)
			as.Contains(body, tt.wantInBody)

			if res.Code != http.StatusCreated {
				return
			}
			var claim api.Claim
			as.NoError(as.decodeBody(res.Body.Bytes(), &claim))
			as.Equal(api.ClaimStatusPending, claim.Status)
			as.Equal(tt.actor.ID, claim.ClaimantID)
			as.Equal(owner.ID, claim.OwnerID)
			as.Len(claim.Files, 1)
		})
	}
}

func (as *ActionSuite) Test_ClaimsList() {
	fixtures := models.CreateUserFixtures(as.DB, 3)
	owner, claimant, stranger := fixtures.Users[0], fixtures.Users[1], fixtures.Users[2]

	alert := models.CreateAlertFixtures(as.DB, owner, 1).Alerts[0]
	claim := models.CreateClaimFixtures(as.DB, claimant, alert, api.ClaimStatusPending).Claims[0]

	tests := []struct {
		name       string
		actor      models.User
		path       string
		wantClaims int
	}{
		{
			name:       "claimant sent",
			actor:      claimant,
			path:       "/claims?role=sent",
			wantClaims: 1,
		},
		{
			name:       "claimant received",
			actor:      claimant,
			path:       "/claims?role=received",
			wantClaims: 0,
		},
		{
			name:       "owner received",
			actor:      owner,
			path:       "/claims?role=received",
			wantClaims: 1,
		},
		{
			name:       "stranger sent",
			actor:      stranger,
			path:       "/claims?role=sent",
			wantClaims: 0,
		},
	}

	for _, tt := range tests {
		as.T().Run(tt.name, func(t *testing.T) {
			res := as.request(http.MethodGet, tt.path, tt.actor, nil)

			body := res.Body.String()
			as.Equal(http.StatusOK, res.Code, "incorrect status code returned, body: %s", body)

			var claims api.Claims
			as.NoError(as.decodeBody(res.Body.Bytes(), &claims))
			as.Len(claims, tt.wantClaims)
			if tt.wantClaims > 0 {
				as.Equal(claim.ID, claims[0].ID)
			}
		})
	}
}

func (as *ActionSuite) Test_ClaimsView() {
	fixtures := models.CreateUserFixtures(as.DB, 3)
	owner, claimant, stranger := fixtures.Users[0], fixtures.Users[1], fixtures.Users[2]

	alert := models.CreateAlertFixtures(as.DB, owner, 1).Alerts[0]
	claim := models.CreateClaimFixtures(as.DB, claimant, alert, api.ClaimStatusPending).Claims[0]

	tests := []struct {
		name       string
		actor      models.User
		wantStatus int
	}{
		{name: "claimant", actor: claimant, wantStatus: http.StatusOK},
		{name: "owner", actor: owner, wantStatus: http.StatusOK},
		{name: "stranger", actor: stranger, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		as.T().Run(tt.name, func(t *testing.T) {
			res := as.request(http.MethodGet, "/claims/"+claim.ID.String(), tt.actor, nil)

			body := res.Body.String()
			as.Equal(tt.wantStatus, res.Code, "incorrect status code returned, body: %s", body)
			if tt.wantStatus == http.StatusOK {
				as.Contains(body, claim.ID.String())
			}
		})
	}
}

func (as *ActionSuite) Test_ClaimsStatusUpdate() {
	fixtures := models.CreateUserFixtures(as.DB, 3)
	owner, claimant, stranger := fixtures.Users[0], fixtures.Users[1], fixtures.Users[2]

	alerts := models.CreateAlertFixtures(as.DB, owner, 3).Alerts
	pendingClaim := models.CreateClaimFixtures(as.DB, claimant, alerts[0], api.ClaimStatusPending).Claims[0]
	approvedClaim := models.CreateClaimFixtures(as.DB, claimant, alerts[1], api.ClaimStatusApproved).Claims[0]
	rejectedClaim := models.CreateClaimFixtures(as.DB, claimant, alerts[2], api.ClaimStatusRejected).Claims[0]

	tests := []struct {
		name       string
		actor      models.User
		claim      models.Claim
		input      api.ClaimStatusInput
		wantStatus int
		wantInBody string
	}{
		{
			name:       "stranger is denied by authz",
			actor:      stranger,
			claim:      pendingClaim,
			input:      api.ClaimStatusInput{TargetStatus: api.ClaimStatusApproved},
			wantStatus: http.StatusForbidden,
			wantInBody: string(api.ErrorNotAuthorized),
		},
		{
			name:       "claimant may not approve",
			actor:      claimant,
			claim:      pendingClaim,
			input:      api.ClaimStatusInput{TargetStatus: api.ClaimStatusApproved},
			wantStatus: http.StatusForbidden,
			wantInBody: string(api.ErrorClaimTransitionNotAllowed),
		},
		{
			name:       "terminal status has no transitions",
			actor:      owner,
			claim:      rejectedClaim,
			input:      api.ClaimStatusInput{TargetStatus: api.ClaimStatusApproved},
			wantStatus: http.StatusConflict,
			wantInBody: string(api.ErrorClaimStatus),
		},
		{
			name:       "pending cannot be completed",
			actor:      owner,
			claim:      pendingClaim,
			input:      api.ClaimStatusInput{TargetStatus: api.ClaimStatusCompleted},
			wantStatus: http.StatusConflict,
			wantInBody: string(api.ErrorClaimStatus),
		},
		{
			name:       "owner approves",
			actor:      owner,
			claim:      pendingClaim,
			input:      api.ClaimStatusInput{TargetStatus: api.ClaimStatusApproved, StatusReason: "features match"},
			wantStatus: http.StatusOK,
			wantInBody: string(api.ClaimStatusApproved),
		},
		{
			name:       "owner completes approved claim",
			actor:      owner,
			claim:      approvedClaim,
			input:      api.ClaimStatusInput{TargetStatus: api.ClaimStatusCompleted},
			wantStatus: http.StatusOK,
			wantInBody: string(api.ClaimStatusCompleted),
		},
	}

	for _, tt := range tests {
		as.T().Run(tt.name, func(t *testing.T) {
			res := as.request(http.MethodPut, "/claims/"+tt.claim.ID.String()+"/status", tt.actor, tt.input)

			body := res.Body.String()
			as.Equal(tt.wantStatus, res.Code, "incorrect status code returned, body: %s", body)
			as.Contains(body, tt.wantInBody)

			if res.Code != http.StatusOK {
				return
			}
			var claim api.Claim
			as.NoError(as.decodeBody(res.Body.Bytes(), &claim))
			as.Equal(tt.input.TargetStatus, claim.Status)
		})
	}

	// completing the claim resolves its alert
	var alert models.Alert
	as.NoError(as.DB.Find(&alert, approvedClaim.AlertID))
	as.Equal(api.AlertStatusResolved, alert.Status)
}
