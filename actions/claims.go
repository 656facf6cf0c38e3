package actions

import (
	"net/http"

	"github.com/gobuffalo/buffalo"

	"github.com/pawtrail/pawtrail-api/api"
	"github.com/pawtrail/pawtrail-api/domain"
	"github.com/pawtrail/pawtrail-api/models"
)

// swagger:operation GET /claims Claims ClaimsList
//
// ClaimsList
//
// list the current user's claims, filtered by the `role` query parameter:
// "sent" for claims the user submitted, "received" for claims on the user's
// alerts. Admins with no role filter get all claims.
//
// ---
// parameters:
// - name: role
//   in: query
//   required: false
//   description: sent or received
// responses:
//   '200':
//     description: a list of Claims
//     schema:
//       type: array
//       items:
//         "$ref": "#/definitions/Claim"
func claimsList(c buffalo.Context) error {
	tx := models.Tx(c)
	user := models.CurrentUser(c)

	switch api.ClaimListRole(c.Param("role")) {
	case api.ClaimListRoleSent:
		claims := user.MyClaims(tx)
		return renderOk(c, claims.ConvertToAPI(tx))
	case api.ClaimListRoleReceived:
		claims := user.ReceivedClaims(tx)
		return renderOk(c, claims.ConvertToAPI(tx))
	}

	if user.IsAdmin() {
		var claims models.Claims
		if err := claims.All(tx); err != nil {
			return reportError(c, err)
		}
		return renderOk(c, claims.ConvertToAPI(tx))
	}

	claims := user.MyClaims(tx)
	return renderOk(c, claims.ConvertToAPI(tx))
}

// swagger:operation GET /claims/{id} Claims ClaimsView
//
// ClaimsView
//
// view a specific claim. Only the claimant, the alert owner, or an admin may
// view a claim.
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: claim ID
// responses:
//   '200':
//     description: a Claim
//     schema:
//       "$ref": "#/definitions/Claim"
func claimsView(c buffalo.Context) error {
	tx := models.Tx(c)
	claim := getReferencedClaimFromCtx(c)
	return renderOk(c, claim.ConvertToAPI(tx))
}

// swagger:operation POST /claims Claims ClaimsCreate
//
// ClaimsCreate
//
// submit a new claim against an alert. The claim is created in Pending status
// and the alert owner is notified.
//
// ---
// parameters:
//   - name: claim input
//     in: body
//     description: claim create input object
//     required: true
//     schema:
//       "$ref": "#/definitions/ClaimCreateInput"
// responses:
//   '201':
//     description: the new Claim
//     schema:
//       "$ref": "#/definitions/Claim"
func claimsCreate(c buffalo.Context) error {
	var input api.ClaimCreateInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	tx := models.Tx(c)
	claim, err := models.SubmitClaim(tx, models.CurrentUser(c), input)
	if err != nil {
		return reportError(c, err)
	}

	return c.Render(http.StatusCreated, r.JSON(claim.ConvertToAPI(tx)))
}

// swagger:operation PUT /claims/{id}/status Claims ClaimsStatusUpdate
//
// ClaimsStatusUpdate
//
// request a claim status transition. Which party may trigger a transition
// depends on the edge: the alert owner approves, rejects and completes, the
// claimant cancels a Pending claim, and either party may cancel an Approved
// claim.
//
// ---
// parameters:
//   - name: id
//     in: path
//     required: true
//     description: claim ID
//   - name: claim status input
//     in: body
//     description: claim status transition input object
//     required: true
//     schema:
//       "$ref": "#/definitions/ClaimStatusInput"
// responses:
//   '200':
//     description: the updated Claim
//     schema:
//       "$ref": "#/definitions/Claim"
func claimsStatusUpdate(c buffalo.Context) error {
	tx := models.Tx(c)
	claim := getReferencedClaimFromCtx(c)

	var input api.ClaimStatusInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	if err := claim.Transition(tx, models.CurrentUser(c), input); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, claim.ConvertToAPI(tx))
}

// getReferencedClaimFromCtx pulls the models.Claim resource from context that was put there
// by the AuthZ middleware
func getReferencedClaimFromCtx(c buffalo.Context) *models.Claim {
	claim, ok := c.Value(domain.TypeClaim).(*models.Claim)
	if !ok {
		panic("claim not found in context")
	}
	return claim
}
