package messages

import (
	"bytes"
	"fmt"

	"github.com/gobuffalo/buffalo/render"
	"github.com/gobuffalo/pop/v6"

	"github.com/pawtrail/pawtrail-api/domain"
	"github.com/pawtrail/pawtrail-api/models"
	"github.com/pawtrail/pawtrail-api/notifications"
)

//  Email templates
const (
	MessageTemplateClaimCreatedOwner      = "claim_created_owner"
	MessageTemplateClaimApprovedClaimant  = "claim_approved_claimant"
	MessageTemplateClaimRejectedClaimant  = "claim_rejected_claimant"
	MessageTemplateClaimCancelledParty    = "claim_cancelled_party"
	MessageTemplateClaimCompletedClaimant = "claim_completed_claimant"
)

const EventCategoryClaim = "Claim"

type emailMessageData map[string]any

func newEmailMessageData() emailMessageData {
	return emailMessageData{
		"appName": domain.Env.AppName,
		"uiURL":   domain.Env.UIURL,
	}
}

func (m emailMessageData) addClaimData(tx *pop.Connection, claim models.Claim) {
	claim.LoadAlert(tx, false)
	claim.LoadClaimant(tx, false)
	claim.LoadOwner(tx, false)

	petName := claim.Alert.PetName
	if petName == "" {
		petName = "the pet"
	}

	m["claimantName"] = claim.Claimant.Name()
	m["ownerName"] = claim.Owner.Name()
	m["petName"] = petName
	m["alertType"] = claim.AlertType
	m["statusReason"] = claim.StatusReason.String
	m["submittedOn"] = claim.CreatedAt.Format(domain.DateFormat)
	m["claimURL"] = fmt.Sprintf("%s/claims/%s", domain.Env.UIURL, claim.ID)
}

func (m emailMessageData) renderHTML(template string) string {
	bodyBuf := &bytes.Buffer{}
	if err := notifications.EmailRenderer.HTML("mail/" + template + ".plush.html").Render(bodyBuf, render.Data(m)); err != nil {
		panic("error rendering message body - " + err.Error())
	}
	return bodyBuf.String()
}
