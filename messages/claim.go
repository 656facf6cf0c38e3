package messages

import (
	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"

	"github.com/pawtrail/pawtrail-api/models"
)

// ClaimCreatedQueueMessage queues a message to the alert owner to notify
// them that a new claim is waiting for their review
func ClaimCreatedQueueMessage(tx *pop.Connection, claim models.Claim) {
	claim.LoadOwner(tx, false)

	data := newEmailMessageData()
	data.addClaimData(tx, claim)

	notn := models.Notification{
		AlertID:       nulls.NewUUID(claim.AlertID),
		ClaimID:       nulls.NewUUID(claim.ID),
		Body:          data.renderHTML(MessageTemplateClaimCreatedOwner),
		Subject:       "Someone has claimed " + data["petName"].(string),
		InappText:     "A new claim is waiting for your review",
		Event:         "Claim Created Notification",
		EventCategory: EventCategoryClaim,
	}
	if err := notn.Create(tx); err != nil {
		panic("error creating new Claim Created Notification: " + err.Error())
	}

	if err := notn.CreateNotificationUser(tx, claim.Owner); err != nil {
		panic("error queuing Claim Created Notification: " + err.Error())
	}
}

// ClaimApprovedQueueMessage queues a message to the claimant to notify
// them that their claim was approved and chat is now open
func ClaimApprovedQueueMessage(tx *pop.Connection, claim models.Claim) {
	claim.LoadClaimant(tx, false)

	data := newEmailMessageData()
	data.addClaimData(tx, claim)

	notn := models.Notification{
		AlertID:       nulls.NewUUID(claim.AlertID),
		ClaimID:       nulls.NewUUID(claim.ID),
		Body:          data.renderHTML(MessageTemplateClaimApprovedClaimant),
		Subject:       "Your claim on " + data["petName"].(string) + " was approved",
		InappText:     "Your claim was approved, you can now chat with the reporter",
		Event:         "Claim Approved Notification",
		EventCategory: EventCategoryClaim,
	}
	if err := notn.Create(tx); err != nil {
		panic("error creating new Claim Approved Notification: " + err.Error())
	}

	if err := notn.CreateNotificationUser(tx, claim.Claimant); err != nil {
		panic("error queuing Claim Approved Notification: " + err.Error())
	}
}

// ClaimRejectedQueueMessage queues a message to the claimant to notify
// them that their claim was rejected
func ClaimRejectedQueueMessage(tx *pop.Connection, claim models.Claim) {
	claim.LoadClaimant(tx, false)

	data := newEmailMessageData()
	data.addClaimData(tx, claim)

	notn := models.Notification{
		AlertID:       nulls.NewUUID(claim.AlertID),
		ClaimID:       nulls.NewUUID(claim.ID),
		Body:          data.renderHTML(MessageTemplateClaimRejectedClaimant),
		Subject:       "Your claim on " + data["petName"].(string) + " was not approved",
		InappText:     "Your claim was not approved",
		Event:         "Claim Rejected Notification",
		EventCategory: EventCategoryClaim,
	}
	if err := notn.Create(tx); err != nil {
		panic("error creating new Claim Rejected Notification: " + err.Error())
	}

	if err := notn.CreateNotificationUser(tx, claim.Claimant); err != nil {
		panic("error queuing Claim Rejected Notification: " + err.Error())
	}
}

// ClaimCancelledQueueMessage queues a message to the party that did not
// cancel, telling them the claim was called off
func ClaimCancelledQueueMessage(tx *pop.Connection, claim models.Claim, actor models.User) {
	recipient := claim.OtherParty(tx, actor.ID)

	data := newEmailMessageData()
	data.addClaimData(tx, claim)
	data["recipientName"] = recipient.Name()
	data["actorName"] = actor.Name()

	notn := models.Notification{
		AlertID:       nulls.NewUUID(claim.AlertID),
		ClaimID:       nulls.NewUUID(claim.ID),
		Body:          data.renderHTML(MessageTemplateClaimCancelledParty),
		Subject:       "The claim on " + data["petName"].(string) + " was cancelled",
		InappText:     "A claim you were involved in was cancelled",
		Event:         "Claim Cancelled Notification",
		EventCategory: EventCategoryClaim,
	}
	if err := notn.Create(tx); err != nil {
		panic("error creating new Claim Cancelled Notification: " + err.Error())
	}

	if err := notn.CreateNotificationUser(tx, recipient); err != nil {
		panic("error queuing Claim Cancelled Notification: " + err.Error())
	}
}

// ClaimCompletedQueueMessage queues a message to the claimant confirming
// the reunion and the closing of the alert
func ClaimCompletedQueueMessage(tx *pop.Connection, claim models.Claim) {
	claim.LoadClaimant(tx, false)

	data := newEmailMessageData()
	data.addClaimData(tx, claim)

	notn := models.Notification{
		AlertID:       nulls.NewUUID(claim.AlertID),
		ClaimID:       nulls.NewUUID(claim.ID),
		Body:          data.renderHTML(MessageTemplateClaimCompletedClaimant),
		Subject:       "Reunion with " + data["petName"].(string) + " confirmed",
		InappText:     "The reunion was confirmed and the report is closed",
		Event:         "Claim Completed Notification",
		EventCategory: EventCategoryClaim,
	}
	if err := notn.Create(tx); err != nil {
		panic("error creating new Claim Completed Notification: " + err.Error())
	}

	if err := notn.CreateNotificationUser(tx, claim.Claimant); err != nil {
		panic("error queuing Claim Completed Notification: " + err.Error())
	}
}
