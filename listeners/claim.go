package listeners

import (
	"fmt"

	"github.com/gobuffalo/events"

	"github.com/pawtrail/pawtrail-api/api"
	"github.com/pawtrail/pawtrail-api/domain"
	"github.com/pawtrail/pawtrail-api/messages"
	"github.com/pawtrail/pawtrail-api/models"
)

const wrongStatusMsg = "claim has wrong status in %s listener: %s"

func claimCreated(e events.Event) {
	if e.Kind != domain.EventApiClaimCreated {
		return
	}

	defer panicRecover(e.Kind)

	var claim models.Claim
	if err := findObject(e.Payload, &claim, e.Kind); err != nil {
		return
	}

	if claim.Status != api.ClaimStatusPending {
		panic(fmt.Sprintf(wrongStatusMsg, "claimCreated", claim.Status))
	}

	messages.ClaimCreatedQueueMessage(models.DB, claim)
}

func claimApproved(e events.Event) {
	if e.Kind != domain.EventApiClaimApproved {
		return
	}

	defer panicRecover(e.Kind)

	var claim models.Claim
	if err := findObject(e.Payload, &claim, e.Kind); err != nil {
		return
	}

	if claim.Status != api.ClaimStatusApproved {
		panic(fmt.Sprintf(wrongStatusMsg, "claimApproved", claim.Status))
	}

	messages.ClaimApprovedQueueMessage(models.DB, claim)
}

func claimRejected(e events.Event) {
	if e.Kind != domain.EventApiClaimRejected {
		return
	}

	defer panicRecover(e.Kind)

	var claim models.Claim
	if err := findObject(e.Payload, &claim, e.Kind); err != nil {
		return
	}

	if claim.Status != api.ClaimStatusRejected {
		panic(fmt.Sprintf(wrongStatusMsg, "claimRejected", claim.Status))
	}

	messages.ClaimRejectedQueueMessage(models.DB, claim)
}

func claimCancelled(e events.Event) {
	if e.Kind != domain.EventApiClaimCancelled {
		return
	}

	defer panicRecover(e.Kind)

	var claim models.Claim
	if err := findObject(e.Payload, &claim, e.Kind); err != nil {
		return
	}

	if claim.Status != api.ClaimStatusCancelled {
		panic(fmt.Sprintf(wrongStatusMsg, "claimCancelled", claim.Status))
	}

	actorID, err := getPayloadUUID(e.Payload, domain.EventPayloadActorID)
	if err != nil {
		domain.ErrLogger.Printf("Failed to get actor ID in claimCancelled, %s", err)
		return
	}

	var actor models.User
	if err := actor.FindByID(models.DB, actorID); err != nil {
		domain.ErrLogger.Printf("Failed to find actor in claimCancelled, %s", err)
		return
	}

	messages.ClaimCancelledQueueMessage(models.DB, claim, actor)
}

func claimCompleted(e events.Event) {
	if e.Kind != domain.EventApiClaimCompleted {
		return
	}

	defer panicRecover(e.Kind)

	var claim models.Claim
	if err := findObject(e.Payload, &claim, e.Kind); err != nil {
		return
	}

	if claim.Status != api.ClaimStatusCompleted {
		panic(fmt.Sprintf(wrongStatusMsg, "claimCompleted", claim.Status))
	}

	messages.ClaimCompletedQueueMessage(models.DB, claim)
}
