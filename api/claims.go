package api

import (
	"time"

	"github.com/gofrs/uuid"
)

type ClaimStatus string

const (
	ClaimStatusPending   = ClaimStatus("Pending")
	ClaimStatusApproved  = ClaimStatus("Approved")
	ClaimStatusRejected  = ClaimStatus("Rejected")
	ClaimStatusCompleted = ClaimStatus("Completed")
	ClaimStatusCancelled = ClaimStatus("Cancelled")
)

// ClaimListRole selects which side of a claim the current user is on, for list filtering
type ClaimListRole string

const (
	ClaimListRoleSent     = ClaimListRole("sent")
	ClaimListRoleReceived = ClaimListRole("received")
)

type Claims []Claim

type Claim struct {
	ID              uuid.UUID   `json:"id"`
	AlertID         uuid.UUID   `json:"alert_id"`
	AlertType       AlertType   `json:"alert_type"`
	ClaimantID      uuid.UUID   `json:"claimant_id"`
	OwnerID         uuid.UUID   `json:"owner_id"`
	Status          ClaimStatus `json:"status"`
	StatusReason    string      `json:"status_reason,omitempty"`
	PetFeatures     string      `json:"pet_features"`
	MicrochipNumber string      `json:"microchip_number,omitempty"`
	AdditionalInfo  string      `json:"additional_info,omitempty"`
	ReviewedAt      *time.Time  `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	Files           []ClaimFile `json:"files"`
}

// ClaimCreateInput is the payload for submitting a new claim against an alert
type ClaimCreateInput struct {
	AlertID             uuid.UUID                `json:"alert_id"`
	AlertType           AlertType                `json:"alert_type"`
	VerificationDetails ClaimVerificationDetails `json:"verification_details"`

	// IDs of previously uploaded files offered as evidence, at least one required
	VerificationFileIDs []uuid.UUID `json:"verification_file_ids"`
}

type ClaimVerificationDetails struct {
	MicrochipNumber string `json:"microchip_number,omitempty"`
	PetFeatures     string `json:"pet_features"`
	AdditionalInfo  string `json:"additional_info,omitempty"`
}

// ClaimStatusInput is the payload for requesting a claim status transition
type ClaimStatusInput struct {
	TargetStatus ClaimStatus `json:"target_status"`
	StatusReason string      `json:"status_reason,omitempty"`
}

type ClaimFile struct {
	ID        uuid.UUID `json:"id"`
	ClaimID   uuid.UUID `json:"claim_id"`
	FileID    uuid.UUID `json:"file_id"`
	File      File      `json:"file"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
