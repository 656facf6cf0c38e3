package api

import (
	"time"

	"github.com/gofrs/uuid"
)

type (
	AlertType   string
	AlertStatus string
)

const (
	AlertTypeLost  = AlertType("LOST")
	AlertTypeFound = AlertType("FOUND")

	AlertStatusActive   = AlertStatus("Active")
	AlertStatusResolved = AlertStatus("Resolved")
)

type Alerts []Alert

type Alert struct {
	ID               uuid.UUID   `json:"id"`
	OwnerID          uuid.UUID   `json:"owner_id"`
	Type             AlertType   `json:"type"`
	Status           AlertStatus `json:"status"`
	PetName          string      `json:"pet_name,omitempty"`
	Species          string      `json:"species"`
	Breed            string      `json:"breed,omitempty"`
	Description      string      `json:"description"`
	LastSeenLocation string      `json:"last_seen_location,omitempty"`
	PhotoFileID      *uuid.UUID  `json:"photo_file_id,omitempty"`
	ResolutionNote   string      `json:"resolution_note,omitempty"`
	ResolvedAt       *time.Time  `json:"resolved_at,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

type AlertCreateInput struct {
	Type             AlertType  `json:"type"`
	PetName          string     `json:"pet_name,omitempty"`
	Species          string     `json:"species"`
	Breed            string     `json:"breed,omitempty"`
	Description      string     `json:"description"`
	LastSeenLocation string     `json:"last_seen_location,omitempty"`
	PhotoFileID      *uuid.UUID `json:"photo_file_id,omitempty"`
}

type AlertResolveInput struct {
	ResolutionNote string `json:"resolution_note,omitempty"`
}
