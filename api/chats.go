package api

import (
	"time"

	"github.com/gofrs/uuid"
)

// ChatAccessReason explains a denied chat access decision
type ChatAccessReason string

const (
	ChatAccessReasonNoApprovedClaim = ChatAccessReason("NoApprovedClaim")
	ChatAccessReasonRevoked         = ChatAccessReason("ChatAccessRevoked")
)

type ChatRooms []ChatRoom

type ChatRoom struct {
	ID         uuid.UUID     `json:"id"`
	ClaimID    uuid.UUID     `json:"claim_id"`
	AlertID    uuid.UUID     `json:"alert_id"`
	ClaimantID uuid.UUID     `json:"claimant_id"`
	OwnerID    uuid.UUID     `json:"owner_id"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
	Messages   []ChatMessage `json:"messages,omitempty"`
}

type ChatMessages []ChatMessage

type ChatMessage struct {
	ID        uuid.UUID `json:"id"`
	RoomID    uuid.UUID `json:"room_id"`
	SenderID  uuid.UUID `json:"sender_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatRoomOpenInput struct {
	ClaimID uuid.UUID `json:"claim_id"`
}

type ChatMessageCreateInput struct {
	Body string `json:"body"`
}
