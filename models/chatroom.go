package models

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/pawtrail/pawtrail-api/api"
	"github.com/pawtrail/pawtrail-api/domain"
)

type ChatRooms []ChatRoom

// ChatRoom is a private conversation between the two parties of a claim. A
// room can only be opened while the claim is Approved, and message sending is
// re-gated on every send. The room and its history survive revocation so both
// parties keep what was already said.
type ChatRoom struct {
	ID         uuid.UUID `db:"id"`
	ClaimID    uuid.UUID `db:"claim_id" validate:"required"`
	AlertID    uuid.UUID `db:"alert_id" validate:"required"`
	ClaimantID uuid.UUID `db:"claimant_id" validate:"required"`
	OwnerID    uuid.UUID `db:"owner_id" validate:"required"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`

	Claim    Claim        `belongs_to:"claims" validate:"-"`
	Messages ChatMessages `has_many:"chat_messages" order_by:"created_at asc" validate:"-"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (c *ChatRoom) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(c), nil
}

// Create stores the ChatRoom data as a new record in the database.
func (c *ChatRoom) Create(tx *pop.Connection) error {
	return create(tx, c)
}

func (c *ChatRoom) GetID() uuid.UUID {
	return c.ID
}

func (c *ChatRoom) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return tx.Find(c, id)
}

// FindByClaimID looks up the room for a claim. Returns false if none exists.
func (c *ChatRoom) FindByClaimID(tx *pop.Connection, claimID uuid.UUID) (bool, error) {
	err := tx.Where("claim_id = ?", claimID).First(c)
	if err != nil {
		if domain.IsOtherThanNoRows(err) {
			return false, appErrorFromDB(err, api.ErrorQueryFailure)
		}
		return false, nil
	}
	return true, nil
}

// IsActorAllowedTo restricts a chat room to its two participants. Viewing
// stays open to participants even after access to send has been revoked.
func (c *ChatRoom) IsActorAllowedTo(tx *pop.Connection, actor User, perm Permission, sub SubResource, r *http.Request) bool {
	if actor.IsAdmin() {
		return true
	}

	if perm == PermissionCreate && sub == "" {
		return true
	}

	return c.HasParticipant(actor.ID)
}

func (c *ChatRoom) HasParticipant(userID uuid.UUID) bool {
	return userID == c.ClaimantID || userID == c.OwnerID
}

// CanChat reports whether two users may currently exchange messages about the
// given alert, which requires an Approved claim on that alert linking them in
// either direction.
func CanChat(tx *pop.Connection, userID1, userID2, alertID uuid.UUID) (bool, error) {
	count, err := tx.Where(
		"alert_id = ? AND status = ? AND ((claimant_id = ? AND owner_id = ?) OR (claimant_id = ? AND owner_id = ?))",
		alertID, api.ClaimStatusApproved, userID1, userID2, userID2, userID1,
	).Count(&Claim{})
	if err != nil {
		return false, appErrorFromDB(err, api.ErrorQueryFailure)
	}
	return count > 0, nil
}

// OpenChatRoom returns the chat room for the given claim, creating it if
// needed. The claim must currently be Approved and the actor must be one of
// its parties.
func OpenChatRoom(tx *pop.Connection, actor User, claimID uuid.UUID) (ChatRoom, error) {
	var claim Claim
	if err := claim.FindByID(tx, claimID); err != nil {
		err = fmt.Errorf("failed to load claim %s for chat: %w", claimID, err)
		appErr := api.NewAppError(err, api.ErrorResourceNotFound, api.CategoryNotFound)
		if domain.IsOtherThanNoRows(err) {
			appErr.Category = api.CategoryInternal
		}
		return ChatRoom{}, appErr
	}

	if actor.ID != claim.ClaimantID && actor.ID != claim.OwnerID {
		err := fmt.Errorf("user %s is not a party to claim %s", actor.ID, claim.ID)
		return ChatRoom{}, api.NewAppError(err, api.ErrorChatNotParticipant, api.CategoryForbidden)
	}

	if claim.Status != api.ClaimStatusApproved {
		err := fmt.Errorf("claim %s is %s, chat requires an approved claim", claim.ID, claim.Status)
		return ChatRoom{}, api.NewAppError(err, api.ErrorChatNoApprovedClaim, api.CategoryForbidden)
	}

	var room ChatRoom
	found, err := room.FindByClaimID(tx, claim.ID)
	if err != nil {
		return ChatRoom{}, err
	}
	if found {
		return room, nil
	}

	room = ChatRoom{
		ClaimID:    claim.ID,
		AlertID:    claim.AlertID,
		ClaimantID: claim.ClaimantID,
		OwnerID:    claim.OwnerID,
	}
	if err := room.Create(tx); err != nil {
		return ChatRoom{}, err
	}
	return room, nil
}

// SendMessage appends a message to the room after re-checking chat access.
// A claim that has left Approved status since the room was opened revokes the
// ability to send, without hiding the existing history.
func (c *ChatRoom) SendMessage(tx *pop.Connection, sender User, body string) (ChatMessage, error) {
	if !c.HasParticipant(sender.ID) {
		err := fmt.Errorf("user %s is not a participant of chat room %s", sender.ID, c.ID)
		return ChatMessage{}, api.NewAppError(err, api.ErrorChatNotParticipant, api.CategoryForbidden)
	}

	body = strings.TrimSpace(body)
	if body == "" {
		err := errors.New("chat message body must not be empty")
		return ChatMessage{}, api.NewAppError(err, api.ErrorChatEmptyMessage, api.CategoryUser)
	}

	can, err := CanChat(tx, c.ClaimantID, c.OwnerID, c.AlertID)
	if err != nil {
		return ChatMessage{}, err
	}
	if !can {
		err := fmt.Errorf("no approved claim between the parties of room %s on alert %s, chat access has been revoked",
			c.ID, c.AlertID)
		return ChatMessage{}, api.NewAppError(err, api.ErrorChatAccessRevoked, api.CategoryForbidden)
	}

	message := ChatMessage{
		RoomID:   c.ID,
		SenderID: sender.ID,
		Body:     body,
	}
	if err := message.Create(tx); err != nil {
		return ChatMessage{}, err
	}
	return message, nil
}

func (c *ChatRoom) LoadMessages(tx *pop.Connection, reload bool) {
	if len(c.Messages) == 0 || reload {
		if err := tx.Load(c, "Messages"); err != nil {
			panic("database error loading ChatRoom.Messages, " + err.Error())
		}
	}
}

// AllForUser loads the rooms the user participates in, newest first
func (cs *ChatRooms) AllForUser(tx *pop.Connection, userID uuid.UUID) error {
	err := tx.Where("claimant_id = ? OR owner_id = ?", userID, userID).
		Order("updated_at desc").All(cs)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}

func (c *ChatRoom) ConvertToAPI(tx *pop.Connection, withMessages bool) api.ChatRoom {
	room := api.ChatRoom{
		ID:         c.ID,
		ClaimID:    c.ClaimID,
		AlertID:    c.AlertID,
		ClaimantID: c.ClaimantID,
		OwnerID:    c.OwnerID,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
	if withMessages {
		c.LoadMessages(tx, true)
		room.Messages = c.Messages.ConvertToAPI()
	}
	return room
}

func (cs ChatRooms) ConvertToAPI(tx *pop.Connection) api.ChatRooms {
	rooms := make(api.ChatRooms, len(cs))
	for i, c := range cs {
		rooms[i] = c.ConvertToAPI(tx, false)
	}
	return rooms
}
