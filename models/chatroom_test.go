package models

import (
	"testing"

	"github.com/pawtrail/pawtrail-api/api"
)

func (ms *ModelSuite) TestOpenChatRoom() {
	t := ms.T()

	users := CreateUserFixtures(ms.DB, 3).Users
	owner, claimant, stranger := users[0], users[1], users[2]

	alerts := CreateAlertFixtures(ms.DB, owner, 2).Alerts
	approved := CreateClaimFixtures(ms.DB, claimant, alerts[0], api.ClaimStatusApproved).Claims[0]
	pending := CreateClaimFixtures(ms.DB, claimant, alerts[1], api.ClaimStatusPending).Claims[0]

	tests := []struct {
		name       string
		actor      User
		claim      Claim
		wantErrKey api.ErrorKey
		wantErrCat api.ErrorCategory
	}{
		{
			name:       "pending claim does not open chat",
			actor:      claimant,
			claim:      pending,
			wantErrKey: api.ErrorChatNoApprovedClaim,
			wantErrCat: api.CategoryForbidden,
		},
		{
			name:       "stranger may not open chat",
			actor:      stranger,
			claim:      approved,
			wantErrKey: api.ErrorChatNotParticipant,
			wantErrCat: api.CategoryForbidden,
		},
		{
			name:  "claimant opens chat on approved claim",
			actor: claimant,
			claim: approved,
		},
		{
			name:  "owner opens chat on approved claim",
			actor: owner,
			claim: approved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room, err := OpenChatRoom(ms.DB, tt.actor, tt.claim.ID)

			if tt.wantErrKey != "" {
				ms.Error(err, "did not return expected error")
				ms.EqualAppError(api.AppError{Key: tt.wantErrKey, Category: tt.wantErrCat}, err)
				return
			}
			ms.NoError(err)

			ms.Equal(tt.claim.ID, room.ClaimID)
			ms.Equal(tt.claim.ClaimantID, room.ClaimantID)
			ms.Equal(tt.claim.OwnerID, room.OwnerID)
		})
	}

	// opening twice returns the same room
	room1, err := OpenChatRoom(ms.DB, claimant, approved.ID)
	ms.NoError(err)
	room2, err := OpenChatRoom(ms.DB, owner, approved.ID)
	ms.NoError(err)
	ms.Equal(room1.ID, room2.ID, "second open created a new room")
}

func (ms *ModelSuite) TestChatRoom_SendMessage() {
	f := CreateChatFixtures(ms.DB)
	owner, claimant := f.Users[0], f.Users[1]
	claim := f.Claims[0]
	room := f.ChatRooms[0]

	stranger := CreateUserFixtures(ms.DB, 1).Users[0]

	msg, err := room.SendMessage(ms.DB, claimant, "is this my dog?")
	ms.NoError(err)
	ms.Equal(claimant.ID, msg.SenderID)

	_, err = room.SendMessage(ms.DB, owner, "  looks like it  ")
	ms.NoError(err)

	_, err = room.SendMessage(ms.DB, stranger, "hello")
	ms.EqualAppError(api.AppError{
		Key:      api.ErrorChatNotParticipant,
		Category: api.CategoryForbidden,
	}, err)

	_, err = room.SendMessage(ms.DB, claimant, "   ")
	ms.EqualAppError(api.AppError{
		Key:      api.ErrorChatEmptyMessage,
		Category: api.CategoryUser,
	}, err)

	// cancelling the claim revokes the ability to send
	ms.NoError(claim.Transition(ms.DB, owner, api.ClaimStatusInput{
		TargetStatus: api.ClaimStatusCancelled,
	}))

	_, err = room.SendMessage(ms.DB, claimant, "are you still there?")
	ms.EqualAppError(api.AppError{
		Key:      api.ErrorChatAccessRevoked,
		Category: api.CategoryForbidden,
	}, err)

	// history is still readable after revocation
	room.LoadMessages(ms.DB, true)
	ms.Len(room.Messages, 2, "history should survive revocation")
}

func (ms *ModelSuite) TestCanChat() {
	users := CreateUserFixtures(ms.DB, 3).Users
	owner, claimant, stranger := users[0], users[1], users[2]

	alerts := CreateAlertFixtures(ms.DB, owner, 2).Alerts
	claim := CreateClaimFixtures(ms.DB, claimant, alerts[0], api.ClaimStatusApproved).Claims[0]

	// order of the pair does not matter
	can, err := CanChat(ms.DB, owner.ID, claimant.ID, alerts[0].ID)
	ms.NoError(err)
	ms.True(can)

	can, err = CanChat(ms.DB, claimant.ID, owner.ID, alerts[0].ID)
	ms.NoError(err)
	ms.True(can)

	can, err = CanChat(ms.DB, owner.ID, stranger.ID, alerts[0].ID)
	ms.NoError(err)
	ms.False(can)

	// the claim on one alert does not open chat about another
	can, err = CanChat(ms.DB, owner.ID, claimant.ID, alerts[1].ID)
	ms.NoError(err)
	ms.False(can, "approved claim on a different alert should not grant chat access")

	ms.NoError(claim.Transition(ms.DB, claimant, api.ClaimStatusInput{
		TargetStatus: api.ClaimStatusCancelled,
	}))

	can, err = CanChat(ms.DB, owner.ID, claimant.ID, alerts[0].ID)
	ms.NoError(err)
	ms.False(can, "cancelled claim should not grant chat access")
}
