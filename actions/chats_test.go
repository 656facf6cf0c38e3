package actions

import (
	"net/http"
	"testing"

	"github.com/pawtrail/pawtrail-api/api"
	"github.com/pawtrail/pawtrail-api/models"
)

func (as *ActionSuite) Test_ChatsOpen() {
	fixtures := models.CreateUserFixtures(as.DB, 3)
	owner, claimant, stranger := fixtures.Users[0], fixtures.Users[1], fixtures.Users[2]

	alerts := models.CreateAlertFixtures(as.DB, owner, 2).Alerts
	pendingClaim := models.CreateClaimFixtures(as.DB, claimant, alerts[0], api.ClaimStatusPending).Claims[0]
	approvedClaim := models.CreateClaimFixtures(as.DB, claimant, alerts[1], api.ClaimStatusApproved).Claims[0]

	tests := []struct {
		name       string
		actor      models.User
		claim      models.Claim
		wantStatus int
		wantInBody string
	}{
		{
			name:       "pending claim does not open a chat",
			actor:      claimant,
			claim:      pendingClaim,
			wantStatus: http.StatusForbidden,
			wantInBody: string(api.ErrorChatNoApprovedClaim),
		},
		{
			name:       "stranger is not a participant",
			actor:      stranger,
			claim:      approvedClaim,
			wantStatus: http.StatusForbidden,
			wantInBody: string(api.ErrorChatNotParticipant),
		},
		{
			name:       "claimant opens the room",
			actor:      claimant,
			claim:      approvedClaim,
			wantStatus: http.StatusCreated,
			wantInBody: approvedClaim.ID.String(),
		},
		{
			name:       "owner gets the same room",
			actor:      owner,
			claim:      approvedClaim,
			wantStatus: http.StatusCreated,
			wantInBody: approvedClaim.ID.String(),
		},
	}

	var firstRoomID string
	for _, tt := range tests {
		as.T().Run(tt.name, func(t *testing.T) {
			input := api.ChatRoomOpenInput{ClaimID: tt.claim.ID}
			res := as.request(http.MethodPost, "/chats", tt.actor, input)

			body := res.Body.String()
			as.Equal(tt.wantStatus, res.Code, "incorrect status code returned, body: %s", body)
			as.Contains(body, tt.wantInBody)

			if res.Code != http.StatusCreated {
				return
			}
			var room api.ChatRoom
			as.NoError(as.decodeBody(res.Body.Bytes(), &room))
			if firstRoomID == "" {
				firstRoomID = room.ID.String()
			} else {
				as.Equal(firstRoomID, room.ID.String(), "expected one room per claim")
			}
		})
	}
}

func (as *ActionSuite) Test_ChatsMessagesCreate() {
	fixtures := models.CreateChatFixtures(as.DB)
	owner, claimant := fixtures.Users[0], fixtures.Users[1]
	room := fixtures.ChatRooms[0]
	claim := fixtures.Claims[0]

	stranger := models.CreateUserFixtures(as.DB, 1).Users[0]

	path := "/chats/" + room.ID.String() + "/messages"

	res := as.request(http.MethodPost, path, claimant, api.ChatMessageCreateInput{Body: "I think that's my dog!"})
	as.Equal(http.StatusCreated, res.Code, "claimant message failed, body: %s", res.Body.String())

	res = as.request(http.MethodPost, path, owner, api.ChatMessageCreateInput{Body: "Can you describe the collar?"})
	as.Equal(http.StatusCreated, res.Code, "owner message failed, body: %s", res.Body.String())

	res = as.request(http.MethodPost, path, stranger, api.ChatMessageCreateInput{Body: "hello"})
	as.Equal(http.StatusForbidden, res.Code, "stranger was not rejected, body: %s", res.Body.String())

	res = as.request(http.MethodPost, path, claimant, api.ChatMessageCreateInput{Body: "   "})
	as.Equal(http.StatusBadRequest, res.Code, "blank message was not rejected, body: %s", res.Body.String())
	as.Contains(res.Body.String(), string(api.ErrorChatEmptyMessage))

	// cancelling the claim revokes the ability to send
	as.NoError(claim.Transition(as.DB, owner, api.ClaimStatusInput{TargetStatus: api.ClaimStatusCancelled}))

	res = as.request(http.MethodPost, path, claimant, api.ChatMessageCreateInput{Body: "are you still there?"})
	as.Equal(http.StatusForbidden, res.Code, "revoked sender was not rejected, body: %s", res.Body.String())
	as.Contains(res.Body.String(), string(api.ErrorChatAccessRevoked))

	// the history stays readable after revocation
	res = as.request(http.MethodGet, "/chats/"+room.ID.String(), claimant, nil)
	as.Equal(http.StatusOK, res.Code, "history read failed, body: %s", res.Body.String())

	var got api.ChatRoom
	as.NoError(as.decodeBody(res.Body.Bytes(), &got))
	as.Len(got.Messages, 2)
}

func (as *ActionSuite) Test_ChatsList() {
	fixtures := models.CreateChatFixtures(as.DB)
	claimant := fixtures.Users[1]
	room := fixtures.ChatRooms[0]

	stranger := models.CreateUserFixtures(as.DB, 1).Users[0]

	res := as.request(http.MethodGet, "/chats", claimant, nil)
	as.Equal(http.StatusOK, res.Code)

	var rooms api.ChatRooms
	as.NoError(as.decodeBody(res.Body.Bytes(), &rooms))
	as.Len(rooms, 1)
	as.Equal(room.ID, rooms[0].ID)

	res = as.request(http.MethodGet, "/chats", stranger, nil)
	as.Equal(http.StatusOK, res.Code)

	rooms = api.ChatRooms{}
	as.NoError(as.decodeBody(res.Body.Bytes(), &rooms))
	as.Len(rooms, 0)
}

func (as *ActionSuite) Test_ChatsView() {
	fixtures := models.CreateChatFixtures(as.DB)
	owner := fixtures.Users[0]
	room := fixtures.ChatRooms[0]

	stranger := models.CreateUserFixtures(as.DB, 1).Users[0]

	res := as.request(http.MethodGet, "/chats/"+room.ID.String(), owner, nil)
	as.Equal(http.StatusOK, res.Code, "body: %s", res.Body.String())
	as.Contains(res.Body.String(), room.ID.String())

	res = as.request(http.MethodGet, "/chats/"+room.ID.String(), stranger, nil)
	as.Equal(http.StatusForbidden, res.Code, "body: %s", res.Body.String())
}
