package actions

import (
	"net/http"

	"github.com/gobuffalo/buffalo"

	"github.com/pawtrail/pawtrail-api/api"
	"github.com/pawtrail/pawtrail-api/domain"
	"github.com/pawtrail/pawtrail-api/models"
)

// swagger:operation GET /chats Chats ChatsList
//
// ChatsList
//
// list the chat rooms the current user participates in
//
// ---
// responses:
//   '200':
//     description: a list of ChatRooms
//     schema:
//       type: array
//       items:
//         "$ref": "#/definitions/ChatRoom"
func chatsList(c buffalo.Context) error {
	tx := models.Tx(c)
	user := models.CurrentUser(c)

	var rooms models.ChatRooms
	if err := rooms.AllForUser(tx, user.ID); err != nil {
		return reportError(c, err)
	}
	return renderOk(c, rooms.ConvertToAPI(tx))
}

// swagger:operation GET /chats/{id} Chats ChatsView
//
// ChatsView
//
// view a chat room with its message history. Participants keep read access
// even after the backing claim leaves Approved status.
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: chat room ID
// responses:
//   '200':
//     description: a ChatRoom with messages
//     schema:
//       "$ref": "#/definitions/ChatRoom"
func chatsView(c buffalo.Context) error {
	tx := models.Tx(c)
	room := getReferencedChatRoomFromCtx(c)
	return renderOk(c, room.ConvertToAPI(tx, true))
}

// swagger:operation POST /chats Chats ChatsOpen
//
// ChatsOpen
//
// open the chat room for a claim, creating it if it does not exist yet. The
// claim must currently be Approved and the current user must be one of its
// parties.
//
// ---
// parameters:
//   - name: chat room input
//     in: body
//     description: chat room open input object
//     required: true
//     schema:
//       "$ref": "#/definitions/ChatRoomOpenInput"
// responses:
//   '201':
//     description: the ChatRoom
//     schema:
//       "$ref": "#/definitions/ChatRoom"
func chatsOpen(c buffalo.Context) error {
	var input api.ChatRoomOpenInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	tx := models.Tx(c)
	room, err := models.OpenChatRoom(tx, models.CurrentUser(c), input.ClaimID)
	if err != nil {
		return reportError(c, err)
	}

	return c.Render(http.StatusCreated, r.JSON(room.ConvertToAPI(tx, true)))
}

// swagger:operation POST /chats/{id}/messages Chats ChatsMessagesCreate
//
// ChatsMessagesCreate
//
// send a message in a chat room. Access is re-checked on every send, so a
// claim that has left Approved status since the room was opened causes the
// send to fail while the history stays readable.
//
// ---
// parameters:
//   - name: id
//     in: path
//     required: true
//     description: chat room ID
//   - name: chat message input
//     in: body
//     description: chat message create input object
//     required: true
//     schema:
//       "$ref": "#/definitions/ChatMessageCreateInput"
// responses:
//   '201':
//     description: the new ChatMessage
//     schema:
//       "$ref": "#/definitions/ChatMessage"
func chatsMessagesCreate(c buffalo.Context) error {
	var input api.ChatMessageCreateInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	tx := models.Tx(c)
	room := getReferencedChatRoomFromCtx(c)

	message, err := room.SendMessage(tx, models.CurrentUser(c), input.Body)
	if err != nil {
		return reportError(c, err)
	}

	return c.Render(http.StatusCreated, r.JSON(message.ConvertToAPI()))
}

// getReferencedChatRoomFromCtx pulls the models.ChatRoom resource from context that was put
// there by the AuthZ middleware
func getReferencedChatRoomFromCtx(c buffalo.Context) *models.ChatRoom {
	room, ok := c.Value(domain.TypeChatRoom).(*models.ChatRoom)
	if !ok {
		panic("chat room not found in context")
	}
	return room
}
