package actions

import (
	"errors"

	"github.com/gobuffalo/buffalo"

	"github.com/pawtrail/pawtrail-api/api"
	"github.com/pawtrail/pawtrail-api/domain"
	"github.com/pawtrail/pawtrail-api/models"
)

// swagger:operation GET /users Users UsersList
//
// UsersList
//
// list all users (admin only)
//
// ---
// responses:
//   '200':
//     description: a list of Users
//     schema:
//       type: array
//       items:
//         "$ref": "#/definitions/User"
func usersList(c buffalo.Context) error {
	user := models.CurrentUser(c)
	if !user.IsAdmin() {
		err := errors.New("only admins may list users")
		return reportError(c, api.NewAppError(err, api.ErrorNotAuthorized, api.CategoryForbidden))
	}

	var users models.Users
	if err := users.All(models.Tx(c)); err != nil {
		return reportError(c, err)
	}
	return renderOk(c, users.ConvertToAPI())
}

// swagger:operation GET /users/{id} Users UsersView
//
// UsersView
//
// view a specific user
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: user ID
// responses:
//   '200':
//     description: a User
//     schema:
//       "$ref": "#/definitions/User"
func usersView(c buffalo.Context) error {
	user := getReferencedUserFromCtx(c)
	if user == nil {
		err := errors.New("user not found in context")
		return reportError(c, api.NewAppError(err, api.ErrorUnknown, api.CategoryInternal))
	}
	return renderOk(c, user.ConvertToAPI())
}

// swagger:operation GET /users/me Users UsersMe
//
// UsersMe
//
// view the authenticated user
//
// ---
// responses:
//   '200':
//     description: a User
//     schema:
//       "$ref": "#/definitions/User"
func usersMe(c buffalo.Context) error {
	user := models.CurrentUser(c)
	return renderOk(c, user.ConvertToAPI())
}

// getReferencedUserFromCtx pulls the models.User resource from context that was put there
// by the AuthZ middleware based on a url pattern of /users/{id}. This is NOT the authenticated
// API caller
func getReferencedUserFromCtx(c buffalo.Context) *models.User {
	user, ok := c.Value(domain.TypeUser).(*models.User)
	if !ok {
		return nil
	}
	return user
}
