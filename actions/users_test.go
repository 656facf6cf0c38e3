package actions

import (
	"net/http"

	"github.com/pawtrail/pawtrail-api/api"
	"github.com/pawtrail/pawtrail-api/models"
)

func (as *ActionSuite) Test_UsersMe() {
	user := models.CreateUserFixtures(as.DB, 1).Users[0]

	res := as.request(http.MethodGet, "/users/me", user, nil)
	as.Equal(http.StatusOK, res.Code, "body: %s", res.Body.String())

	var got api.User
	as.NoError(as.decodeBody(res.Body.Bytes(), &got))
	as.Equal(user.ID, got.ID)
	as.Equal(user.Email, got.Email)
}

func (as *ActionSuite) Test_UsersList() {
	fixtures := models.CreateUserFixtures(as.DB, 2)
	admin, user := fixtures.Users[0], fixtures.Users[1]

	admin.AppRole = api.UserAppRoleAdmin
	as.NoError(admin.Update(as.DB))

	res := as.request(http.MethodGet, "/users", user, nil)
	as.Equal(http.StatusForbidden, res.Code, "non-admin was not rejected, body: %s", res.Body.String())

	res = as.request(http.MethodGet, "/users", admin, nil)
	as.Equal(http.StatusOK, res.Code, "body: %s", res.Body.String())

	var got api.Users
	as.NoError(as.decodeBody(res.Body.Bytes(), &got))
	as.Len(got, 2)
}

func (as *ActionSuite) Test_UsersView() {
	fixtures := models.CreateUserFixtures(as.DB, 2)
	user, other := fixtures.Users[0], fixtures.Users[1]

	res := as.request(http.MethodGet, "/users/"+other.ID.String(), user, nil)
	as.Equal(http.StatusOK, res.Code, "body: %s", res.Body.String())
	as.Contains(res.Body.String(), other.ID.String())
}

func (as *ActionSuite) Test_AuthnRequired() {
	req := as.JSON("/users/me")
	req.Headers["content-type"] = "application/json"
	res := req.Get()

	as.Equal(http.StatusUnauthorized, res.Code, "body: %s", res.Body.String())
	as.Contains(res.Body.String(), string(api.ErrorNotAuthorized))
}
