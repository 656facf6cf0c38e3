package models

import (
	"github.com/pawtrail/pawtrail-api/api"
)

func (ms *ModelSuite) TestUser_ClaimLists() {
	users := CreateUserFixtures(ms.DB, 2).Users
	owner, claimant := users[0], users[1]

	alerts := CreateAlertFixtures(ms.DB, owner, 2).Alerts
	CreateClaimFixtures(ms.DB, claimant, alerts[0], api.ClaimStatusPending)
	CreateClaimFixtures(ms.DB, claimant, alerts[1], api.ClaimStatusApproved)

	ms.Len(claimant.MyClaims(ms.DB), 2, "incorrect number of sent claims")
	ms.Len(claimant.ReceivedClaims(ms.DB), 0)

	ms.Len(owner.MyClaims(ms.DB), 0)
	ms.Len(owner.ReceivedClaims(ms.DB), 2, "incorrect number of received claims")
}

func (ms *ModelSuite) TestUser_CreateAccessToken() {
	user := CreateUserFixtures(ms.DB, 1).Users[0]

	uat, err := user.CreateAccessToken(ms.DB)
	ms.NoError(err)
	ms.NotEmpty(uat.AccessToken, "plain token not returned")
	ms.Equal(HashClientIdAccessToken(uat.AccessToken), uat.TokenHash, "stored hash does not match token")

	var found UserAccessToken
	appErr := found.FindByBearerToken(ms.DB, uat.AccessToken)
	ms.Nil(appErr)
	ms.Equal(user.ID, found.UserID)
}

func (ms *ModelSuite) TestUser_IsAdmin() {
	user := User{AppRole: api.UserAppRoleUser}
	ms.False(user.IsAdmin())

	user.AppRole = api.UserAppRoleAdmin
	ms.True(user.IsAdmin())
}
