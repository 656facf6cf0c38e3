package models

import (
	"time"

	"github.com/pawtrail/pawtrail-api/api"
)

func (ms *ModelSuite) TestUserAccessToken_DeleteIfExpired() {
	f := CreateUserFixtures(ms.DB, 2)

	fresh := f.UserAccessTokens[0]

	expired := f.UserAccessTokens[1]
	expired.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	ms.NoError(expired.Update(ms.DB))

	gotDeleted, err := fresh.DeleteIfExpired(ms.DB)
	ms.NoError(err)
	ms.False(gotDeleted, "unexpired token was deleted")

	gotDeleted, err = expired.DeleteIfExpired(ms.DB)
	ms.NoError(err)
	ms.True(gotDeleted, "expired token was not deleted")

	var found UserAccessToken
	appErr := found.FindByBearerToken(ms.DB, f.Users[1].Email)
	ms.NotNil(appErr, "expired token should not be found")
	ms.Equal(api.CategoryUnauthorized, appErr.Category)
}
