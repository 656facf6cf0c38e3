package actions

import (
	"net/http"
	"testing"

	"github.com/pawtrail/pawtrail-api/api"
	"github.com/pawtrail/pawtrail-api/models"
)

func (as *ActionSuite) Test_AlertsCreate() {
	user := models.CreateUserFixtures(as.DB, 1).Users[0]

	tests := []struct {
		name       string
		input      api.AlertCreateInput
		wantStatus int
		wantInBody string
	}{
		{
			name: "invalid type",
			input: api.AlertCreateInput{
				Type:        "MISSING",
				Species:     "dog",
				Description: "ran off during a storm",
			},
			wantStatus: http.StatusBadRequest,
			wantInBody: string(api.ErrorAlertInvalidType),
		},
		{
			name: "good input",
			input: api.AlertCreateInput{
				Type:             api.AlertTypeLost,
				PetName:          "Pilot",
				Species:          "dog",
				Breed:            "landseer",
				Description:      "large black and white dog, red collar",
				LastSeenLocation: "Thornfield park",
			},
			wantStatus: http.StatusCreated,
			wantInBody: "Pilot",
		},
	}

	for _, tt := range tests {
		as.T().Run(tt.name, func(t *testing.T) {
			res := as.request(http.MethodPost, "/alerts", user, tt.input)

			body := res.Body.String()
			as.Equal(tt.wantStatus, res.Code, "incorrect status code returned, body: %s", body)
			as.Contains(body, tt.wantInBody)

			if res.Code != http.StatusCreated {
				return
			}
			var alert api.Alert
			as.NoError(as.decodeBody(res.Body.Bytes(), &alert))
			as.Equal(api.AlertStatusActive, alert.Status)
			as.Equal(user.ID, alert.OwnerID)
		})
	}
}

func (as *ActionSuite) Test_AlertsList() {
	fixtures := models.CreateUserFixtures(as.DB, 2)
	owner, other := fixtures.Users[0], fixtures.Users[1]

	alerts := models.CreateAlertFixtures(as.DB, owner, 2).Alerts
	as.NoError(alerts[1].MarkResolved(as.DB, "came home on its own"))

	// active alerts only
	res := as.request(http.MethodGet, "/alerts", other, nil)
	as.Equal(http.StatusOK, res.Code)

	var got api.Alerts
	as.NoError(as.decodeBody(res.Body.Bytes(), &got))
	as.Len(got, 1)
	as.Equal(alerts[0].ID, got[0].ID)

	// mine includes resolved ones
	res = as.request(http.MethodGet, "/alerts?mine=true", owner, nil)
	as.Equal(http.StatusOK, res.Code)

	got = api.Alerts{}
	as.NoError(as.decodeBody(res.Body.Bytes(), &got))
	as.Len(got, 2)

	res = as.request(http.MethodGet, "/alerts?mine=true", other, nil)
	as.Equal(http.StatusOK, res.Code)

	got = api.Alerts{}
	as.NoError(as.decodeBody(res.Body.Bytes(), &got))
	as.Len(got, 0)
}

func (as *ActionSuite) Test_AlertsView() {
	fixtures := models.CreateUserFixtures(as.DB, 2)
	owner, other := fixtures.Users[0], fixtures.Users[1]

	alert := models.CreateAlertFixtures(as.DB, owner, 1).Alerts[0]

	res := as.request(http.MethodGet, "/alerts/"+alert.ID.String(), other, nil)
	as.Equal(http.StatusOK, res.Code, "body: %s", res.Body.String())
	as.Contains(res.Body.String(), alert.ID.String())
}

func (as *ActionSuite) Test_AlertsResolve() {
	fixtures := models.CreateUserFixtures(as.DB, 2)
	owner, other := fixtures.Users[0], fixtures.Users[1]

	alert := models.CreateAlertFixtures(as.DB, owner, 1).Alerts[0]
	path := "/alerts/" + alert.ID.String() + "/resolve"

	res := as.request(http.MethodPost, path, other, api.AlertResolveInput{})
	as.Equal(http.StatusForbidden, res.Code, "non-owner was not rejected, body: %s", res.Body.String())

	res = as.request(http.MethodPost, path, owner, api.AlertResolveInput{ResolutionNote: "reunited at the park"})
	as.Equal(http.StatusOK, res.Code, "body: %s", res.Body.String())

	var got api.Alert
	as.NoError(as.decodeBody(res.Body.Bytes(), &got))
	as.Equal(api.AlertStatusResolved, got.Status)
	as.Equal("reunited at the park", got.ResolutionNote)

	res = as.request(http.MethodPost, path, owner, api.AlertResolveInput{ResolutionNote: "again"})
	as.Equal(http.StatusConflict, res.Code, "double resolve was not rejected, body: %s", res.Body.String())
	as.Contains(res.Body.String(), string(api.ErrorAlertStatus))
}
