package models

import (
	"testing"

	"github.com/pawtrail/pawtrail-api/api"
	"github.com/pawtrail/pawtrail-api/domain"
)

func (ms *ModelSuite) TestAlert_Validate() {
	tests := []struct {
		name     string
		alert    *Alert
		errField string
		wantErr  bool
	}{
		{
			name:     "empty struct",
			alert:    &Alert{},
			errField: "Alert.Type",
			wantErr:  true,
		},
		{
			name: "valid",
			alert: &Alert{
				OwnerID:     domain.GetUUID(),
				Type:        api.AlertTypeFound,
				Status:      api.AlertStatusActive,
				Species:     "cat",
				Description: "orange tabby found near the park",
			},
			errField: "",
			wantErr:  false,
		},
	}
	for _, tt := range tests {
		ms.T().Run(tt.name, func(t *testing.T) {
			vErr, _ := tt.alert.Validate(DB)
			if tt.wantErr {
				if vErr.Count() == 0 {
					t.Errorf("Expected an error, but did not get one")
				} else if len(vErr.Get(tt.errField)) == 0 {
					t.Errorf("Expected an error on field %v, but got none (errors: %+v)", tt.errField, vErr.Errors)
				}
			} else if vErr.HasAny() {
				t.Errorf("Unexpected error: %+v", vErr)
			}
		})
	}
}

func (ms *ModelSuite) TestNewAlertFromInput() {
	ownerID := domain.GetUUID()

	_, err := NewAlertFromInput(api.AlertCreateInput{Type: "MISSING"}, ownerID)
	ms.EqualAppError(api.AppError{
		Key:      api.ErrorAlertInvalidType,
		Category: api.CategoryUser,
	}, err)

	alert, err := NewAlertFromInput(api.AlertCreateInput{
		Type:        api.AlertTypeLost,
		PetName:     "Biscuit",
		Species:     "dog",
		Description: "brown terrier, red collar",
	}, ownerID)
	ms.NoError(err)
	ms.Equal(ownerID, alert.OwnerID)
	ms.Equal(api.AlertStatusActive, alert.Status)
}

func (ms *ModelSuite) TestAlert_MarkResolved() {
	owner := CreateUserFixtures(ms.DB, 1).Users[0]
	alert := CreateAlertFixtures(ms.DB, owner, 1).Alerts[0]

	ms.NoError(alert.MarkResolved(ms.DB, "reunited"))
	ms.Equal(api.AlertStatusResolved, alert.Status)
	ms.Equal("reunited", alert.ResolutionNote.String)
	ms.True(alert.ResolvedAt.Valid)

	err := alert.MarkResolved(ms.DB, "again")
	ms.EqualAppError(api.AppError{
		Key:      api.ErrorAlertStatus,
		Category: api.CategoryConflict,
	}, err)
}
