package grifts

import (
	"fmt"
	"time"

	"github.com/gobuffalo/grift/grift"
	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"

	"github.com/pawtrail/pawtrail-api/api"
	"github.com/pawtrail/pawtrail-api/models"
)

var _ = grift.Namespace("db", func() {
	grift.Desc("seed", "Seeds a database")
	_ = grift.Add("seed", func(c *grift.Context) error {
		countUsers := models.Users{}
		count, err := models.DB.Count(countUsers)
		if err != nil {
			return err
		}

		if count > 1 {
			fmt.Printf("\nINFO: It appears that the grifts have already been run, "+
				"since there are already %v users.\n", count)
			return nil
		}

		return models.DB.Transaction(func(tx *pop.Connection) error {
			fixUsers, err := createUserFixtures(tx)
			if err != nil {
				return err
			}

			fixAlerts, err := createAlertFixtures(tx, fixUsers)
			if err != nil {
				return err
			}

			return createClaimFixtures(tx, fixUsers, fixAlerts)
		})
	})
})

func createUserFixtures(tx *pop.Connection) ([]*models.User, error) {
	fixUsers := []*models.User{
		{
			Email:        "clark.kent@example.org",
			FirstName:    "Clark",
			LastName:     "Kent",
			LastLoginUTC: time.Now().UTC().Add(time.Hour * -48),
			AppRole:      api.UserAppRoleAdmin,
		},
		{
			Email:        "jane.eyre@example.org",
			FirstName:    "Jane",
			LastName:     "Eyre",
			LastLoginUTC: time.Now().UTC().Add(time.Hour * -36),
			AppRole:      api.UserAppRoleUser,
		},
		{
			Email:        "john.watson@example.org",
			FirstName:    "John",
			LastName:     "Watson",
			LastLoginUTC: time.Now().UTC().Add(time.Hour * -24),
			AppRole:      api.UserAppRoleUser,
		},
		{
			Email:        "carol.danvers@example.org",
			FirstName:    "Carol",
			LastName:     "Danvers",
			LastLoginUTC: time.Now().UTC().Add(time.Hour * -12),
			AppRole:      api.UserAppRoleUser,
		},
	}

	for _, u := range fixUsers {
		if err := u.Create(tx); err != nil {
			return nil, fmt.Errorf("error creating user fixture %s: %w", u.Email, err)
		}
	}

	return fixUsers, nil
}

func createAlertFixtures(tx *pop.Connection, users []*models.User) ([]*models.Alert, error) {
	fixAlerts := []*models.Alert{
		{
			OwnerID:          users[1].ID,
			Type:             api.AlertTypeLost,
			Status:           api.AlertStatusActive,
			PetName:          "Pilot",
			Species:          "dog",
			Breed:            "landseer",
			Description:      "Large black and white dog, red collar, answers to Pilot.",
			LastSeenLocation: "Thornfield park, north gate",
		},
		{
			OwnerID:          users[2].ID,
			Type:             api.AlertTypeFound,
			Status:           api.AlertStatusActive,
			Species:          "cat",
			Breed:            "tabby",
			Description:      "Friendly brown tabby found near Baker Street, no collar.",
			LastSeenLocation: "Baker Street station",
		},
		{
			OwnerID:          users[3].ID,
			Type:             api.AlertTypeLost,
			Status:           api.AlertStatusActive,
			PetName:          "Goose",
			Species:          "cat",
			Breed:            "orange shorthair",
			Description:      "Orange cat, unusually self-possessed, microchipped.",
			LastSeenLocation: "Harbor district",
		},
	}

	for _, a := range fixAlerts {
		if err := a.Create(tx); err != nil {
			return nil, fmt.Errorf("error creating alert fixture for %s: %w", a.Species, err)
		}
	}

	return fixAlerts, nil
}

func createClaimFixtures(tx *pop.Connection, users []*models.User, alerts []*models.Alert) error {
	claims := []*models.Claim{
		{
			AlertID:     alerts[0].ID,
			AlertType:   alerts[0].Type,
			ClaimantID:  users[2].ID,
			OwnerID:     alerts[0].OwnerID,
			Status:      api.ClaimStatusPending,
			PetFeatures: "White blaze on the chest, torn left ear, red leather collar with brass tag.",
		},
		{
			AlertID:      alerts[2].ID,
			AlertType:    alerts[2].Type,
			ClaimantID:   users[1].ID,
			OwnerID:      alerts[2].OwnerID,
			Status:       api.ClaimStatusApproved,
			PetFeatures:  "Chip number matches, scar above right eye from a kitten-hood scrape.",
			StatusReason: nulls.NewString("chip number verified"),
			ReviewedAt:   nulls.NewTime(time.Now().UTC()),
		},
	}

	for _, cl := range claims {
		if err := cl.Create(tx); err != nil {
			return fmt.Errorf("error creating claim fixture on alert %s: %w", cl.AlertID, err)
		}
	}

	// open a chat room on the approved claim
	room := models.ChatRoom{
		ClaimID:    claims[1].ID,
		AlertID:    claims[1].AlertID,
		ClaimantID: claims[1].ClaimantID,
		OwnerID:    claims[1].OwnerID,
	}
	if err := room.Create(tx); err != nil {
		return fmt.Errorf("error creating chat room fixture: %w", err)
	}

	messages := []models.ChatMessage{
		{RoomID: room.ID, SenderID: room.ClaimantID, Body: "Hi! I think you found my cat Goose."},
		{RoomID: room.ID, SenderID: room.OwnerID, Body: "The chip scan matches - when can you pick him up?"},
	}
	for i := range messages {
		if err := messages[i].Create(tx); err != nil {
			return fmt.Errorf("error creating chat message fixture: %w", err)
		}
	}

	return nil
}
