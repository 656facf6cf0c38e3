package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gobuffalo/buffalo"
	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gofrs/uuid"

	"github.com/pawtrail/pawtrail-api/api"
	"github.com/pawtrail/pawtrail-api/domain"
	"github.com/pawtrail/pawtrail-api/storage"
)

// Fixtures hold slices of model objects created for test fixtures
type Fixtures struct {
	Alerts
	ChatMessages
	ChatRooms
	ClaimFiles
	Claims
	Files
	UserAccessTokens
	Users
}

// TestBuffaloContext is a buffalo context user in tests
type TestBuffaloContext struct {
	buffalo.DefaultContext
	params map[any]any
}

// Value returns the value associated with the given key in the test context
func (b *TestBuffaloContext) Value(key any) any {
	return b.params[key]
}

// Set sets the value to be associated with the given key in the test context
func (b *TestBuffaloContext) Set(key string, val any) {
	b.params[key] = val
}

// CreateTestContext sets the domain.ContextKeyCurrentUser to the user param in the TestBuffaloContext
func CreateTestContext(user User) buffalo.Context {
	ctx := &TestBuffaloContext{
		params: map[any]any{},
	}
	ctx.Set(domain.ContextKeyCurrentUser, user)
	return ctx
}

// CreateUserFixtures generates any number of user records for testing. The access token for
// each user is the same as the user's Email.
func CreateUserFixtures(tx *pop.Connection, n int) Fixtures {
	unique := domain.GetUUID().String()

	users := make(Users, n)
	accessTokenFixtures := make(UserAccessTokens, n)
	for i := range users {
		users[i].Email = fmt.Sprintf("user%d_%s@example.com", i, unique)
		iStr := strconv.Itoa(i)
		users[i].FirstName = "first" + iStr
		users[i].LastName = "last" + iStr
		users[i].LastLoginUTC = time.Now()
		users[i].AppRole = api.UserAppRoleUser
		MustCreate(tx, &users[i])

		accessTokenFixtures[i].UserID = users[i].ID
		accessTokenFixtures[i].TokenHash = HashClientIdAccessToken(users[i].Email)
		accessTokenFixtures[i].ExpiresAt = time.Now().UTC().Add(time.Minute * 60)
		accessTokenFixtures[i].LastUsedAt = nulls.NewTime(time.Now())
		MustCreate(tx, &accessTokenFixtures[i])
	}

	return Fixtures{
		Users:            users,
		UserAccessTokens: accessTokenFixtures,
	}
}

// CreateFileFixtures generates any number of file records for testing
// all owned by the same user.
func CreateFileFixtures(tx *pop.Connection, n int, createdByID uuid.UUID) Fixtures {
	_ = storage.CreateS3Bucket()
	files := make(Files, n)
	for i := range files {
		f := File{
			Content:     []byte("GIF87a"),
			Name:        fmt.Sprintf("file_%d.gif", i),
			CreatedByID: createdByID,
		}
		if err := f.Store(tx); err != nil {
			panic(fmt.Sprintf("failed to create file fixture, %s", err))
		}
		files[i] = f
	}

	return Fixtures{
		Files: files,
	}
}

// CreateAlertFixtures generates any number of active alert records owned by the given user
func CreateAlertFixtures(tx *pop.Connection, owner User, n int) Fixtures {
	alerts := make(Alerts, n)
	for i := range alerts {
		alerts[i] = Alert{
			OwnerID:          owner.ID,
			Type:             api.AlertTypeLost,
			Status:           api.AlertStatusActive,
			PetName:          domain.RandomString(8, ""),
			Species:          "dog",
			Breed:            domain.RandomString(10, ""),
			Description:      domain.RandomString(40, ""),
			LastSeenLocation: domain.RandomString(20, ""),
		}
		MustCreate(tx, &alerts[i])
	}

	return Fixtures{
		Alerts: alerts,
	}
}

// CreateClaimFixtures generates a claim in the given status between the
// claimant and the alert's owner, with one verification file attached.
func CreateClaimFixtures(tx *pop.Connection, claimant User, alert Alert, status api.ClaimStatus) Fixtures {
	claim := Claim{
		AlertID:     alert.ID,
		AlertType:   alert.Type,
		ClaimantID:  claimant.ID,
		OwnerID:     alert.OwnerID,
		Status:      status,
		PetFeatures: domain.RandomString(40, ""),
	}
	MustCreate(tx, &claim)

	files := CreateFileFixtures(tx, 1, claimant.ID).Files
	claimFile, err := claim.AttachFile(tx, files[0].ID)
	if err != nil {
		panic(fmt.Sprintf("failed to attach file to claim fixture, %s", err))
	}

	return Fixtures{
		Claims:     Claims{claim},
		ClaimFiles: ClaimFiles{claimFile},
		Files:      files,
	}
}

// CreateChatFixtures builds two users, an alert, an approved claim between
// them, and an open chat room for the claim.
func CreateChatFixtures(tx *pop.Connection) Fixtures {
	users := CreateUserFixtures(tx, 2).Users
	owner, claimant := users[0], users[1]

	alert := CreateAlertFixtures(tx, owner, 1).Alerts[0]
	f := CreateClaimFixtures(tx, claimant, alert, api.ClaimStatusApproved)
	claim := f.Claims[0]

	room, err := OpenChatRoom(tx, claimant, claim.ID)
	if err != nil {
		panic(fmt.Sprintf("failed to open chat room fixture, %s", err))
	}

	return Fixtures{
		Alerts:    Alerts{alert},
		ChatRooms: ChatRooms{room},
		Claims:    Claims{claim},
		Users:     users,
	}
}

// MustCreate saves a record to the database with validation and the model's
// own defaults applied. Panics if any error occurs.
func MustCreate(tx *pop.Connection, f Createable) {
	if err := f.Create(tx); err != nil {
		panic(fmt.Sprintf("error creating %T fixture, %s", f, err))
	}
}

func DestroyAll() {
	// delete all ChatMessages and ChatRooms
	var messages ChatMessages
	destroyTable(&messages)
	var rooms ChatRooms
	destroyTable(&rooms)

	// delete all Claims and ClaimFiles
	var claimFiles ClaimFiles
	destroyTable(&claimFiles)
	var claims Claims
	destroyTable(&claims)

	// delete all Alerts
	var alerts Alerts
	destroyTable(&alerts)

	// delete all Notifications and NotificationUsers
	var notnUsers NotificationUsers
	destroyTable(&notnUsers)
	var notns Notifications
	destroyTable(&notns)

	// delete all Files
	var files Files
	destroyTable(&files)

	// delete all Users and UserAccessTokens
	var users Users
	destroyTable(&users)
}

func destroyTable(i any) {
	if err := DB.All(i); err != nil {
		panic(err.Error())
	}
	if err := DB.Destroy(i); err != nil {
		panic(err.Error())
	}
}
