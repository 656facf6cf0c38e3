package domain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gobuffalo/buffalo"
	"github.com/gobuffalo/envy"
	"github.com/gofrs/uuid"
	"github.com/kelseyhightower/envconfig"
)

var (
	// Logger is a plain instance of log.Logger, normally set to stdout
	Logger log.Logger

	// ErrLogger is an instance of ErrLogProxy, and is the only error logging
	// mechanism that can be used without access to the Buffalo context.
	ErrLogger ErrLogProxy
)

var extrasLock = sync.RWMutex{}

var AllowedFileUploadTypes = []string{
	"image/gif",
	"image/jpeg",
	"image/png",
	"image/webp",
}

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// BuffaloContextType is a custom type used as a value key passed to context.WithValue as per the recommendations
// in the function docs for that function: https://golang.org/pkg/context/#WithValue
type BuffaloContextType string

// BuffaloContext is the key for the call to context.WithValue
const BuffaloContext = BuffaloContextType("BuffaloContext")

// Context keys
const (
	ContextKeyCurrentUser = "current_user"
	ContextKeyExtras      = "extras"
	ContextKeyTx          = "tx"

	EventPayloadID      = "id"
	EventPayloadActorID = "actor_id"

	TypeAlert    = "alerts"
	TypeChatRoom = "chats"
	TypeClaim    = "claims"
	TypeFile     = "files"
	TypeUser     = "users"
)

const (
	DateFormat = "2006-01-02"

	MaxFileSize = 1024 * 1024 * 10 // 10 Megabytes

	DurationDay  = time.Duration(time.Hour * 24)
	DurationWeek = time.Duration(DurationDay * 7)
)

// Event Kinds
const (
	EventApiClaimCreated   = "api:claim:created"
	EventApiClaimApproved  = "api:claim:approved"
	EventApiClaimRejected  = "api:claim:rejected"
	EventApiClaimCancelled = "api:claim:cancelled"
	EventApiClaimCompleted = "api:claim:completed"

	EventApiNotificationCreated = "api:notification:created"
)

func getBuffaloContext(ctx context.Context) buffalo.Context {
	bc, ok := ctx.Value(BuffaloContext).(buffalo.Context)
	if ok {
		return bc
	}

	// Doesn't have a BuffaloContext value, so it must be the actual BuffaloContext
	return ctx.(buffalo.Context)
}

// Env Holds the values of environment variables
var Env struct {
	GoEnv                      string `ignored:"true"`
	ApiBaseURL                 string `required:"true" split_words:"true"`
	AccessTokenLifetimeSeconds int    `default:"1166400" split_words:"true"` // 13.5 days
	AppName                    string `default:"PawTrail" split_words:"true"`
	ServerPort                 int    `default:"3000" split_words:"true"`

	ListenerDelayMilliseconds int `default:"1000" split_words:"true"`
	ListenerMaxRetries        int `default:"10" split_words:"true"`

	SessionSecret    string `required:"true" split_words:"true"`
	SentryDSN        string `default:"" envconfig:"SENTRY_DSN"`
	SentryServerRoot string `default:"" split_words:"true"`
	UIURL            string `default:"http://missing.ui.url"`

	AwsRegion           string `split_words:"true"`
	AwsS3Endpoint       string `split_words:"true"`
	AwsS3DisableSSL     bool   `split_words:"true"`
	AwsS3Bucket         string `split_words:"true"`
	AwsS3ACL            string `default:"public-read" split_words:"true"`
	AwsS3URLLifeMinutes int    `default:"10" envconfig:"AWS_S3_URL_LIFE_MINUTES"`
	AwsAccessKeyID      string `split_words:"true"`
	AwsSecretAccessKey  string `split_words:"true"`
	EmailFromAddress    string `required:"true" split_words:"true"`
	EmailService        string `default:"ses" split_words:"true"`
	SupportEmail        string `default:"" split_words:"true"`

	MaxFileDelete int `default:"10" split_words:"true"`

	// ClaimEvidenceMinLength is the minimum number of characters required in the
	// pet features description of a claim submission
	ClaimEvidenceMinLength int `default:"10" split_words:"true"`
}

func init() {
	readEnv()
	Logger.SetOutput(os.Stdout)
	ErrLogger.SetOutput(os.Stderr)
	ErrLogger.InitSentry()
}

// readEnv loads environment data into `Env`
func readEnv() {
	err := envconfig.Process("", &Env)
	if err != nil {
		log.Fatal(errors.New("error loading env vars: " + err.Error()))
	}

	// Doing this separately to avoid needing two environment variables for the same thing
	Env.GoEnv = envy.Get("GO_ENV", EnvDevelopment)
}

// ErrLogProxy is a "tee" that sends to Sentry and to the local logger,
// normally set to stderr. Sentry is disabled if `GoEnv` is "test" or no
// DSN is configured.
type ErrLogProxy struct {
	LocalLog      log.Logger
	sentryEnabled bool
}

func (e *ErrLogProxy) SetOutput(w io.Writer) {
	e.LocalLog.SetOutput(w)
}

func (e *ErrLogProxy) Printf(format string, a ...any) {
	// Send to local logger
	e.LocalLog.Printf(format, a...)

	// Only send to remote log if not in test env
	if Env.GoEnv == EnvTest || !e.sentryEnabled {
		return
	}
	sentry.CaptureMessage(fmt.Sprintf(format, a...))
}

func (e *ErrLogProxy) InitSentry() {
	if Env.SentryDSN == "" {
		return
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         Env.SentryDSN,
		Environment: Env.GoEnv,
		ServerName:  Env.SentryServerRoot,
	})
	if err != nil {
		e.LocalLog.Printf("sentry.Init: %s", err)
		return
	}
	e.sentryEnabled = true
}

// SentryMiddleware attaches the request to the Sentry scope so captured
// errors carry request data
func SentryMiddleware(next buffalo.Handler) buffalo.Handler {
	return func(c buffalo.Context) error {
		if Env.SentryDSN == "" || Env.GoEnv == EnvTest {
			return next(c)
		}

		hub := sentry.CurrentHub().Clone()
		hub.Scope().SetRequest(c.Request())

		return next(c)
	}
}

// NewExtra Sets a new key-value pair in the `extras` entry of the context
func NewExtra(ctx context.Context, key string, e any) {
	c := getBuffaloContext(ctx)
	extras := getExtras(c)

	extrasLock.Lock()
	defer extrasLock.Unlock()
	extras[key] = e

	c.Set(ContextKeyExtras, extras)
}

func getExtras(c buffalo.Context) map[string]any {
	extras, _ := c.Value(ContextKeyExtras).(map[string]any)
	if extras == nil {
		extras = map[string]any{}
	}

	return extras
}

// GetUUID creates a new, unique version 4 (random) UUID and returns it
// as a uuid.UUID. Errors are ignored.
func GetUUID() uuid.UUID {
	id, err := uuid.NewV4()
	if err != nil {
		ErrLogger.Printf("error creating new uuid ... %v", err)
	}
	return id
}

// EmailFromAddress combines a name with the configured from address for use in an email From header. If name is nil,
// only the App Name will be used.
func EmailFromAddress(name *string) string {
	addr := Env.AppName + " <" + Env.EmailFromAddress + ">"
	if name != nil {
		addr = *name + " via " + addr
	}
	return addr
}

// GetBearerTokenFromRequest obtains the token from an Authorization header beginning
// with "Bearer". If not found, an empty string is returned.
func GetBearerTokenFromRequest(r *http.Request) string {
	authorizationHeader := r.Header.Get("Authorization")
	if authorizationHeader == "" {
		return ""
	}

	re := regexp.MustCompile(`^(?i)Bearer (.*)$`)
	matches := re.FindSubmatch([]byte(authorizationHeader))
	if len(matches) < 2 {
		return ""
	}

	return string(matches[1])
}

// IsOtherThanNoRows returns false if the error is nil or is just reporting that there
//
//	were no rows in the result set for a sql query.
func IsOtherThanNoRows(err error) bool {
	if err == nil {
		return false
	}

	if strings.Contains(err.Error(), sql.ErrNoRows.Error()) {
		return false
	}

	return true
}

func MergeExtras(extras []map[string]any) map[string]any {
	allExtras := map[string]any{}

	if len(extras) == 1 {
		return extras[0]
	}

	for _, e := range extras {
		for k, v := range e {
			allExtras[k] = v
		}
	}

	return allExtras
}

// IsStringInSlice iterates over a slice of strings, looking for the given
// string. If found, true is returned. Otherwise, false is returned.
func IsStringInSlice(needle string, haystack []string) bool {
	for _, hs := range haystack {
		if needle == hs {
			return true
		}
	}

	return false
}

func RandomString(n int, includeLetters string) string {
	if includeLetters == "" {
		includeLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	}
	letters := []rune(includeLetters)
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))] // #nosec G404
	}
	return string(b)
}

// RandomInsecureIntInRange is insecure because it only uses the math.rand package
//
//	and not the crypto/rand package
func RandomInsecureIntInRange(min, max int) int {
	if min >= max {
		panic("invalid parameters to RandomInsecureIntInRange: max of range must be greater than min.")
	}
	return rand.Intn(max-min+1) + min // #nosec G404
}

// TimeBetween renders the approximate duration between two times as a
// human-friendly phrase
func TimeBetween(t1, t2 time.Time) string {
	t1 = t1.Truncate(time.Minute)
	t2 = t2.Truncate(time.Minute)

	if t1 == t2 {
		return "just now"
	}

	var diff time.Duration
	if t1.Before(t2) {
		diff = t2.Sub(t1)
	} else {
		diff = t1.Sub(t2)
	}

	var unit string
	var n int

	if diff < time.Hour {
		n = int(diff / time.Minute)
		unit = "minute"
	} else if diff < DurationDay {
		n = int(diff / time.Hour)
		unit = "hour"
	} else {
		n = int(diff / DurationDay)
		unit = "day"
	}

	if n > 1 {
		unit += "s"
	}

	return fmt.Sprintf("%d %s ago", n, unit)
}
