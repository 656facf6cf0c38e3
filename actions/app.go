// PawTrail API
//
// JSON API for the PawTrail lost/found pet reunification app.
//
//	Schemes: https
//	Host: localhost
//	BasePath: /
//	Version: 0.0.1
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
//	SecurityDefinitions:
//	bearerAuth:
//	    type: apiKey
//	    in: header
//	    name: Authorization
//
// swagger:meta
package actions

import (
	"github.com/gobuffalo/buffalo"
	"github.com/gobuffalo/buffalo-pop/v3/pop/popmw"
	contenttype "github.com/gobuffalo/mw-contenttype"
	paramlogger "github.com/gobuffalo/mw-paramlogger"
	"github.com/gorilla/sessions"
	"github.com/rs/cors"

	"github.com/pawtrail/pawtrail-api/api"
	"github.com/pawtrail/pawtrail-api/domain"
	"github.com/pawtrail/pawtrail-api/job"
	"github.com/pawtrail/pawtrail-api/listeners"
	"github.com/pawtrail/pawtrail-api/models"
)

var app *buffalo.App

// App is where all routes and middleware for buffalo should be defined.
//
// Routing, middleware, groups, etc... are declared TOP -> DOWN.
// This means if you add a middleware to `app` *after* declaring a
// group, that group will NOT have that new middleware. The same
// is true of resource declarations as well.
func App() *buffalo.App {
	if app == nil {
		app = buffalo.New(buffalo.Options{
			Env: domain.Env.GoEnv,
			PreWares: []buffalo.PreWare{
				cors.New(cors.Options{
					AllowCredentials: true,
					AllowedOrigins:   []string{domain.Env.UIURL},
					AllowedMethods:   []string{"HEAD", "GET", "POST", "PUT", "PATCH", "DELETE"},
					AllowedHeaders:   []string{"*"},
				}).Handler,
			},
			SessionName:  "_pawtrail_api_session",
			SessionStore: sessions.NewCookieStore([]byte(domain.Env.SessionSecret)),
		})

		registerCustomErrorHandler(app)

		// Attach the request to the Sentry scope for error reporting
		app.Use(domain.SentryMiddleware)

		// Log request parameters (filters apply)
		app.Use(paramlogger.ParameterLogger)

		// Set the request content type to JSON
		app.Use(contenttype.Set("application/json"))

		// Wraps each request in a transaction
		app.Use(popmw.Transaction(models.DB))

		// All routes except the home route require a valid bearer token
		app.Use(AuthN)
		app.Middleware.Skip(AuthN, HomeHandler)

		app.GET("/", HomeHandler)

		app.POST("/upload", uploadHandler)

		alertsGroup := app.Group("/" + domain.TypeAlert)
		alertsGroup.Use(AuthZ)
		alertsGroup.GET("/", alertsList)
		alertsGroup.POST("/", alertsCreate)
		alertsGroup.GET("/{id}", alertsView)
		alertsGroup.POST("/{id}/"+api.ResourceResolve, alertsResolve)

		claimsGroup := app.Group("/" + domain.TypeClaim)
		claimsGroup.Use(AuthZ)
		claimsGroup.GET("/", claimsList)
		claimsGroup.POST("/", claimsCreate)
		claimsGroup.GET("/{id}", claimsView)
		claimsGroup.PUT("/{id}/"+api.ResourceStatus, claimsStatusUpdate)

		chatsGroup := app.Group("/" + domain.TypeChatRoom)
		chatsGroup.Use(AuthZ)
		chatsGroup.GET("/", chatsList)
		chatsGroup.POST("/", chatsOpen)
		chatsGroup.GET("/{id}", chatsView)
		chatsGroup.POST("/{id}/"+api.ResourceMessages, chatsMessagesCreate)

		usersGroup := app.Group("/" + domain.TypeUser)
		usersGroup.Use(AuthZ)
		usersGroup.Middleware.Skip(AuthZ, usersMe)
		usersGroup.GET("/", usersList)
		usersGroup.GET("/me", usersMe)
		usersGroup.GET("/{id}", usersView)

		job.Init(&app.Worker)

		listeners.RegisterListeners()
	}

	return app
}
