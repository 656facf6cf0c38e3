package actions

import (
	"net/http"

	"github.com/gobuffalo/buffalo"

	"github.com/pawtrail/pawtrail-api/api"
	"github.com/pawtrail/pawtrail-api/domain"
	"github.com/pawtrail/pawtrail-api/models"
)

// swagger:operation GET /alerts Alerts AlertsList
//
// AlertsList
//
// list all active alerts, or only the current user's alerts when the `mine`
// query parameter is set
//
// ---
// parameters:
// - name: mine
//   in: query
//   required: false
//   description: set to "true" to list only the current user's alerts
// responses:
//   '200':
//     description: a list of Alerts
//     schema:
//       type: array
//       items:
//         "$ref": "#/definitions/Alert"
func alertsList(c buffalo.Context) error {
	tx := models.Tx(c)

	if c.Param("mine") == "true" {
		user := models.CurrentUser(c)
		alerts := user.MyAlerts(tx)
		return renderOk(c, alerts.ConvertToAPI())
	}

	var alerts models.Alerts
	if err := alerts.AllActive(tx); err != nil {
		return reportError(c, err)
	}
	return renderOk(c, alerts.ConvertToAPI())
}

// swagger:operation GET /alerts/{id} Alerts AlertsView
//
// AlertsView
//
// view a specific alert
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: alert ID
// responses:
//   '200':
//     description: an Alert
//     schema:
//       "$ref": "#/definitions/Alert"
func alertsView(c buffalo.Context) error {
	alert := getReferencedAlertFromCtx(c)
	return renderOk(c, alert.ConvertToAPI())
}

// swagger:operation POST /alerts Alerts AlertsCreate
//
// AlertsCreate
//
// post a new LOST or FOUND pet alert owned by the current user
//
// ---
// parameters:
//   - name: alert input
//     in: body
//     description: alert create input object
//     required: true
//     schema:
//       "$ref": "#/definitions/AlertCreateInput"
// responses:
//   '201':
//     description: the new Alert
//     schema:
//       "$ref": "#/definitions/Alert"
func alertsCreate(c buffalo.Context) error {
	var input api.AlertCreateInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	alert, err := models.NewAlertFromInput(input, models.CurrentUser(c).ID)
	if err != nil {
		return reportError(c, err)
	}

	tx := models.Tx(c)
	if err := alert.Create(tx); err != nil {
		return reportError(c, err)
	}

	return c.Render(http.StatusCreated, r.JSON(alert.ConvertToAPI()))
}

// swagger:operation POST /alerts/{id}/resolve Alerts AlertsResolve
//
// AlertsResolve
//
// close out an active alert. Only the alert owner or an admin may resolve an
// alert, and an already-resolved alert cannot be resolved again.
//
// ---
// parameters:
//   - name: id
//     in: path
//     required: true
//     description: alert ID
//   - name: alert resolve input
//     in: body
//     description: alert resolve input object
//     required: true
//     schema:
//       "$ref": "#/definitions/AlertResolveInput"
// responses:
//   '200':
//     description: the resolved Alert
//     schema:
//       "$ref": "#/definitions/Alert"
func alertsResolve(c buffalo.Context) error {
	tx := models.Tx(c)
	alert := getReferencedAlertFromCtx(c)

	var input api.AlertResolveInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	if err := alert.MarkResolved(tx, input.ResolutionNote); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, alert.ConvertToAPI())
}

// getReferencedAlertFromCtx pulls the models.Alert resource from context that was put there
// by the AuthZ middleware
func getReferencedAlertFromCtx(c buffalo.Context) *models.Alert {
	alert, ok := c.Value(domain.TypeAlert).(*models.Alert)
	if !ok {
		panic("alert not found in context")
	}
	return alert
}
