package actions

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"

	"github.com/gobuffalo/buffalo"

	"github.com/pawtrail/pawtrail-api/api"
	"github.com/pawtrail/pawtrail-api/domain"
)

// reportError logs an error with details and renders the error with buffalo.Render.
func reportError(c buffalo.Context, err error) error {
	appErr, ok := err.(*api.AppError)
	if !ok {
		appErr = appErrorFromErr(err)
	}
	appErr.SetHttpStatusFromCategory()

	if appErr.Extras == nil {
		appErr.Extras = map[string]any{}
	}

	appErr.Extras = domain.MergeExtras([]map[string]any{getExtras(c), appErr.Extras})
	appErr.Extras["function"] = GetFunctionName(2)
	appErr.Extras["key"] = appErr.Key
	appErr.Extras["status"] = appErr.HttpStatus
	appErr.Extras["method"] = c.Request().Method
	appErr.Extras["URI"] = c.Request().RequestURI
	appErr.Extras["IP"] = c.Request().RemoteAddr

	domain.ErrLogger.Printf("%s %s %v", appErr.Key, appErr.Error(), appErr.Extras)

	appErr.LoadPublicMessage()

	// clear out debugging info if not in development or test
	if domain.Env.GoEnv == domain.EnvDevelopment || domain.Env.GoEnv == domain.EnvTest {
		if appErr.Err != nil {
			appErr.DebugMsg = appErr.Err.Error()
		}
	} else {
		appErr.Extras = map[string]any{}
	}

	return c.Render(appErr.HttpStatus, r.JSON(appErr))
}

func appErrorFromErr(err error) *api.AppError {
	terr, ok := err.(*api.AppError)
	if ok {
		return &api.AppError{
			Key:      terr.Key,
			DebugMsg: terr.Error(),
		}
	}

	return &api.AppError{
		HttpStatus: http.StatusInternalServerError,
		Key:        api.ErrorUnknown,
		DebugMsg:   err.Error(),
	}
}

func getExtras(c buffalo.Context) map[string]any {
	extras, _ := c.Value(domain.ContextKeyExtras).(map[string]any)
	if extras == nil {
		extras = map[string]any{}
	}
	return extras
}

// StrictBind hydrates a struct with values from a POST, returning an error if
// the request body contains unknown fields
func StrictBind(c buffalo.Context, dest any) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return api.NewAppError(err, api.ErrorInvalidRequestBody, api.CategoryUser)
	}
	return nil
}

// GetFunctionName provides the filename, line number, and function name of the caller, skipping the top `skip`
// functions on the stack.
func GetFunctionName(skip int) string {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "?"
	}

	fn := runtime.FuncForPC(pc)
	return fmt.Sprintf("%s:%d %s", file, line, fn.Name())
}

func renderOk(c buffalo.Context, v any) error {
	return c.Render(http.StatusOK, r.JSON(v))
}
