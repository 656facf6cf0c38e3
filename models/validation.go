package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gobuffalo/validate/v3"

	"github.com/pawtrail/pawtrail-api/api"
)

// Model validation tool
var mValidate *validator.Validate

var fieldValidators = map[string]func(validator.FieldLevel) bool{
	"appRole":     validateAppRole,
	"alertType":   validateAlertType,
	"alertStatus": validateAlertStatus,
	"claimStatus": validateClaimStatus,
}

func validateModel(m any) *validate.Errors {
	vErrs := validate.NewErrors()

	if err := mValidate.Struct(m); err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			vErrs.Add(err.StructNamespace(), err.Error())
		}
	}
	return vErrs
}

// flattenPopErrors - pop validation errors are complex structures, this flattens them to a simple string
func flattenPopErrors(popErrs *validate.Errors) string {
	var msgs []string
	for key, val := range popErrs.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", key, strings.Join(val, ", ")))
	}
	msg := strings.Join(msgs, " |")
	return msg
}

func validateAppRole(field validator.FieldLevel) bool {
	if value, ok := field.Field().Interface().(api.UserAppRole); ok {
		_, valid := ValidUserAppRoles[value]
		return valid
	}
	return false
}

func validateAlertType(field validator.FieldLevel) bool {
	if value, ok := field.Field().Interface().(api.AlertType); ok {
		_, valid := ValidAlertTypes[value]
		return valid
	}
	return false
}

func validateAlertStatus(field validator.FieldLevel) bool {
	if value, ok := field.Field().Interface().(api.AlertStatus); ok {
		_, valid := ValidAlertStatuses[value]
		return valid
	}
	return false
}

func validateClaimStatus(field validator.FieldLevel) bool {
	if value, ok := field.Field().Interface().(api.ClaimStatus); ok {
		_, valid := ValidClaimStatus[value]
		return valid
	}
	return false
}
