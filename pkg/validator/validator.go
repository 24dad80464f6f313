package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse describes one failed validation rule.
type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their json names so errors match the wire format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateStruct checks data against its validate tags.
func ValidateStruct(data interface{}) []*ErrorResponse {
	return collect(validate.Struct(data), "")
}

// ValidateVar checks a single value against tag; field names the value in
// the returned errors.
func ValidateVar(field string, value interface{}, tag string) []*ErrorResponse {
	return collect(validate.Var(value, tag), field)
}

func collect(err error, field string) []*ErrorResponse {
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []*ErrorResponse{{FailedField: field, Tag: "invalid", Value: err.Error()}}
	}

	var errors []*ErrorResponse
	for _, e := range validationErrors {
		element := ErrorResponse{
			FailedField: e.Field(),
			Tag:         e.Tag(),
			Value:       e.Param(),
		}
		if field != "" {
			element.FailedField = field
		}
		errors = append(errors, &element)
	}
	return errors
}

// Describe renders a failed rule as a short human reason.
func Describe(e *ErrorResponse) string {
	switch e.Tag {
	case "required":
		return "must not be empty"
	case "gtefield":
		return "must not be before " + e.Value
	case "min":
		return "must be at least " + e.Value
	case "gte":
		return "must be greater than or equal to " + e.Value
	default:
		return "failed on the '" + e.Tag + "' rule"
	}
}
