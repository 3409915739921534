package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps form field names to human-readable messages, the shape
// returned to AJAX callers on a 400.
type FieldErrors map[string][]string

// FormatFieldErrors turns a binding error into per-field messages. Non
// validation errors collapse into a single "non_field_errors" entry.
func FormatFieldErrors(err error) FieldErrors {
	out := FieldErrors{}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		out["non_field_errors"] = []string{err.Error()}
		return out
	}

	for _, fieldError := range validationErrors {
		field := strings.ToLower(fieldError.Field())
		out[field] = append(out[field], fieldErrorMessage(fieldError))
	}
	return out
}

func fieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s may be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s may be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is not valid", field)
	}
}
