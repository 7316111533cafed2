// Package validation checks record inputs before they reach the
// repositories. Each record type has a pure function returning field-level
// errors, so forms can report problems per field and the checks stay
// testable without storage.
package validation

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
}

// FieldError describes a single failed field constraint
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Check validates a tagged struct and converts the result to field errors.
// A nil return means the input passed.
func Check(v any) []FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var errs []FieldError
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			errs = append(errs, FieldError{
				Field:   e.Field(),
				Message: messageFor(e),
			})
		}
		return errs
	}
	return []FieldError{{Field: "", Message: "invalid input"}}
}

func messageFor(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long, maximum is " + e.Param()
	case "gte":
		return "Value must be greater than or equal to " + e.Param()
	case "lte":
		return "Value must be less than or equal to " + e.Param()
	case "oneof":
		return "Value must be one of: " + e.Param()
	case "email":
		return "Invalid email format"
	default:
		return "Invalid value"
	}
}
