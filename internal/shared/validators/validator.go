package validators

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate is a type alias for validator.Validate.
type Validate = validator.Validate

// ValidationErrors is a type alias for validator.ValidationErrors.
type ValidationErrors = validator.ValidationErrors

// FieldError is a type alias for validator.FieldError.
type FieldError = validator.FieldError

// New creates a new validator instance.
func New() *Validate {
	return validator.New()
}

// Describe joins the field errors of err into one readable line,
// e.g. "server.port (required), log.level (oneof=debug info)".
// Errors that are not validation errors are returned as is.
func Describe(err error) string {
	ve, ok := err.(ValidationErrors)
	if !ok {
		return err.Error()
	}
	var descriptions []string
	for _, e := range ve {
		descriptions = append(descriptions, describeFieldError(e))
	}
	return strings.Join(descriptions, ", ")
}

// describeFieldError formats a single validation error into a readable string.
func describeFieldError(e FieldError) string {
	field := e.Field()
	tag := e.Tag()

	// Build field path (e.g., "Config.Log.Level" -> "log.level")
	if e.StructNamespace() != "" {
		parts := strings.Split(e.StructNamespace(), ".")
		if len(parts) >= 2 {
			field = strings.ToLower(strings.Join(parts[1:], "."))
		}
	}

	switch tag {
	case "required":
		return fmt.Sprintf("%s (required)", field)
	case "min":
		return fmt.Sprintf("%s (min=%s)", field, e.Param())
	case "max":
		return fmt.Sprintf("%s (max=%s)", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s (oneof=%s)", field, e.Param())
	default:
		return fmt.Sprintf("%s (%s)", field, tag)
	}
}
