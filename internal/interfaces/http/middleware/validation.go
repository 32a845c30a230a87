package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/datamaq/notifier/internal/interfaces/http/dto"
)

// SetupValidator configures the validator to report JSON tag names
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// FormatValidationErrors formats validation errors into a standard response
func FormatValidationErrors(err error, hint string) dto.Response {
	var details []dto.ValidationDetail

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: getValidationMessage(e),
			})
		}
	}

	return dto.NewValidationErrorResponse("Request validation failed", details, hint)
}

// getValidationMessage returns a human-readable validation message
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if e.Type().Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "lte":
		return "Must be less than or equal to " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "lt":
		return "Must be less than " + e.Param()
	default:
		return "Invalid value"
	}
}
