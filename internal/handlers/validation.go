package handlers

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ParseValidationErrors converts validator errors to user-friendly format
func ParseValidationErrors(err error) []ValidationError {
	var result []ValidationError

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			result = append(result, ValidationError{
				Field:   fieldError.Field(),
				Message: getErrorMessage(fieldError),
			})
		}
	}

	return result
}

// ValidationSummary joins the messages of err's field failures into one line
func ValidationSummary(err error) string {
	fields := ParseValidationErrors(err)
	if len(fields) == 0 {
		return err.Error()
	}

	summary := fields[0].Message
	for _, f := range fields[1:] {
		summary += "; " + f.Message
	}
	return summary
}

func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		if isNumberKind(fe) {
			return fe.Field() + " must be at least " + fe.Param()
		}
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "max":
		if isNumberKind(fe) {
			return fe.Field() + " must be at most " + fe.Param()
		}
		return fe.Field() + " must not exceed " + fe.Param() + " characters"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "numeric":
		return fe.Field() + " must be a number"
	case "url":
		return "Invalid URL format"
	default:
		return fe.Field() + " is invalid"
	}
}

func isNumberKind(fe validator.FieldError) bool {
	switch fe.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
