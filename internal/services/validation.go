package services

import (
	"errors"
	"reflect"
	"strings"

	pkgerrors "github.com/certiswift/certiswift-api/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// ValidationError carries per-field failures. It matches both
// pkgerrors.ErrInvalidInput and validator.ValidationErrors via errors.Is/As.
type ValidationError struct {
	Fields validator.ValidationErrors
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		parts = append(parts, fe.Field()+" failed "+fe.Tag())
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() []error {
	return []error{pkgerrors.ErrInvalidInput, e.Fields}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so messages match request bodies
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateStruct runs struct tag validation and converts failures to *ValidationError
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return &ValidationError{Fields: verrs}
	}
	return pkgerrors.InvalidInputError("request", err.Error())
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
