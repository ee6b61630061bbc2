package models

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/convocatorias/portal/internal/pkg/apperrors"
)

// Mutation edits a draft record in place. Drafts are changed through typed
// closures instead of string field names.
type Mutation[T any] func(*T)

// Apply runs the mutations on a copy of draft and returns it.
func Apply[T any](draft T, mutations ...Mutation[T]) T {
	for _, m := range mutations {
		if m != nil {
			m(&draft)
		}
	}
	return draft
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return !fl.Field().IsZero()
		}
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// Validate checks the `validate` tags of record. Failures are reported as an
// *apperrors.ValidationError naming every failed field.
func Validate(resource string, record interface{}) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := &apperrors.ValidationError{Resource: resource}
	for _, fe := range fieldErrs {
		verr.Fields = append(verr.Fields, apperrors.FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: fieldMessage(fe),
		})
	}
	return verr
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "notblank", "required":
		return e.Field() + " is required"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}

// Named is implemented by lookup records that resolve to a display name.
type Named interface {
	Key() string
	DisplayName() string
}
