// Package validation wraps go-playground/validator with AnimeVault's
// catalog-specific rules and converts failures into domain validation errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/animevault/animevault-server/internal/domain"
	domainerrors "github.com/animevault/animevault-server/internal/errors"
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator with the catalog tags registered:
//
//	season        winter, spring, summer or fall
//	watch_status  one of the domain watch statuses (empty allowed)
//	catalog_kind  anime or manga
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report the wire name instead of the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"query", "json", "path"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	mustRegister(v, "season", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "", "winter", "spring", "summer", "fall":
			return true
		}
		return false
	})
	mustRegister(v, "watch_status", func(fl validator.FieldLevel) bool {
		s := domain.WatchStatus(fl.Field().String())
		return !s.IsSet() || s.Valid()
	})
	mustRegister(v, "catalog_kind", func(fl validator.FieldLevel) bool {
		return domain.Kind(fl.Field().String()).Valid()
	})

	return &Validator{v: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Validate validates a struct and returns a domain error.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// formatError converts validator errors to domain errors.
func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return domainerrors.Wrap(err, domainerrors.CodeValidation, "validation failed")
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = friendlyMessage(e)
	}

	return domainerrors.ValidationWithDetails("validation failed", fieldErrors)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return "must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", e.Param())
		}
		return "must not exceed " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "season":
		return "must be one of: winter spring summer fall"
	case "watch_status":
		return "must be one of: watching planned completed on_hold dropped"
	case "catalog_kind":
		return "must be anime or manga"
	default:
		return "is invalid"
	}
}
