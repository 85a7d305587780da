// Package validation wraps go-playground/validator and converts its
// failures into domain validation errors.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domainerrors "authorsite/internal/errors"
)

// Validator validates request structs.
type Validator struct {
	v *validator.Validate
}

// New creates a validator that reports fields by their json names.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		name, _, _ = strings.Cut(name, ",")
		if name == "-" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("imageref", validateImageRef)

	return &Validator{v: v}
}

// validateImageRef accepts an absolute http(s) URL, a site-relative path, or
// an inline data:image payload.
func validateImageRef(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.HasPrefix(s, "data:image/") {
		return strings.Contains(s, ",")
	}
	if strings.HasPrefix(s, "/") {
		return !strings.HasPrefix(s, "//")
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Validate validates s and returns a *domainerrors.Error on failure.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
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
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "url", "http_url":
		return "must be a valid URL"
	case "email":
		return "must be a valid email address"
	case "datetime":
		return "must be a date in " + e.Param() + " format"
	case "imageref":
		return "must be an image URL or an inline data:image payload"
	default:
		return "is invalid"
	}
}
