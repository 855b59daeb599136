// Package validation wraps go-playground/validator and converts its errors into
// CodeValidation domain errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/KaramelBytes/reelstats-cli/internal/errors"
)

// Validator wraps go-playground/validator.
type Validator struct {
	v *validator.Validate
}

// New creates a validator that reports fields by their mapstructure/yaml name.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"mapstructure", "yaml"} {
			name := fld.Tag.Get(tag)
			if name == "" || name == "-" {
				continue
			}
			if i := strings.IndexByte(name, ','); i >= 0 {
				name = name[:i]
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	return &Validator{v: v}
}

// Validate validates a struct and returns a *errors.Error on failure.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		fields[e.Field()] = friendlyMessage(e)
	}
	return apperrors.ValidationWithDetails("validation failed", fields)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "ltefield":
		return "must be less than or equal to " + e.Param()
	case "gtefield":
		return "must be greater than or equal to " + e.Param()
	default:
		return fmt.Sprintf("is invalid (%s)", e.Tag())
	}
}
