// Package validate wraps go-playground/validator with the rules and error
// messages used by the booking and account forms.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Tags reported by struct-level rules.
const (
	TagAfter     = "after"
	TagNotBefore = "notbefore"
)

// Validator wraps the go-playground validator.
type Validator struct {
	validator *validator.Validate
}

// New creates a validator that reports fields by their json name.
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validator: validate}
}

// RegisterStructValidation adds a cross-field rule for the given types.
func (v *Validator) RegisterStructValidation(fn validator.StructLevelFunc, types ...any) {
	v.validator.RegisterStructValidation(fn, types...)
}

// Validate checks a struct and returns *ValidationError on rule failures.
func (v *Validator) Validate(i any) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return NewValidationError(verrs)
	}
	return fmt.Errorf("validate: %w", err)
}

// ValidationError maps field names to user-facing messages.
type ValidationError struct {
	Errors map[string]string `json:"errors"`
}

// Error lists the failures in field order.
func (e *ValidationError) Error() string {
	fields := e.Fields()
	messages := make([]string, 0, len(fields))
	for _, f := range fields {
		messages = append(messages, e.Errors[f])
	}
	return "validation failed: " + strings.Join(messages, ", ")
}

// Fields returns the failing field names, sorted.
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Field returns the message for one field, or "".
func (e *ValidationError) Field(name string) string {
	return e.Errors[name]
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NewValidationError converts validator errors into messages. The first
// failure per field wins.
func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	out := make(map[string]string, len(errs))
	for _, err := range errs {
		field := err.Field()
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = message(err)
	}
	return &ValidationError{Errors: out}
}

func message(err validator.FieldError) string {
	field := err.Field()
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, err.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date like %s", field, err.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, err.Param())
	case TagAfter:
		return fmt.Sprintf("%s must be after %s", field, err.Param())
	case TagNotBefore:
		return fmt.Sprintf("%s must not be before %s", field, err.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
