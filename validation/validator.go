package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kbukum/voicenote/errors"
)

// FieldError is one failed check.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator accumulates failed checks on hand-written input such as CLI
// flags and form values.
//
//	if appErr := validation.New().Required("vault", dir).Min("line", line, 0).Validate(); appErr != nil {
//	    return appErr
//	}
type Validator struct {
	failures []FieldError
}

// New returns an empty Validator.
func New() *Validator { return &Validator{} }

func (v *Validator) fail(field, message string) *Validator {
	v.failures = append(v.failures, FieldError{Field: field, Message: message})
	return v
}

// Errors returns the failed checks in the order they were made.
func (v *Validator) Errors() []FieldError { return v.failures }

// Validate returns nil when every check passed, otherwise an INVALID_INPUT
// AppError listing each failure, also under Details["fields"].
func (v *Validator) Validate() *errors.AppError {
	if len(v.failures) == 0 {
		return nil
	}
	return failure(v.failures)
}

// Required fails on empty or blank values.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		return v.fail(field, "is required")
	}
	return v
}

// Min fails when value is below minVal.
func (v *Validator) Min(field string, value, minVal int) *Validator {
	if value < minVal {
		return v.fail(field, fmt.Sprintf("must be at least %d", minVal))
	}
	return v
}

// OneOf fails when a non-empty value is not among allowed.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	if value != "" && !slices.Contains(allowed, value) {
		return v.fail(field, "must be one of: "+strings.Join(allowed, ", "))
	}
	return v
}

// Check records message for field unless ok.
func (v *Validator) Check(ok bool, field, message string) *Validator {
	if !ok {
		return v.fail(field, message)
	}
	return v
}

func failure(fields []FieldError) *errors.AppError {
	messages := make([]string, len(fields))
	for i, f := range fields {
		messages[i] = f.Field + ": " + f.Message
	}
	return errors.Validation(strings.Join(messages, "; ")).WithDetail("fields", fields)
}
