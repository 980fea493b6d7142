package dto

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// FieldError describes one failed constraint on a request body field.
type FieldError struct {
	ObjectName string `json:"object_name"`
	Field      string `json:"field"`
	Message    string `json:"message"`
}

// ValidationError is returned when a DTO violates its constraints.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s.%s: %s", fe.ObjectName, fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// validator accumulates field errors for one object.
// In partial mode only fields present in the body are checked.
type validator struct {
	object  string
	partial bool
	errs    []FieldError
}

func newValidator(object string, partial bool) *validator {
	return &validator{object: object, partial: partial}
}

func (v *validator) add(field, message string) {
	v.errs = append(v.errs, FieldError{ObjectName: v.object, Field: field, Message: message})
}

func (v *validator) checked(set bool) bool {
	return set || !v.partial
}

func (v *validator) notNullString(field string, o Optional[string]) {
	if v.checked(o.Set) && !o.Valid {
		v.add(field, "NotNull")
	}
}

func (v *validator) sizeString(field string, o Optional[string], minLen, maxLen int) {
	if !o.Valid {
		return
	}
	n := utf8.RuneCountInString(o.Value)
	if n < minLen || n > maxLen {
		v.add(field, "Size")
	}
}

func (v *validator) result() error {
	if len(v.errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.errs}
}
