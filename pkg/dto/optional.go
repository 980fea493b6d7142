// Package dto holds the JSON shapes exchanged over the REST API.
//
// Scalar and relationship fields are wrapped in Optional so a request body can
// tell three states apart: the key is missing, the key is null, or the key has
// a value. Partial updates rely on that distinction.
package dto

import (
	"bytes"
	"encoding/json"
)

// Optional is a JSON field that remembers whether it was present.
// Use it with the `omitzero` tag option so absent values are not emitted.
type Optional[T any] struct {
	Set   bool // key present in the document
	Valid bool // key present and not null
	Value T
}

// Some returns a present, non-null value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, Value: v}
}

// Null returns a present, explicit null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// FromPtr returns Some(*p), or Null when p is nil.
func FromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return Null[T]()
	}
	return Some(*p)
}

// Ptr returns a pointer to the value, or nil when absent or null.
func (o Optional[T]) Ptr() *T {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

// Get returns the value, or the zero value when absent or null.
func (o Optional[T]) Get() T {
	if !o.Valid {
		var zero T
		return zero
	}
	return o.Value
}

// IsZero reports whether the field was absent. It drives `omitzero`.
func (o Optional[T]) IsZero() bool {
	return !o.Set
}

// MarshalJSON writes null for an explicit null, the value otherwise.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// UnmarshalJSON is only called when the key is present.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}
