package apperrors

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// ErrInvalidSort is returned for a sort property that cannot be ordered by.
	ErrInvalidSort = errors.New("invalid sort property")

	// Identifier errors map to the reason codes returned by the API.
	ErrIDExists   = errors.New("idexists")
	ErrIDNull     = errors.New("idnull")
	ErrIDInvalid  = errors.New("idinvalid")
	ErrIDNotFound = errors.New("idnotfound")
)
