package model

import "errors"

var (
	// ErrNotFound is returned when a catalog row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous is returned when a name resolves to more than one catalog row.
	ErrAmbiguous = errors.New("ambiguous match")
	// ErrValidation is returned for malformed or missing caller input.
	ErrValidation = errors.New("validation error")
	// ErrExternal wraps failures of the model, embedding, or database calls.
	ErrExternal = errors.New("external call failed")
	// ErrMalformedToolCall is returned when tool-call arguments do not parse
	// into the shape the catalog declares.
	ErrMalformedToolCall = errors.New("malformed tool call")
)
