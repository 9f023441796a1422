package usecases

import (
	"encoding/json"
	"errors"
)

// ErrNotFound is returned when an entity does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError marks a rejected input; handlers map it to 400.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Msg }

// ConflictError marks an operation invalid in the entity's current state;
// handlers map it to 400/409.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func marshalCached(v any) ([]byte, error)      { return json.Marshal(v) }
func unmarshalCached(data []byte, v any) error { return json.Unmarshal(data, v) }
