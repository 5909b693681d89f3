package model

import (
	"errors"
	"fmt"
)

// ErrEngineUnavailable marks an entity engine that could not be built or
// reached at startup. The analyzer degrades to a no-op when it sees it.
var ErrEngineUnavailable = errors.New("entity engine unavailable")

// InputError reports a request that carried neither text nor a resolvable source
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// NewInputError creates an InputError
func NewInputError(field, reason string) error {
	return &InputError{Field: field, Reason: reason}
}

// IsInputError reports whether err wraps an InputError
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
