package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInputShape is returned when a required field is missing. Nothing is recorded.
	ErrInputShape = errors.New("missing required field")

	// ErrCollaboratorUnavailable is returned when the event log or workspace cannot be used.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
)

// WriteError reports a failed report or snapshot write. Partially written
// files are left in place.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Missing builds an ErrInputShape for the named field.
func Missing(field string) error {
	return fmt.Errorf("%w: %s", ErrInputShape, field)
}
