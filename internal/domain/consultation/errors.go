package consultation

import "errors"

var (
	// ErrNotFound is returned by repositories when no record matches.
	ErrNotFound = errors.New("consultation not found")

	// ErrStateCorruption means a stored record cannot be advanced: its step
	// is outside the flow, or an answer it depends on is missing.
	ErrStateCorruption = errors.New("consultation state corrupted")

	// ErrNotInProgress is returned when input arrives for a record that has
	// already left the intake flow.
	ErrNotInProgress = errors.New("consultation is not in progress")

	ErrInvalidTransition = errors.New("invalid status transition")
)
