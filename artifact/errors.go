package artifact

import "errors"

var (
	// ErrNotFound is returned when no artifact exists for the session / name
	// pair.
	ErrNotFound = errors.New("artifact not found")

	// ErrInvalidName is returned for names that are empty or contain a path
	// separator.
	ErrInvalidName = errors.New("artifact: invalid name")
)
