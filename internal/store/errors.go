package store

import (
	"errors"
)

var (
	// ErrVersionConflict is returned when a conditional version bump loses to a
	// concurrent generate call on the same project.
	ErrVersionConflict = errors.New("project version conflict")
)
