package core

import "errors"

var (
	// ErrNotFound is returned when looking up an entity that is not alive
	ErrNotFound = errors.New("entity not found")

	// ErrResourceUnavailable is returned when a startup asset cannot be loaded
	ErrResourceUnavailable = errors.New("resource unavailable")
)
