package store

import "errors"

// ErrNotFound is returned when no record exists for the requested key.
// Callers treat it as a normal not-found result, not a failure.
var ErrNotFound = errors.New("record not found")

// ErrInvalidInput is returned when a required argument is missing or
// malformed. It is raised before any mutation is attempted.
var ErrInvalidInput = errors.New("invalid input")
