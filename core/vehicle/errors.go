package vehicle

import "errors"

// ErrCapacityExceeded is returned when a creation would push an owner past
// the vehicle cap. The stored collection is left untouched.
var ErrCapacityExceeded = errors.New("vehicle cap reached")

// ErrNotFound is returned when a mutation targets an id absent from the
// owner's collection, e.g. after a concurrent delete.
var ErrNotFound = errors.New("vehicle not found")

// ErrValidation is returned for malformed input. It is raised before any
// persistence attempt, so no partial writes can result from it.
var ErrValidation = errors.New("validation failed")
