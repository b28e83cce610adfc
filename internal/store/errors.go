package store

import "errors"

// ErrNotFound is returned when a row referenced by id does not exist.
// Callers branch on it with errors.Is; every other store failure is a wrapped
// driver error.
var ErrNotFound = errors.New("not found")
