package database

import "errors"

// ErrNotFound is returned when a requested row does not exist. Callers
// surface it directly (HTTP 404 equivalent) instead of retrying.
var ErrNotFound = errors.New("not found")
