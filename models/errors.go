package models

import "errors"

// ErrNotFound is wrapped by every store when a record does not exist.
var ErrNotFound = errors.New("not found")
