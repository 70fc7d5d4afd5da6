package esm

import "errors"

// ErrNotFound indicates an offset query landed inside no record.
var ErrNotFound = errors.New("esm: offset not found")
