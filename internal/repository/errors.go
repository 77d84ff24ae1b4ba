// Package repository holds the Session Store: a per-browser key/value store
// with interchangeable backends and a typed layer over it.  Sentinel errors
// defined here let handlers map failures to HTTP status codes.
package repository

import "errors"

// ErrNotFound is returned by typed reads when the key is absent or its
// payload cannot be decoded.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when a write-once entry (a booking comment)
// is already present.
var ErrAlreadyExists = errors.New("already exists")
