// Package errs holds the lookup failures every store reports, so callers can
// branch on them without depending on a storage backend.
package errs

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)
