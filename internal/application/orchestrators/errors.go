package orchestrators

import (
	"errors"
	"fmt"
)

// ErrForbidden is returned when the viewer lacks the role an operation needs.
var ErrForbidden = errors.New("operation not permitted for this viewer")

// ValidationError carries a message safe to show to the user. Err, when set,
// is the domain error that triggered it.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(message string, err error) error {
	return &ValidationError{Message: message, Err: err}
}
