package urlhandler

import (
	"fmt"
)

// Error represents a general error in the urlhandler library.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error carrying the same message, so wrapped parse
// failures still satisfy errors.Is(err, ErrInvalidURL).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == e.Message
}

// NewError creates a new general Error.
func NewError(message string) error {
	return &Error{Message: message}
}

// WrapError wraps an existing error with a message.
func WrapError(err error, message string) error {
	return &Error{Message: message, Err: err}
}

// ErrInvalidURL is returned by Parse for input that cannot be parsed as an
// absolute URL with a host.
var ErrInvalidURL = NewError("invalid URL format")
