package device

import "errors"

// unavailableError signals that no device can satisfy an allocation request
// right now, so the HTTP layer can return 503 instead of 500.
type unavailableError struct{ msg string }

func (e unavailableError) Error() string { return e.msg }

// ErrUnavailable constructs an unavailableError.
func ErrUnavailable(msg string) error { return unavailableError{msg: msg} }

// IsUnavailable reports whether err indicates an unsatisfiable device request.
func IsUnavailable(err error) bool {
	var t unavailableError
	return errors.As(err, &t)
}
