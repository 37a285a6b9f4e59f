package manager

import "errors"

// configError signals a deploy configuration problem (missing required
// weights, unusable overrides) so the HTTP layer can return 400.
type configError struct{ msg string }

func (e configError) Error() string { return e.msg }

// ErrConfig constructs a configError.
func ErrConfig(msg string) error { return configError{msg: msg} }

// IsConfig reports whether err indicates a deploy configuration problem.
func IsConfig(err error) bool {
	var t configError
	return errors.As(err, &t)
}

// invalidInputError signals a request payload that does not decode against
// the model's declared input type.
type invalidInputError struct{ msg string }

func (e invalidInputError) Error() string { return e.msg }

// ErrInvalidInput constructs an invalidInputError.
func ErrInvalidInput(msg string) error { return invalidInputError{msg: msg} }

// IsInvalidInput reports whether err indicates an undecodable input.
func IsInvalidInput(err error) bool {
	var t invalidInputError
	return errors.As(err, &t)
}
