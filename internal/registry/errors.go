package registry

import "errors"

// notFoundError covers unknown ids, unknown versions and the missing
// process default, so the HTTP layer can map all three to 404.
type notFoundError struct{ id, version string }

func (e notFoundError) Error() string {
	switch {
	case e.id == "":
		return "no default model registered"
	case e.version == "":
		return "model not found: " + e.id
	default:
		return "model not found: " + e.id + "@" + e.version
	}
}

// ErrNotFound constructs a notFoundError.
func ErrNotFound(id, version string) error { return notFoundError{id: id, version: version} }

// IsNotFound reports whether err indicates an unknown model or version.
func IsNotFound(err error) bool {
	var t notFoundError
	return errors.As(err, &t)
}

// invalidSpecError signals a spec rejected at registration.
type invalidSpecError struct{ msg string }

func (e invalidSpecError) Error() string { return e.msg }

// ErrInvalidSpec constructs an invalidSpecError.
func ErrInvalidSpec(msg string) error { return invalidSpecError{msg: msg} }

// IsInvalidSpec reports whether err indicates a rejected registration.
func IsInvalidSpec(err error) bool {
	var t invalidSpecError
	return errors.As(err, &t)
}
