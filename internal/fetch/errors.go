package fetch

import "errors"

// fetchError marks a failure to materialize an artifact so the HTTP layer
// can return 502 for upstream trouble. The cause stays reachable through
// Unwrap.
type fetchError struct {
	src string
	err error
}

func (e fetchError) Error() string { return "fetch " + e.src + ": " + e.err.Error() }
func (e fetchError) Unwrap() error { return e.err }

// ErrFetch wraps err as a fetch failure for the named source.
func ErrFetch(src string, err error) error { return fetchError{src: src, err: err} }

// IsFetch reports whether err came from fetching an artifact.
func IsFetch(err error) bool {
	var t fetchError
	return errors.As(err, &t)
}
