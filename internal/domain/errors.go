package domain

import "errors"

// Error kinds for the copy protocol. Callers classify with errors.Is
// and map kinds to HTTP status codes; anything outside this set is an
// unexpected error and surfaces as a generic 500.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrCopyFailed   = errors.New("copy failed")
	ErrCopyInFlight = errors.New("copy already in flight")
)
