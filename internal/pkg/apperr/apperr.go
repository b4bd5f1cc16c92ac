package apperr

import "errors"

var (
	// ErrNotFound covers both "does not exist" and "exists but is not
	// yours". The two are deliberately collapsed so responses never leak
	// whether a foreign id resolves.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized means the acting identity could not be established.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
)
