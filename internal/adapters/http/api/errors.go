package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrMissingParam = errors.New("missing parameter")
	ErrInvalidLimit = errors.New("limit must be a non-negative integer")
)
