package hierarchy

import "errors"

// Sentinel kinds for tree construction and lookup errors.
var (
	ErrInvalidName   = errors.New("invalid node name")
	ErrDuplicateName = errors.New("duplicate node name")
	ErrNodeNotFound  = errors.New("node not found")
)
