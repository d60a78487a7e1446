package repository

import "errors"

// Sentinel kinds for profile store errors.
var (
	ErrInvalidName   = errors.New("invalid user name")
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")
	ErrAlreadyListed = errors.New("node already listed")
	ErrNotListed     = errors.New("node not listed")
)
