package services

import "errors"

var (
	// ErrInvalidArgument rejects malformed input. It is always returned
	// before any store interaction happens.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUserNotFound means the external identity has no local user record.
	ErrUserNotFound = errors.New("user not found")
)
