package domain

import "errors"

// Sentinel errors for the identity registry. Use errors.Is() to check these.
var (
	// ErrAlreadyRegistered indicates the identity already holds a profile.
	ErrAlreadyRegistered = errors.New("identity already registered")

	// ErrInvalidName indicates a display name that violates length constraints.
	ErrInvalidName = errors.New("invalid name")

	// ErrNameTaken indicates another identity already holds the manufacturer name.
	ErrNameTaken = errors.New("manufacturer name taken")

	// ErrUsernameTaken indicates another identity already holds the username.
	ErrUsernameTaken = errors.New("username taken")
)
