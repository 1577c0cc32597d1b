package app

import "errors"

// Sentinel kinds for service errors.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrAlreadyStarted  = errors.New("service already started")
	ErrNoTokenProvider = errors.New("token provider required")
)
