package token

import "errors"

// Sentinel kinds for token errors.
var (
	ErrEmptySecret  = errors.New("token secret must not be empty")
	ErrInvalidToken = errors.New("invalid token")
)
