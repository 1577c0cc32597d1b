package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors. The code strings written to clients form a
// closed set; clients branch on them, never on the message text.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
)

// Closed error code set for response envelopes.
const (
	codeBadRequest   = "bad_request"
	codeUnauthorized = "unauthorized"
	codeInvalidToken = "invalid_token"
	codeInternal     = "internal_error"
)

// Wrap tags err with the operation that produced it.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// NewKind creates an op-tagged error of the given kind.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind tags err with both an operation and a kind, keeping errors.Is
// working for each.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
