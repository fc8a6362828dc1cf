package stubs

import "errors"

// Error constants.
var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrBadQuery     = errors.New("invalid query parameter")
)
