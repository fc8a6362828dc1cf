package repository

import "errors"

// Sentinel kinds for candidate pool errors.
var (
	ErrUnavailable       = errors.New("candidate pool unavailable")
	ErrEmptyPool         = errors.New("candidate pool is empty")
	ErrUnsupportedFormat = errors.New("unsupported candidate file format")
)
