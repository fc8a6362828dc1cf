package service

import "errors"

// Sentinel kinds for orchestrator errors.
var (
	// ErrCandidatesUnavailable means the candidate pool could not be read or is empty.
	ErrCandidatesUnavailable = errors.New("candidate pool unavailable")
)
