package llm

import (
	"errors"
	"fmt"
)

// Sentinel kinds for model client errors.
var (
	// ErrNotConfigured means no API key is available.
	ErrNotConfigured = errors.New("GEMINI_API_KEY not configured")
	// ErrNoModels means the candidate list was empty.
	ErrNoModels = errors.New("no model identifiers to try")
	// ErrBadResponse means a 200 reply did not carry generated text.
	ErrBadResponse = errors.New("unexpected model response shape")
)

// UpstreamError carries the status and body of a failed model call.
// Transport failures and unreadable 200 replies are reported with
// http.StatusBadGateway.
type UpstreamError struct {
	Model  string
	Status int
	Body   string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model %s: status %d: %v", e.Model, e.Status, e.Err)
	}
	return fmt.Sprintf("model %s: status %d: %s", e.Model, e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
