package structured

import "errors"

// Sentinel kinds for structured extraction.
var (
	// ErrNoJSON means no bracket span of the requested shape exists.
	ErrNoJSON = errors.New("no JSON payload found")
	// ErrMalformedJSON means a span exists but does not parse.
	ErrMalformedJSON = errors.New("malformed JSON payload")
	// ErrShapeMismatch means the payload parsed but lacks required fields.
	ErrShapeMismatch = errors.New("payload does not match expected shape")
)

func isAny(err error, kinds ...error) bool {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}
