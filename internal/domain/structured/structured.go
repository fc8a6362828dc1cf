// Package structured pulls a JSON payload out of free-form model output.
//
// The extractor takes the greedy span between the first opening bracket and
// the last closing bracket of the requested shape. Prose and markdown fences
// around a single payload are tolerated; a reply carrying two independent
// JSON fragments yields whatever the combined span parses to (usually a
// parse failure).
package structured

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Shape selects the kind of JSON value to look for.
type Shape int

// Shapes.
const (
	Object Shape = iota
	Array
)

func (s Shape) brackets() (byte, byte) {
	if s == Array {
		return '[', ']'
	}
	return '{', '}'
}

// String implements fmt.Stringer.
func (s Shape) String() string {
	if s == Array {
		return "array"
	}
	return "object"
}

// Span returns the greedy bracket span for shape. Text without an opening
// bracket yields ErrNoJSON; an opening bracket never closed after it yields
// ErrMalformedJSON.
func Span(text string, shape Shape) (string, error) {
	open, closing := shape.brackets()
	start := strings.IndexByte(text, open)
	if start == -1 {
		return "", ErrNoJSON
	}
	end := strings.LastIndexByte(text, closing)
	if end < start {
		return "", fmt.Errorf("%w: unterminated %s", ErrMalformedJSON, shape)
	}
	return text[start : end+1], nil
}

// Extract locates the span for shape and checks it is well-formed JSON. The
// returned bytes are the raw span, ready for Decode.
func Extract(text string, shape Shape) (json.RawMessage, error) {
	span, err := Span(text, shape)
	if err != nil {
		return nil, err
	}
	if !json.Valid([]byte(span)) {
		return nil, fmt.Errorf("%w: %s span is not valid JSON", ErrMalformedJSON, shape)
	}
	return json.RawMessage(span), nil
}

// Decode extracts the payload for shape and unmarshals it into T. Decoding
// errors caused by a payload of the wrong structure are reported as
// ErrShapeMismatch.
func Decode[T any](text string, shape Shape) (T, error) {
	var out T
	raw, err := Extract(text, shape)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}
	return out, nil
}

// Recoverable reports whether err is one of the extraction or shape errors
// that callers resolve locally with a raw passthrough or a fallback.
func Recoverable(err error) bool {
	return isAny(err, ErrNoJSON, ErrMalformedJSON, ErrShapeMismatch)
}
