package plan

import "errors"

// ErrNotMonotonic is returned by Plan.Monotonic.
var ErrNotMonotonic = errors.New("plan blocks are not monotonic")
