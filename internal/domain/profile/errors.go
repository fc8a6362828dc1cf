package profile

import "errors"

// ErrInvalidCourses is returned when courses is neither a string nor a list.
var ErrInvalidCourses = errors.New("courses must be a string or a list of strings")
