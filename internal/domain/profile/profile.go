// Package profile models the loosely structured student profile accepted by
// the AI endpoints and flattens it into the canonical text blob every
// pipeline stage reads.
package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Segment labels used in the normalized blob.
const (
	LabelMajor   = "MAJOR:"
	LabelBio     = "BIO:"
	LabelCourses = "COURSES:"
)

// CoursesKind tags which wire form a Courses value arrived in.
type CoursesKind int

// Courses wire forms.
const (
	CoursesNone CoursesKind = iota
	CoursesList
	CoursesText
)

// Courses is the list-or-delimited-string union at the JSON boundary. The
// raw form is kept only for inspection; Items is the normalized sequence
// every consumer uses.
type Courses struct {
	Kind  CoursesKind
	Items []string
}

// NewCourses builds a list-form Courses value.
func NewCourses(items ...string) Courses {
	return Courses{Kind: CoursesList, Items: cleanList(items)}
}

// ParseCourses builds a text-form Courses value from a comma delimited string.
func ParseCourses(text string) Courses {
	return Courses{Kind: CoursesText, Items: cleanList(strings.Split(text, ","))}
}

// UnmarshalJSON accepts null, a JSON string, or an array of strings.
func (c *Courses) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = Courses{}
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidCourses, err)
		}
		*c = ParseCourses(s)
		return nil
	case '[':
		var raw []any
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidCourses, err)
		}
		items := make([]string, 0, len(raw))
		for _, v := range raw {
			switch t := v.(type) {
			case string:
				items = append(items, t)
			case nil:
			default:
				items = append(items, fmt.Sprint(t))
			}
		}
		*c = NewCourses(items...)
		return nil
	}
	return ErrInvalidCourses
}

// MarshalJSON always emits the normalized list.
func (c Courses) MarshalJSON() ([]byte, error) {
	if c.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.Items)
}

// Empty reports whether no course survived normalization.
func (c Courses) Empty() bool { return len(c.Items) == 0 }

// Joined renders the courses as "A, B, C".
func (c Courses) Joined() string { return strings.Join(c.Items, ", ") }

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Profile is the student input shared by extract, invites and study plans.
type Profile struct {
	Name         string  `json:"name,omitempty"`
	Major        string  `json:"major,omitempty"`
	Bio          string  `json:"bio,omitempty"`
	Availability string  `json:"availability,omitempty"`
	Courses      Courses `json:"courses"`
}

// Normalize flattens p into the labeled MAJOR/BIO/COURSES blob. Absent
// fields are omitted, never emitted as empty labels.
func Normalize(p *Profile) string {
	if p == nil {
		return ""
	}
	parts := make([]string, 0, 3)
	if m := strings.TrimSpace(p.Major); m != "" {
		parts = append(parts, LabelMajor+" "+m)
	}
	if b := strings.TrimSpace(p.Bio); b != "" {
		parts = append(parts, LabelBio+" "+b)
	}
	if !p.Courses.Empty() {
		parts = append(parts, LabelCourses+" "+p.Courses.Joined())
	}
	return strings.Join(parts, "\n")
}

// Blob joins an optional free-text segment with the normalized profile.
func Blob(text string, p *Profile) string {
	parts := make([]string, 0, 2)
	if t := strings.TrimSpace(text); t != "" {
		parts = append(parts, t)
	}
	if n := Normalize(p); n != "" {
		parts = append(parts, n)
	}
	return strings.Join(parts, "\n")
}
