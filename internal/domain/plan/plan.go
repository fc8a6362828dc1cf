// Package plan builds study-session schedules: a deterministic template
// scaled to the requested duration, and a validator for model plans.
package plan

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/okian/aithena/internal/domain/structured"
)

// Duration bounds in minutes.
const (
	MinDuration     = 30
	MaxDuration     = 90
	DefaultDuration = 45
)

// Defaults used when neither the request nor the model supplies a value.
const (
	DefaultCourse = "your course"
	DefaultNotes  = "This is a suggested structure. Adjust as needed."
	StatusDraft   = "draft"
)

// Block is a titled range of minutes relative to the session start.
type Block struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Title string `json:"title"`
	Desc  string `json:"desc"`
}

// Plan is a proposed study session.
type Plan struct {
	Course   string  `json:"course"`
	Duration int     `json:"duration"`
	Blocks   []Block `json:"blocks"`
	Notes    string  `json:"notes"`
	Status   string  `json:"status"`
}

// template is the canonical 45 minute session.
var template = [...]Block{
	{Start: 0, End: 5, Title: "Set goals", Desc: "Define 2–3 outcomes and pick topics."},
	{Start: 5, End: 20, Title: "Focus block 1", Desc: "Work problems and compare approaches."},
	{Start: 20, End: 25, Title: "Break", Desc: "Rest, stretch, hydrate."},
	{Start: 25, End: 40, Title: "Focus block 2", Desc: "Discuss tricky concepts and summarize."},
	{Start: 40, End: 45, Title: "Wrap-up", Desc: "Agree on next steps and resources."},
}

// ClampDuration maps an absent (zero) duration to DefaultDuration and bounds
// the result to [MinDuration, MaxDuration].
func ClampDuration(d int) int {
	if d == 0 {
		d = DefaultDuration
	}
	return max(MinDuration, min(MaxDuration, d))
}

// Fallback returns the template scaled to ClampDuration(duration).
// Boundaries are multiplied by duration/45 and rounded half to even.
func Fallback(course string, duration int) Plan {
	d := ClampDuration(duration)
	blocks := make([]Block, len(template))
	copy(blocks, template[:])
	if d != DefaultDuration {
		scale := float64(d) / DefaultDuration
		for i := range blocks {
			blocks[i].Start = scaleMinute(blocks[i].Start, scale)
			blocks[i].End = scaleMinute(blocks[i].End, scale)
		}
	}
	if course == "" {
		course = DefaultCourse
	}
	return Plan{
		Course:   course,
		Duration: d,
		Blocks:   blocks,
		Notes:    DefaultNotes,
		Status:   StatusDraft,
	}
}

func scaleMinute(m int, scale float64) int {
	return int(math.RoundToEven(float64(m) * scale))
}

// Monotonic reports an error unless every block satisfies 0 <= start < end
// and blocks never move backwards.
func (p Plan) Monotonic() error {
	prevEnd := 0
	for i, b := range p.Blocks {
		if b.Start < 0 || b.Start >= b.End {
			return fmt.Errorf("%w: block %d spans %d-%d", ErrNotMonotonic, i, b.Start, b.End)
		}
		if b.Start < prevEnd {
			return fmt.Errorf("%w: block %d starts at %d before %d", ErrNotMonotonic, i, b.Start, prevEnd)
		}
		prevEnd = b.End
	}
	return nil
}

// wirePlan decodes leniently: only "blocks" must be a list of objects.
// Every other field is coerced when possible and defaulted otherwise.
type wirePlan struct {
	Course   any              `json:"course"`
	Duration any              `json:"duration"`
	Blocks   []map[string]any `json:"blocks"`
	Notes    any              `json:"notes"`
	Status   any              `json:"status"`
}

var leadingNumber = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)`)

// number coerces a JSON number or a string starting with one ("60 minutes").
func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		m := leadingNumber.FindStringSubmatch(t)
		if m == nil {
			return 0, false
		}
		f, err := strconv.ParseFloat(m[1], 64)
		return f, err == nil
	}
	return 0, false
}

// text returns v when it is a string, "" otherwise.
func text(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func minutes(v any) int {
	f, _ := number(v)
	return int(math.RoundToEven(f))
}

// Validate extracts a plan from model output. The only structural
// requirement is a "blocks" list of block objects; the plan is otherwise
// taken as-is, with course, duration and status filled from the request
// when the model leaves them out or sends something unusable. Errors are
// the structured package kinds.
func Validate(reply, course string, duration int) (Plan, error) {
	w, err := structured.Decode[wirePlan](reply, structured.Object)
	if err != nil {
		return Plan{}, err
	}
	if w.Blocks == nil {
		return Plan{}, fmt.Errorf("%w: missing blocks list", structured.ErrShapeMismatch)
	}

	p := Plan{
		Course: text(w.Course),
		Blocks: make([]Block, len(w.Blocks)),
		Notes:  text(w.Notes),
		Status: text(w.Status),
	}
	if d, ok := number(w.Duration); ok {
		p.Duration = int(math.RoundToEven(d))
	}
	for i, b := range w.Blocks {
		p.Blocks[i] = Block{
			Start: minutes(b["start"]),
			End:   minutes(b["end"]),
			Title: text(b["title"]),
			Desc:  text(b["desc"]),
		}
	}
	if p.Course == "" {
		p.Course = course
		if p.Course == "" {
			p.Course = DefaultCourse
		}
	}
	if p.Duration <= 0 {
		p.Duration = ClampDuration(duration)
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	return p, nil
}
