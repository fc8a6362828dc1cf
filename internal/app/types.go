package service

import (
	"encoding/json"

	"github.com/okian/aithena/internal/domain/matching"
	"github.com/okian/aithena/internal/domain/plan"
	"github.com/okian/aithena/internal/domain/profile"
)

// DefaultInviteCount is used when an invite request omits count.
const DefaultInviteCount = 5

// ExtractRequest asks for course tokens from free text and/or a profile.
type ExtractRequest struct {
	Profile *profile.Profile `json:"profile,omitempty"`
	Text    string           `json:"text,omitempty"`
	Model   string           `json:"model,omitempty"`
}

// ExtractResult carries the token set; ModelUsed is empty on the fallback path.
type ExtractResult struct {
	Tokens    []string `json:"tokens"`
	ModelUsed string   `json:"model_used,omitempty"`
}

// InviteRequest asks for study invitations matched to a profile.
type InviteRequest struct {
	Profile *profile.Profile `json:"profile,omitempty"`
	Count   *int             `json:"count,omitempty"`
	Model   string           `json:"model,omitempty"`
}

// Invite is a selected candidate with its sanitized message.
type Invite struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Photo   string   `json:"photo"`
	Major   string   `json:"major"`
	Courses []string `json:"courses"`
	Message string   `json:"message"`
}

func newInvite(c matching.Candidate, message string) Invite {
	courses := c.Courses
	if courses == nil {
		courses = []string{}
	}
	return Invite{ID: c.ID, Name: c.Name, Photo: c.Photo, Major: c.Major, Courses: courses, Message: message}
}

// InvitesResult is the invite endpoint payload.
type InvitesResult struct {
	Invites []Invite `json:"invites"`
}

// RecommendRequest asks for per-course study recommendations.
type RecommendRequest struct {
	Profile profile.Profile `json:"profile"`
	Model   string          `json:"model,omitempty"`
}

// CourseRecommendation lists suggestions for one course.
type CourseRecommendation struct {
	Course          string   `json:"course"`
	Recommendations []string `json:"recommendations"`
}

type recommendKind int

const (
	recommendEmpty recommendKind = iota
	recommendStructured
	recommendRaw
)

// RecommendResult is one of three payloads: structured courses with the
// model used, the raw model text when the reply did not fit, or an empty
// course list with a note when the profile lists no courses.
type RecommendResult struct {
	kind      recommendKind
	Courses   []CourseRecommendation
	Raw       string
	Notes     string
	ModelUsed string
}

// IsRaw reports whether the model reply was passed through unparsed.
func (r RecommendResult) IsRaw() bool { return r.kind == recommendRaw }

// MarshalJSON implements json.Marshaler.
func (r RecommendResult) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case recommendRaw:
		return json.Marshal(struct {
			Raw       string `json:"raw"`
			ModelUsed string `json:"model_used"`
		}{r.Raw, r.ModelUsed})
	case recommendStructured:
		courses := r.Courses
		if courses == nil {
			courses = []CourseRecommendation{}
		}
		return json.Marshal(struct {
			Courses   []CourseRecommendation `json:"courses"`
			ModelUsed string                 `json:"model_used"`
		}{courses, r.ModelUsed})
	default:
		return json.Marshal(struct {
			Courses []CourseRecommendation `json:"courses"`
			Notes   string                 `json:"notes"`
		}{[]CourseRecommendation{}, r.Notes})
	}
}

// PlanRequest asks for a study session plan for two participants.
type PlanRequest struct {
	You      *profile.Profile `json:"you,omitempty"`
	Partner  *profile.Profile `json:"partner,omitempty"`
	Course   string           `json:"course,omitempty"`
	Duration int              `json:"duration,omitempty"`
	Model    string           `json:"model,omitempty"`
}

// PlanResult carries the plan; ModelUsed is nil when the template was used.
type PlanResult struct {
	Plan      plan.Plan `json:"plan"`
	ModelUsed *string   `json:"model_used"`
}

// ChatMessage is one line of conversation history.
type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Persona is a simulated chat participant.
type Persona struct {
	Name string `json:"name"`
	Bio  string `json:"bio,omitempty"`
}

// ChatRequest asks for the next simulated turn.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
	Personas []Persona     `json:"personas"`
	Model    string        `json:"model,omitempty"`
}

// ChatReply is one persona turn.
type ChatReply struct {
	Name string `json:"name"`
	Text string `json:"text"`
}
