// Package prompt renders the instruction sent to the generative model for
// each use case. Every template states the task, embeds the normalized
// context, spells out the response shape and forbids extra prose.
package prompt

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/okian/aithena/internal/domain/structured"
)

// UseCase identifies a pipeline instance.
type UseCase string

// Use cases.
const (
	Extract   UseCase = "extract"
	Invite    UseCase = "invite"
	Plan      UseCase = "plan"
	Recommend UseCase = "recommend"
	Chat      UseCase = "chat"
)

// Shape is the JSON shape the template asks the model for. The extractor
// does not read the prompt; this table is where the two are kept in step.
func (u UseCase) Shape() structured.Shape {
	if u == Invite {
		return structured.Array
	}
	return structured.Object
}

// ExtractInput feeds the token extraction template.
type ExtractInput struct {
	Text string
}

// Student is one candidate line in the invite template.
type Student struct {
	Name    string
	Courses []string
}

// InviteInput feeds the invite template.
type InviteInput struct {
	Students []Student
}

// Participant describes one side of a study session.
type Participant struct {
	Name         string
	Major        string
	Availability string
	Bio          string
	Courses      []string
}

// PlanInput feeds the study plan template.
type PlanInput struct {
	You      *Participant
	Partner  *Participant
	Course   string
	Duration int
}

// RecommendInput feeds the recommendation template.
type RecommendInput struct {
	Name         string
	Major        string
	Availability string
	Bio          string
	Courses      []string
}

// Persona is one simulated chat participant.
type Persona struct {
	Name string
	Bio  string
}

// Message is one line of chat history.
type Message struct {
	Role string
	Text string
}

// ChatInput feeds the chat template.
type ChatInput struct {
	Personas []Persona
	History  []Message
}

var funcs = template.FuncMap{
	"join":  strings.Join,
	"upper": strings.ToUpper,
	"dash": func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "-"
		}
		return s
	},
}

const extractTmpl = `Extract normalized course/subject tokens from the user text. ` +
	`Prefer uppercase abbreviations like CSE, BIO, ECN and explicit codes like 'CSE 230'. ` +
	`Return strictly JSON: {"tokens": [string]}. Do not add any other text.

TEXT:
{{.Text}}`

const inviteTmpl = `Write a short, friendly one-line invite for each student below to study together. ` +
	`Do NOT include anyone's name in the message; keep it generic. ` +
	`Start with 'Hey' (no name), then the invite. Keep it casual (<= 12 words). ` +
	`Return strictly a JSON array of {"name": string, "text": string}. Do not add any other text.

Students:
{{range .Students}}- {{.Name}} (courses: {{join .Courses ", "}})
{{end}}`

const planTmpl = `{{define "participant"}}{{if .}}name={{dash .Name}}; major={{dash .Major}}; availability={{dash .Availability}}; courses={{dash (join .Courses ", ")}}; bio={{dash .Bio}}{{else}}(unknown){{end}}{{end}}` +
	`Design a collaborative study session plan we can propose for approval. ` +
	`Use short, clear blocks with minute ranges. Include a quick break and a wrap-up. ` +
	`Return STRICT JSON with shape: {"course": string, "duration": number, "blocks": [ {"start": number, "end": number, "title": string, "desc": string } ], "notes": string, "status": "draft" }. ` +
	`Do not add any other text.

YOU: {{template "participant" .You}}
PARTNER: {{template "participant" .Partner}}
COURSE: {{.Course}}
DURATION_MIN: {{.Duration}}`

const recommendTmpl = `You are a study-planning assistant. Given a list of course codes and a short profile, ` +
	`return only targeted study recommendations for each course. Respond strictly in JSON with this schema: ` +
	`{"courses":[{"course":string,"recommendations":[string]}]} without extra text.

Profile: name={{.Name}}, major={{.Major}}, availability={{.Availability}}, bio={{.Bio}}.
Courses: {{join .Courses ", "}}.`

const chatTmpl = `You are simulating a short group chat for students. Here are the personas.
Personas:
{{range .Personas}}- {{.Name}}: {{.Bio}}
{{end}}
RULES: Reply as exactly one persona each turn. Keep it friendly and concise (<= 2 sentences). ` +
	`Return strictly JSON: {"name": string, "text": string}. Do not add extra text.

History so far:
{{range .History}}{{upper .Role}}: {{.Text}}
{{end}}
Now produce the next reply JSON.`

var templates = map[UseCase]*template.Template{
	Extract:   template.Must(template.New(string(Extract)).Funcs(funcs).Parse(extractTmpl)),
	Invite:    template.Must(template.New(string(Invite)).Funcs(funcs).Parse(inviteTmpl)),
	Plan:      template.Must(template.New(string(Plan)).Funcs(funcs).Parse(planTmpl)),
	Recommend: template.Must(template.New(string(Recommend)).Funcs(funcs).Parse(recommendTmpl)),
	Chat:      template.Must(template.New(string(Chat)).Funcs(funcs).Parse(chatTmpl)),
}

// Build renders the template for useCase with data. data must be the input
// type matching the use case.
func Build(useCase UseCase, data any) (string, error) {
	tmpl, ok := templates[useCase]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownUseCase, useCase)
	}
	if err := checkInput(useCase, data); err != nil {
		return "", err
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRender, err)
	}
	return b.String(), nil
}

func checkInput(useCase UseCase, data any) error {
	var ok bool
	switch useCase {
	case Extract:
		_, ok = data.(ExtractInput)
	case Invite:
		_, ok = data.(InviteInput)
	case Plan:
		_, ok = data.(PlanInput)
	case Recommend:
		_, ok = data.(RecommendInput)
	case Chat:
		_, ok = data.(ChatInput)
	}
	if !ok {
		return fmt.Errorf("%w: %T for %s", ErrInputType, data, useCase)
	}
	return nil
}
