package service

import (
	"context"
	"errors"
	"time"

	"github.com/okian/aithena/internal/adapters/llm"
	"github.com/okian/aithena/internal/domain/prompt"
	"github.com/okian/aithena/internal/domain/structured"
	"github.com/okian/aithena/pkg/metrics"
)

// DefaultPersonaName is used for raw replies when no persona was supplied.
const DefaultPersonaName = "Student"

// Chat produces the next simulated persona turn. Without an API key it
// returns llm.ErrNotConfigured; model failures are returned as-is. A reply
// without a usable {name, text} object is attributed to the first persona.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (ChatReply, error) {
	start := time.Now()
	if !s.model.Configured() {
		s.finish(prompt.Chat, metrics.PathError, start)
		return ChatReply{}, llm.ErrNotConfigured
	}

	in := prompt.ChatInput{
		Personas: make([]prompt.Persona, len(req.Personas)),
		History:  make([]prompt.Message, len(req.Messages)),
	}
	for i, p := range req.Personas {
		in.Personas[i] = prompt.Persona{Name: p.Name, Bio: p.Bio}
	}
	for i, m := range req.Messages {
		in.History[i] = prompt.Message{Role: m.Role, Text: m.Text}
	}

	resp, err := s.generate(ctx, prompt.Chat, req.Model, s.cfg.LongModelTimeout(), in)
	if err != nil {
		s.finish(prompt.Chat, metrics.PathError, start)
		metrics.RecordErrorByComponent("model", string(prompt.Chat))
		return ChatReply{}, err
	}

	fallbackName := DefaultPersonaName
	if len(req.Personas) > 0 {
		fallbackName = req.Personas[0].Name
	}

	reply, err := structured.Decode[ChatReply](resp.Text, prompt.Chat.Shape())
	if err == nil && reply.Text == "" {
		err = errors.Join(structured.ErrShapeMismatch, errors.New("missing text"))
	}
	if err != nil {
		s.noteStructured(ctx, prompt.Chat, resp.Model, err)
		s.finish(prompt.Chat, metrics.PathRaw, start)
		return ChatReply{Name: fallbackName, Text: resp.Text}, nil
	}
	if reply.Name == "" {
		reply.Name = fallbackName
	}
	s.finish(prompt.Chat, metrics.PathModel, start)
	return reply, nil
}
