package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/aithena/internal/domain/invite"
	"github.com/okian/aithena/internal/domain/matching"
	"github.com/okian/aithena/internal/domain/profile"
	"github.com/okian/aithena/internal/domain/prompt"
	"github.com/okian/aithena/internal/domain/structured"
	"github.com/okian/aithena/internal/domain/tokens"
	"github.com/okian/aithena/pkg/logger"
	"github.com/okian/aithena/pkg/metrics"
)

type inviteLine struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Invites picks candidates matching the profile and attaches a sanitized
// message to each. Tokens always come from the heuristic extractor. Messages
// come from the model when it answers usefully, otherwise every candidate
// gets invite.DefaultMessage. Fails only when the candidate pool is
// unavailable.
func (s *Service) Invites(ctx context.Context, req InviteRequest) (InvitesResult, error) {
	start := time.Now()

	pool, err := s.store.List(ctx)
	if err != nil {
		s.finish(prompt.Invite, metrics.PathError, start)
		return InvitesResult{}, fmt.Errorf("%w: %w", ErrCandidatesUnavailable, err)
	}

	count := DefaultInviteCount
	if req.Count != nil {
		count = *req.Count
	}
	toks := tokens.Extract(profile.Normalize(req.Profile), tokens.Base)
	selected := s.matcher.Select(pool, toks, count)
	s.logger.Debug(ctx, "candidates selected",
		logger.Int("pool", len(pool)),
		logger.Int("tokens", len(toks)),
		logger.Int("selected", len(selected)))

	messages, path := s.inviteMessages(ctx, req.Model, selected)

	out := make([]Invite, 0, len(selected))
	for _, c := range selected {
		msg, ok := messages[c.Name]
		if !ok {
			msg = invite.DefaultMessage
		}
		out = append(out, newInvite(c, msg))
	}
	metrics.RecordInvitesGenerated(len(out))
	s.finish(prompt.Invite, path, start)
	return InvitesResult{Invites: out}, nil
}

func (s *Service) inviteMessages(ctx context.Context, model string, selected []matching.Candidate) (map[string]string, string) {
	if !s.model.Configured() || len(selected) == 0 {
		return nil, metrics.PathFallback
	}

	students := make([]prompt.Student, len(selected))
	names := make([]string, len(selected))
	for i, c := range selected {
		students[i] = prompt.Student{Name: c.Name, Courses: c.Courses}
		names[i] = c.Name
	}

	resp, err := s.generate(ctx, prompt.Invite, model, s.cfg.ModelTimeout(), prompt.InviteInput{Students: students})
	if err != nil {
		s.noteModelFailure(ctx, prompt.Invite, err)
		return nil, metrics.PathFallback
	}

	lines, err := structured.Decode[[]inviteLine](resp.Text, prompt.Invite.Shape())
	if err != nil {
		s.noteStructured(ctx, prompt.Invite, resp.Model, err)
		return nil, metrics.PathFallback
	}

	messages := make(map[string]string, len(lines))
	for _, l := range lines {
		name, text := strings.TrimSpace(l.Name), strings.TrimSpace(l.Text)
		if name == "" || text == "" {
			continue
		}
		messages[name] = invite.Sanitize(text, names...)
	}
	return messages, metrics.PathModel
}
