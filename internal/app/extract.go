package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/aithena/internal/domain/profile"
	"github.com/okian/aithena/internal/domain/prompt"
	"github.com/okian/aithena/internal/domain/structured"
	"github.com/okian/aithena/internal/domain/tokens"
	"github.com/okian/aithena/pkg/metrics"
)

type extractReply struct {
	Tokens []any `json:"tokens"`
}

// Extract returns course tokens for the request. The model is asked first
// when configured; an unusable or empty reply falls back to the heuristic
// extractor. Extract never fails.
func (s *Service) Extract(ctx context.Context, req ExtractRequest) (ExtractResult, error) {
	start := time.Now()
	blob := profile.Blob(req.Text, req.Profile)

	if s.model.Configured() {
		resp, err := s.generate(ctx, prompt.Extract, req.Model, s.cfg.ModelTimeout(), prompt.ExtractInput{Text: blob})
		if err != nil {
			s.noteModelFailure(ctx, prompt.Extract, err)
		} else {
			reply, err := structured.Decode[extractReply](resp.Text, prompt.Extract.Shape())
			if err != nil {
				s.noteStructured(ctx, prompt.Extract, resp.Model, err)
			} else if toks := tokens.Normalize(stringify(reply.Tokens)); len(toks) > 0 {
				metrics.RecordTokensExtracted(len(toks))
				s.finish(prompt.Extract, metrics.PathModel, start)
				return ExtractResult{Tokens: toks, ModelUsed: resp.Model}, nil
			}
		}
	}

	toks := tokens.Extract(blob, tokens.Extended)
	metrics.RecordTokensExtracted(len(toks))
	s.finish(prompt.Extract, metrics.PathFallback, start)
	return ExtractResult{Tokens: toks}, nil
}

// stringify renders loosely typed JSON values as strings; nulls are dropped.
func stringify(in []any) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		switch t := v.(type) {
		case nil:
		case string:
			out = append(out, t)
		default:
			out = append(out, fmt.Sprint(t))
		}
	}
	return out
}
