package llm

import (
	"context"
	"errors"
	"time"

	"github.com/okian/aithena/pkg/metrics"
)

// Request is an ordered list of model identifiers and one prompt. Timeout
// bounds each attempt; zero means DefaultTimeout.
type Request struct {
	Models  []string
	Prompt  string
	Timeout time.Duration
}

// Candidates returns requested (or def when empty) followed by fallbacks,
// skipping blanks and repeats.
func Candidates(requested, def string, fallbacks ...string) []string {
	first := requested
	if first == "" {
		first = def
	}
	seen := make(map[string]struct{}, len(fallbacks)+1)
	out := make([]string, 0, len(fallbacks)+1)
	for _, m := range append([]string{first}, fallbacks...) {
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// GenerateFirst tries each model once, in order, and returns the first
// success. When every attempt fails the last failure is returned. A
// cancelled ctx or ErrNotConfigured stops the walk early.
func GenerateFirst(ctx context.Context, c Client, req Request) (Response, error) {
	if len(req.Models) == 0 {
		return Response{}, ErrNoModels
	}

	var last error
	for i, model := range req.Models {
		if i > 0 {
			metrics.RecordModelFallback()
		}
		resp, err := generateOnce(ctx, c, model, req)
		if err == nil {
			return resp, nil
		}
		if errors.Is(err, ErrNotConfigured) {
			return Response{}, err
		}
		last = err
		if ctx.Err() != nil {
			break
		}
	}
	return Response{}, last
}

func generateOnce(ctx context.Context, c Client, model string, req Request) (Response, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.Generate(ctx, model, req.Prompt)
}
