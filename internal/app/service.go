// Package service provides the pipeline orchestrators that implement the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/aithena/internal/adapters/llm"
	"github.com/okian/aithena/internal/adapters/repository"
	"github.com/okian/aithena/internal/config"
	"github.com/okian/aithena/internal/domain/matching"
	"github.com/okian/aithena/internal/domain/prompt"
	"github.com/okian/aithena/internal/domain/structured"
	"github.com/okian/aithena/pkg/logger"
	"github.com/okian/aithena/pkg/metrics"
)

// ModelClient is the generation backend used by the orchestrators.
type ModelClient interface {
	llm.Client
	// Configured reports whether an API key is available.
	Configured() bool
}

var useCases = []prompt.UseCase{prompt.Extract, prompt.Invite, prompt.Recommend, prompt.Plan, prompt.Chat}

var paths = []string{metrics.PathModel, metrics.PathFallback, metrics.PathRaw, metrics.PathError}

// Service implements the API dependencies for the pipeline.
type Service struct {
	mu sync.RWMutex

	cfg     *config.Config
	model   ModelClient
	store   repository.Store
	matcher *matching.Matcher
	logger  logger.Logger

	// runs counts outcomes per "use_case/path"; keys are fixed at New.
	runs map[string]*atomic.Int64

	started bool
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig sets the configuration. Defaults to config.New().
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithModelClient sets the model backend. Defaults to a Gemini client built
// from the configuration.
func WithModelClient(c ModelClient) Option {
	return func(s *Service) {
		if c != nil {
			s.model = c
		}
	}
}

// WithStore sets the candidate pool. Defaults to a file store at
// Config.CandidatesPath.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithMatcher sets the candidate matcher. Defaults to one seeded from
// Config.RandomSeed, or the clock when that is zero.
func WithMatcher(m *matching.Matcher) Option {
	return func(s *Service) {
		if m != nil {
			s.matcher = m
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cfg:    config.New(),
		logger: logger.Nop(),
		runs:   make(map[string]*atomic.Int64, len(useCases)*len(paths)),
	}
	for _, uc := range useCases {
		for _, p := range paths {
			s.runs[runKey(uc, p)] = new(atomic.Int64)
		}
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.model == nil {
		s.model = llm.NewGeminiClient(
			llm.WithAPIKey(s.cfg.GeminiAPIKey),
			llm.WithBaseURL(s.cfg.GeminiBaseURL),
			llm.WithLogger(s.logger.Named("llm")),
		)
	}
	if s.store == nil {
		s.store = repository.NewFileStore(s.cfg.CandidatesPath, repository.WithLogger(s.logger.Named("repository")))
	}
	if s.matcher == nil {
		if s.cfg.RandomSeed != 0 {
			s.matcher = matching.New(matching.WithSeed(s.cfg.RandomSeed))
		} else {
			s.matcher = matching.New()
		}
	}

	return s
}

// Start warms the candidate pool. A pool that cannot be read is logged and
// retried on first use; only the invite endpoint depends on it.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if loader, ok := s.store.(interface{ Load(context.Context) error }); ok {
		if err := loader.Load(ctx); err != nil {
			s.logger.Warn(ctx, "candidate pool unavailable at startup", logger.Error(err))
		}
	}

	s.started = true
	s.logger.Info(ctx, "pipeline service started",
		logger.Bool("model_configured", s.model.Configured()),
		logger.String("default_model", s.cfg.GeminiModel),
		logger.Int("candidates", s.store.Count(ctx)),
	)
	return nil
}

// Stop marks the service stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "pipeline service stopped")
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	ctx := context.Background()
	runs := make(map[string]map[string]int64, len(useCases))
	for _, uc := range useCases {
		byPath := make(map[string]int64, len(paths))
		for _, p := range paths {
			byPath[p] = s.runs[runKey(uc, p)].Load()
		}
		runs[string(uc)] = byPath
	}

	candidates := s.store.Count(ctx)
	metrics.UpdateCandidatePoolSize(candidates)

	return map[string]interface{}{
		"started":         started,
		"modelConfigured": s.model.Configured(),
		"defaultModel":    s.cfg.GeminiModel,
		"fallbackModels":  s.cfg.FallbackModels,
		"candidates":      candidates,
		"runs":            runs,
	}
}

func runKey(uc prompt.UseCase, path string) string { return string(uc) + "/" + path }

// models returns the ordered identifiers to try for a request.
func (s *Service) models(requested string) []string {
	return llm.Candidates(requested, s.cfg.GeminiModel, s.cfg.FallbackModels...)
}

// generate renders the prompt for uc and walks the model chain.
func (s *Service) generate(ctx context.Context, uc prompt.UseCase, requested string, timeout time.Duration, data any) (llm.Response, error) {
	text, err := prompt.Build(uc, data)
	if err != nil {
		return llm.Response{}, err
	}
	return llm.GenerateFirst(ctx, s.model, llm.Request{
		Models:  s.models(requested),
		Prompt:  text,
		Timeout: timeout,
	})
}

// finish records the outcome of one pipeline run.
func (s *Service) finish(uc prompt.UseCase, path string, start time.Time) {
	s.runs[runKey(uc, path)].Add(1)
	metrics.RecordPipelineRun(string(uc), path)
	metrics.RecordPipelineLatency(string(uc), float64(time.Since(start).Milliseconds()))
}

// noteStructured logs and counts a reply that could not be used.
func (s *Service) noteStructured(ctx context.Context, uc prompt.UseCase, model string, err error) {
	kind := "shape"
	switch {
	case errors.Is(err, structured.ErrNoJSON):
		kind = "no_json"
	case errors.Is(err, structured.ErrMalformedJSON):
		kind = "malformed"
	}
	metrics.RecordStructuredError(string(uc), kind)
	s.logger.Debug(ctx, "model reply not usable",
		logger.String("use_case", string(uc)),
		logger.String("model", model),
		logger.String("kind", kind),
		logger.Error(err))
}

// noteModelFailure logs a failed model chain that the caller recovers from.
func (s *Service) noteModelFailure(ctx context.Context, uc prompt.UseCase, err error) {
	if errors.Is(err, llm.ErrNotConfigured) {
		return
	}
	metrics.RecordErrorByComponent("model", string(uc))
	s.logger.Warn(ctx, "model unavailable, using fallback",
		logger.String("use_case", string(uc)),
		logger.Error(err))
}
