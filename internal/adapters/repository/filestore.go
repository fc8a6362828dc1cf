package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/okian/aithena/internal/domain/matching"
	"github.com/okian/aithena/pkg/logger"
	"github.com/okian/aithena/pkg/metrics"
)

// FileStore serves the candidate pool from a JSON or YAML file. The first
// successful read is cached and never changes afterwards; failed reads are
// retried on the next call.
type FileStore struct {
	path     string
	readFile func(string) ([]byte, error)
	logger   logger.Logger

	mu     sync.RWMutex
	pool   []matching.Candidate
	loaded bool
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store for path. Nothing is read until Load or List.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{
		path:     path,
		readFile: os.ReadFile,
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the pool if it has not been read yet.
func (s *FileStore) Load(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}

	pool, err := s.read()
	if err != nil {
		s.logger.Warn(ctx, "candidate pool not loaded", logger.String("path", s.path), logger.Error(err))
		return err
	}
	s.pool = pool
	s.loaded = true
	metrics.UpdateCandidatePoolSize(len(pool))
	s.logger.Info(ctx, "candidate pool loaded", logger.String("path", s.path), logger.Int("candidates", len(pool)))
	return nil
}

func (s *FileStore) read() ([]matching.Candidate, error) {
	data, err := s.readFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	var pool []matching.Candidate
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".json":
		err = json.Unmarshal(data, &pool)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &pool)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrUnavailable, s.path, err)
	}
	return pool, nil
}

// List implements Store.
func (s *FileStore) List(ctx context.Context) ([]matching.Candidate, error) {
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.pool) == 0 {
		return nil, ErrEmptyPool
	}
	return slices.Clone(s.pool), nil
}

// Count implements Store.
func (s *FileStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pool)
}
