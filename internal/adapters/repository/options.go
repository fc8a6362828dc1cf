package repository

import "github.com/okian/aithena/pkg/logger"

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithReadFile replaces the file reader. Tests use it to count reads.
func WithReadFile(fn func(string) ([]byte, error)) Option {
	return func(s *FileStore) {
		if fn != nil {
			s.readFile = fn
		}
	}
}
