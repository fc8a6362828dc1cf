// Package repository provides read-only access to the candidate pool.
package repository

import (
	"context"

	"github.com/okian/aithena/internal/domain/matching"
)

// Store provides read access to the candidate pool.
type Store interface {
	// List returns every candidate. The returned slice may be modified by
	// the caller; the records themselves must not be.
	// Returns ErrUnavailable if the pool cannot be read and ErrEmptyPool if
	// it holds no records.
	List(ctx context.Context) ([]matching.Candidate, error)

	// Count returns the number of loaded candidates, or 0 before the first
	// successful load.
	Count(ctx context.Context) int
}
