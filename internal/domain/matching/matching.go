// Package matching filters the candidate pool against extracted tokens and
// samples the invite targets.
package matching

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Sampling bounds.
const (
	MinCount = 1
	MaxCount = 6
)

// Candidate is a read-only reference record eligible for matching.
type Candidate struct {
	ID      string   `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	Photo   string   `json:"photo,omitempty" yaml:"photo"`
	Major   string   `json:"major,omitempty" yaml:"major"`
	Courses []string `json:"courses" yaml:"courses"`
}

// Option applies a configuration option to the Matcher.
type Option func(*Matcher)

// WithSeed makes sampling reproducible.
func WithSeed(seed int64) Option {
	return func(m *Matcher) {
		m.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // sampling, not security
	}
}

// WithRand injects a generator. The matcher serializes access to it.
func WithRand(rng *rand.Rand) Option {
	return func(m *Matcher) {
		if rng != nil {
			m.rng = rng
		}
	}
}

// Matcher selects candidates. It is safe for concurrent use.
type Matcher struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Matcher seeded from the clock unless an option says otherwise.
func New(opts ...Option) *Matcher {
	m := &Matcher{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // sampling, not security
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Filter returns the candidates whose courses contain, or start with, any
// token once spaces are stripped and case is folded. An empty token set, or
// a set that matches nobody, yields the whole pool.
func Filter(pool []Candidate, tokens []string) []Candidate {
	needles := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if n := squash(t); n != "" {
			needles = append(needles, n)
		}
	}
	if len(needles) == 0 {
		return pool
	}

	var out []Candidate
	for _, c := range pool {
		if matches(c, needles) {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return pool
	}
	return out
}

func matches(c Candidate, needles []string) bool {
	for _, course := range c.Courses {
		hay := squash(course)
		if hay == "" {
			continue
		}
		for _, n := range needles {
			if strings.Contains(hay, n) || strings.HasPrefix(hay, n) {
				return true
			}
		}
	}
	return false
}

func squash(s string) string {
	return strings.ToUpper(strings.ReplaceAll(s, " ", ""))
}

// Clamp bounds a requested count to [MinCount, MaxCount].
func Clamp(count int) int {
	switch {
	case count < MinCount:
		return MinCount
	case count > MaxCount:
		return MaxCount
	}
	return count
}

// Select filters pool by tokens, shuffles the result and returns the first
// Clamp(count) entries (fewer when the pool is smaller). pool is not modified.
func (m *Matcher) Select(pool []Candidate, tokens []string, count int) []Candidate {
	matched := Filter(pool, tokens)
	shuffled := make([]Candidate, len(matched))
	copy(shuffled, matched)

	m.mu.Lock()
	m.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	m.mu.Unlock()

	n := Clamp(count)
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
