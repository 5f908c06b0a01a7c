package service

import (
	"sync"

	"github.com/ludo-technologies/rsbridge/domain"
)

// CollectingSink keeps every violation it receives. It is safe for concurrent use.
type CollectingSink struct {
	mu         sync.Mutex
	violations []domain.Violation
}

// NewCollectingSink creates an empty sink
func NewCollectingSink() *CollectingSink {
	return &CollectingSink{}
}

// Save appends v
func (s *CollectingSink) Save(v domain.Violation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.violations = append(s.violations, v)
}

// Violations returns a copy of the collected violations in arrival order
func (s *CollectingSink) Violations() []domain.Violation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Violation, len(s.violations))
	copy(out, s.violations)
	return out
}

// Len returns the number of collected violations
func (s *CollectingSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.violations)
}

// FanOutSink forwards each violation to every sink in order
type FanOutSink []domain.ViolationSink

// Save forwards v
func (f FanOutSink) Save(v domain.Violation) {
	for _, s := range f {
		s.Save(v)
	}
}
