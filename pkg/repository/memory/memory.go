package memory

import (
	"github.com/brieflab/briefd/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is an in-memory repository for development and tests
type Memory struct {
	brief *briefRepository
}

var _ interfaces.Repository = &Memory{}

// Option configures the in-memory repository
type Option func(*Memory)

// WithoutCompositeIndex makes the brief repository behave like a Firestore
// instance whose composite indexes have not been provisioned, forcing the
// fallback query paths. Tests use this to cover both strategies.
func WithoutCompositeIndex() Option {
	return func(m *Memory) {
		m.brief.compositeIndex = false
	}
}

// WithFallbackWindow bounds how many recent fingerprint matches the fallback
// duplicate lookup scans before filtering by session.
func WithFallbackWindow(n int) Option {
	return func(m *Memory) {
		if n > 0 {
			m.brief.fallbackWindow = n
		}
	}
}

func New(opts ...Option) *Memory {
	m := &Memory{
		brief: newBriefRepository(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Brief() interfaces.BriefRepository {
	return m.brief
}

func (m *Memory) Close() error {
	return nil
}
