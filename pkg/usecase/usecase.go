package usecase

import (
	"github.com/brieflab/briefd/pkg/domain/interfaces"
	"github.com/brieflab/briefd/pkg/domain/model/config"
	"github.com/brieflab/briefd/pkg/service/briefgen"
)

// UseCases bundles the application workflows around a repository and an
// optional brief generator. A nil generator means the LLM is not configured;
// create requests are rejected with ErrNotConfigured.
type UseCases struct {
	repo      interfaces.Repository
	generator briefgen.Service
	policy    *config.Policy
	Brief     *BriefUseCase
}

type Option func(*UseCases)

// WithGenerator wires the LLM-backed brief generator
func WithGenerator(g briefgen.Service) Option {
	return func(uc *UseCases) {
		uc.generator = g
	}
}

// WithPolicy overrides the default service limits
func WithPolicy(p *config.Policy) Option {
	return func(uc *UseCases) {
		uc.policy = p
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:   repo,
		policy: config.DefaultPolicy(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Brief = NewBriefUseCase(repo, uc.generator, uc.policy)

	return uc
}

// Policy exposes the effective limits, mainly for the HTTP layer
func (uc *UseCases) Policy() *config.Policy {
	return uc.policy
}

// LLMConfigured reports whether a generator is wired
func (uc *UseCases) LLMConfigured() bool {
	return uc.generator != nil
}
