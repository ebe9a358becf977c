package usecase

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"

	"github.com/brieflab/briefd/pkg/domain/interfaces"
	"github.com/brieflab/briefd/pkg/domain/model"
	"github.com/brieflab/briefd/pkg/domain/model/config"
	"github.com/brieflab/briefd/pkg/domain/types"
	"github.com/brieflab/briefd/pkg/service/briefgen"
	"github.com/brieflab/briefd/pkg/utils/logging"
)

// BriefUseCase orchestrates the create/list/get/delete workflows
type BriefUseCase struct {
	repo      interfaces.Repository
	generator briefgen.Service
	policy    *config.Policy
}

func NewBriefUseCase(repo interfaces.Repository, generator briefgen.Service, policy *config.Policy) *BriefUseCase {
	return &BriefUseCase{
		repo:      repo,
		generator: generator,
		policy:    policy,
	}
}

// CreateResult distinguishes a freshly generated brief from a duplicate hit
type CreateResult struct {
	Brief *model.Brief

	// Existing is true when the brief was returned from the duplicate
	// check instead of a new generation.
	Existing bool
}

// CreateBrief validates the input, suppresses duplicates by content
// fingerprint, invokes the generator and persists the result. No partial
// brief is ever stored: generation or store failures are terminal.
func (uc *BriefUseCase) CreateBrief(ctx context.Context, sessionID types.SessionID, sourceText string) (*CreateResult, error) {
	if err := sessionID.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid session", goerr.V("cause", err.Error()))
	}
	if strings.TrimSpace(sourceText) == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "source_text must not be empty")
	}
	// The bound counts characters, not bytes; multibyte text must not be
	// penalized for its encoding.
	if n := utf8.RuneCountInString(sourceText); n > uc.policy.MaxSourceTextLen {
		return nil, goerr.Wrap(ErrInvalidInput, "source_text exceeds maximum length",
			goerr.V("length", n),
			goerr.V("max", uc.policy.MaxSourceTextLen),
		)
	}

	fp := types.NewFingerprint(sourceText)

	// Duplicate lookup failures are logged but never block generation; a
	// missed duplicate only costs one extra LLM call.
	existing, err := uc.repo.Brief().FindByFingerprint(ctx, sessionID, fp)
	if err != nil {
		logging.From(ctx).Warn("duplicate check failed, proceeding with generation",
			"error", err.Error())
	}
	if existing != nil {
		logging.From(ctx).Info("returning existing brief for duplicate content",
			"brief_id", existing.ID,
			"fingerprint", fp,
		)
		return &CreateResult{Brief: existing, Existing: true}, nil
	}

	if uc.generator == nil {
		return nil, goerr.Wrap(ErrNotConfigured, "no LLM client configured")
	}

	content, err := uc.generator.Generate(ctx, sourceText)
	if err != nil {
		return nil, goerr.Wrap(err, "brief generation failed")
	}

	created, err := uc.repo.Brief().Create(ctx, model.NewBrief(sessionID, sourceText, content))
	if err != nil {
		// The brief was generated but not persisted; report clearly
		// rather than returning an unsaved object as if durable.
		return nil, goerr.Wrap(err, "failed to store generated brief")
	}

	return &CreateResult{Brief: created}, nil
}

// ListBriefs returns recent brief summaries for the session, newest first
func (uc *BriefUseCase) ListBriefs(ctx context.Context, sessionID types.SessionID, limit int) ([]*model.BriefSummary, error) {
	if err := sessionID.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid session", goerr.V("cause", err.Error()))
	}
	if limit == 0 {
		limit = uc.policy.DefaultListLimit
	}
	if limit < 1 || limit > uc.policy.MaxListLimit {
		return nil, goerr.Wrap(ErrInvalidInput, "limit out of range",
			goerr.V("limit", limit),
			goerr.V("max", uc.policy.MaxListLimit),
		)
	}

	summaries, err := uc.repo.Brief().ListRecent(ctx, sessionID, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list briefs", goerr.V(SessionIDKey, sessionID))
	}
	if summaries == nil {
		summaries = []*model.BriefSummary{}
	}
	return summaries, nil
}

// GetBrief returns the full brief if it belongs to the session
func (uc *BriefUseCase) GetBrief(ctx context.Context, sessionID types.SessionID, id types.BriefID) (*model.Brief, error) {
	if err := sessionID.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid session", goerr.V("cause", err.Error()))
	}
	if err := id.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid brief ID", goerr.V("cause", err.Error()))
	}

	brief, err := uc.repo.Brief().Get(ctx, sessionID, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get brief", goerr.V(BriefIDKey, id))
	}
	return brief, nil
}

// DeleteBrief removes the brief if it belongs to the session
func (uc *BriefUseCase) DeleteBrief(ctx context.Context, sessionID types.SessionID, id types.BriefID) error {
	if err := sessionID.Validate(); err != nil {
		return goerr.Wrap(ErrInvalidInput, "invalid session", goerr.V("cause", err.Error()))
	}
	if err := id.Validate(); err != nil {
		return goerr.Wrap(ErrInvalidInput, "invalid brief ID", goerr.V("cause", err.Error()))
	}

	if err := uc.repo.Brief().Delete(ctx, sessionID, id); err != nil {
		return goerr.Wrap(err, "failed to delete brief", goerr.V(BriefIDKey, id))
	}
	return nil
}
