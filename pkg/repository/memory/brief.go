package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/brieflab/briefd/pkg/domain/model"
	"github.com/brieflab/briefd/pkg/domain/types"
)

type briefRepository struct {
	mu     sync.RWMutex
	briefs map[types.BriefID]*model.Brief

	// compositeIndex mimics the availability of Firestore composite
	// indexes. When false, queries take the same fallback paths as the
	// Firestore backend with missing indexes.
	compositeIndex bool

	fallbackWindow int
}

func newBriefRepository() *briefRepository {
	return &briefRepository{
		briefs:         make(map[types.BriefID]*model.Brief),
		compositeIndex: true,
		fallbackWindow: 50,
	}
}

// copyBrief creates a deep copy of a brief
func copyBrief(b *model.Brief) *model.Brief {
	decisions := make([]string, len(b.Decisions))
	copy(decisions, b.Decisions)

	actions := make([]model.ActionItem, len(b.Actions))
	copy(actions, b.Actions)

	questions := make([]string, len(b.Questions))
	copy(questions, b.Questions)

	return &model.Brief{
		ID:              b.ID,
		ClientSessionID: b.ClientSessionID,
		SourceText:      b.SourceText,
		Summary:         b.Summary,
		Decisions:       decisions,
		Actions:         actions,
		Questions:       questions,
		Fingerprint:     b.Fingerprint,
		CreatedAt:       b.CreatedAt,
	}
}

func (r *briefRepository) Create(ctx context.Context, b *model.Brief) (*model.Brief, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyBrief(b)
	created.ID = types.NewBriefID()
	created.CreatedAt = time.Now().UTC()

	r.briefs[created.ID] = created
	return copyBrief(created), nil
}

func (r *briefRepository) Get(ctx context.Context, sessionID types.SessionID, id types.BriefID) (*model.Brief, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, exists := r.briefs[id]
	if !exists || b.ClientSessionID != sessionID {
		return nil, goerr.Wrap(model.ErrBriefNotFound, "brief not found", goerr.V("id", id))
	}

	return copyBrief(b), nil
}

func (r *briefRepository) ListRecent(ctx context.Context, sessionID types.SessionID, limit int) ([]*model.BriefSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*model.Brief
	for _, b := range r.briefs {
		if b.ClientSessionID == sessionID {
			matched = append(matched, b)
		}
	}

	// The ordered composite query and the fallback both end up sorted
	// newest first; the fallback simply sorts after collecting, like the
	// Firestore backend does in memory.
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if len(matched) > limit {
		matched = matched[:limit]
	}

	summaries := make([]*model.BriefSummary, len(matched))
	for i, b := range matched {
		summaries[i] = b.Summarize()
	}
	return summaries, nil
}

func (r *briefRepository) Delete(ctx context.Context, sessionID types.SessionID, id types.BriefID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, exists := r.briefs[id]
	if !exists || b.ClientSessionID != sessionID {
		return goerr.Wrap(model.ErrBriefNotFound, "brief not found", goerr.V("id", id))
	}

	delete(r.briefs, id)
	return nil
}

func (r *briefRepository) FindByFingerprint(ctx context.Context, sessionID types.SessionID, fp types.Fingerprint) (*model.Brief, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.compositeIndex {
		for _, b := range r.briefs {
			if b.ClientSessionID == sessionID && b.Fingerprint == fp {
				return copyBrief(b), nil
			}
		}
		return nil, nil
	}

	// Fallback path: match on fingerprint alone, then filter by session
	// among the most recent records. May miss an old duplicate beyond the
	// window, same trade-off as the Firestore fallback.
	var candidates []*model.Brief
	for _, b := range r.briefs {
		if b.Fingerprint == fp {
			candidates = append(candidates, b)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})
	if len(candidates) > r.fallbackWindow {
		candidates = candidates[:r.fallbackWindow]
	}
	for _, b := range candidates {
		if b.ClientSessionID == sessionID {
			return copyBrief(b), nil
		}
	}
	return nil, nil
}

func (r *briefRepository) PurgeExpired(ctx context.Context, olderThan time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	purged := 0
	for id, b := range r.briefs {
		if b.CreatedAt.Before(olderThan) {
			delete(r.briefs, id)
			purged++
		}
	}
	return purged, nil
}
