package interfaces

import (
	"context"
	"time"

	"github.com/brieflab/briefd/pkg/domain/model"
	"github.com/brieflab/briefd/pkg/domain/types"
)

// BriefRepository provides session-scoped persistence of briefs. Every read
// and delete verifies ownership in application code; no operation observes a
// brief belonging to a different session, even for a valid ID.
type BriefRepository interface {
	// Create assigns ID and CreatedAt, then persists the brief.
	Create(ctx context.Context, brief *model.Brief) (*model.Brief, error)

	// Get returns the brief only if it belongs to the session.
	Get(ctx context.Context, sessionID types.SessionID, id types.BriefID) (*model.Brief, error)

	// ListRecent returns up to limit summaries for the session, newest
	// first.
	ListRecent(ctx context.Context, sessionID types.SessionID, limit int) ([]*model.BriefSummary, error)

	// Delete removes the brief after an ownership check.
	Delete(ctx context.Context, sessionID types.SessionID, id types.BriefID) error

	// FindByFingerprint returns an existing brief with the same content
	// fingerprint within the session, or nil when none exists.
	FindByFingerprint(ctx context.Context, sessionID types.SessionID, fp types.Fingerprint) (*model.Brief, error)

	// PurgeExpired deletes briefs created before the cutoff, across all
	// sessions. Returns the number of deleted briefs.
	PurgeExpired(ctx context.Context, olderThan time.Time) (int, error)
}
