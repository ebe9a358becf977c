package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/brieflab/briefd/pkg/domain/model"
	"github.com/brieflab/briefd/pkg/domain/types"
	"github.com/brieflab/briefd/pkg/utils/logging"
)

type briefRepository struct {
	client           *firestore.Client
	collectionPrefix string

	// fallbackWindow bounds the in-memory session filter when the
	// composite fingerprint index is not provisioned.
	fallbackWindow int
}

func newBriefRepository(client *firestore.Client) *briefRepository {
	return &briefRepository{
		client:           client,
		collectionPrefix: "",
		fallbackWindow:   50,
	}
}

func (r *briefRepository) briefsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_briefs"
	}
	return "briefs"
}

// indexMissing reports whether the query failed because a required composite
// index has not been built. Firestore signals this as FailedPrecondition.
func indexMissing(err error) bool {
	return status.Code(err) == codes.FailedPrecondition
}

func (r *briefRepository) Create(ctx context.Context, b *model.Brief) (*model.Brief, error) {
	created := *b
	created.ID = types.NewBriefID()
	created.CreatedAt = time.Now().UTC()

	docRef := r.client.Collection(r.briefsCollection()).Doc(created.ID.String())
	if _, err := docRef.Create(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create brief", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *briefRepository) Get(ctx context.Context, sessionID types.SessionID, id types.BriefID) (*model.Brief, error) {
	docSnap, err := r.client.Collection(r.briefsCollection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrBriefNotFound, "brief not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get brief", goerr.V("id", id))
	}

	var b model.Brief
	if err := docSnap.DataTo(&b); err != nil {
		return nil, goerr.Wrap(err, "failed to decode brief", goerr.V("id", id))
	}

	// Ownership is enforced here in application code, not only by database
	// security rules.
	if b.ClientSessionID != sessionID {
		return nil, goerr.Wrap(model.ErrBriefNotFound, "brief not found", goerr.V("id", id))
	}

	return &b, nil
}

func (r *briefRepository) ListRecent(ctx context.Context, sessionID types.SessionID, limit int) ([]*model.BriefSummary, error) {
	query := r.client.Collection(r.briefsCollection()).
		Where("client_session_id", "==", sessionID.String()).
		OrderBy("created_at", firestore.Desc).
		Limit(limit)

	briefs, err := collectBriefs(query.Documents(ctx))
	if err != nil {
		if !indexMissing(err) {
			return nil, goerr.Wrap(err, "failed to list briefs", goerr.V("session_id", sessionID))
		}

		logging.From(ctx).Warn("composite index (client_session_id, created_at DESC) unavailable, using fallback query",
			"collection", r.briefsCollection())

		// Fallback: single-field query on the session, re-sorted in
		// memory.
		fallback := r.client.Collection(r.briefsCollection()).
			Where("client_session_id", "==", sessionID.String())
		briefs, err = collectBriefs(fallback.Documents(ctx))
		if err != nil {
			return nil, goerr.Wrap(err, "fallback list query failed", goerr.V("session_id", sessionID))
		}
		sort.Slice(briefs, func(i, j int) bool {
			return briefs[i].CreatedAt.After(briefs[j].CreatedAt)
		})
		if len(briefs) > limit {
			briefs = briefs[:limit]
		}
	}

	summaries := make([]*model.BriefSummary, len(briefs))
	for i, b := range briefs {
		summaries[i] = b.Summarize()
	}
	return summaries, nil
}

func (r *briefRepository) Delete(ctx context.Context, sessionID types.SessionID, id types.BriefID) error {
	// Verify ownership first
	if _, err := r.Get(ctx, sessionID, id); err != nil {
		return err
	}

	if _, err := r.client.Collection(r.briefsCollection()).Doc(id.String()).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete brief", goerr.V("id", id))
	}

	return nil
}

func (r *briefRepository) FindByFingerprint(ctx context.Context, sessionID types.SessionID, fp types.Fingerprint) (*model.Brief, error) {
	query := r.client.Collection(r.briefsCollection()).
		Where("client_session_id", "==", sessionID.String()).
		Where("sha256", "==", fp.String()).
		Limit(1)

	briefs, err := collectBriefs(query.Documents(ctx))
	if err == nil {
		if len(briefs) == 0 {
			return nil, nil
		}
		return briefs[0], nil
	}
	if !indexMissing(err) {
		return nil, goerr.Wrap(err, "failed to query brief by fingerprint", goerr.V("fingerprint", fp))
	}

	logging.From(ctx).Warn("composite index (client_session_id, sha256) unavailable, using fallback query",
		"collection", r.briefsCollection())

	// Fallback: single-field query on the fingerprint, session filtered in
	// memory among the most recent records.
	fallback := r.client.Collection(r.briefsCollection()).
		Where("sha256", "==", fp.String()).
		Limit(r.fallbackWindow)
	candidates, err := collectBriefs(fallback.Documents(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "fallback fingerprint query failed", goerr.V("fingerprint", fp))
	}
	for _, b := range candidates {
		if b.ClientSessionID == sessionID {
			return b, nil
		}
	}
	return nil, nil
}

func (r *briefRepository) PurgeExpired(ctx context.Context, olderThan time.Time) (int, error) {
	query := r.client.Collection(r.briefsCollection()).
		Where("created_at", "<", olderThan)

	iter := query.Documents(ctx)
	defer iter.Stop()

	purged := 0
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return purged, goerr.Wrap(err, "failed to iterate expired briefs")
		}
		if _, err := docSnap.Ref.Delete(ctx); err != nil {
			return purged, goerr.Wrap(err, "failed to delete expired brief", goerr.V("doc_id", docSnap.Ref.ID))
		}
		purged++
	}

	return purged, nil
}

func collectBriefs(iter *firestore.DocumentIterator) ([]*model.Brief, error) {
	defer iter.Stop()

	var briefs []*model.Brief
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var b model.Brief
		if err := docSnap.DataTo(&b); err != nil {
			return nil, goerr.Wrap(err, "failed to decode brief", goerr.V("doc_id", docSnap.Ref.ID))
		}
		briefs = append(briefs, &b)
	}

	return briefs, nil
}
