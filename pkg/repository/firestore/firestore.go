package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"

	"github.com/brieflab/briefd/pkg/domain/interfaces"
)

// Firestore is the document-store backed repository
type Firestore struct {
	client *firestore.Client
	brief  *briefRepository
}

var _ interfaces.Repository = &Firestore{}

// Option configures the Firestore repository
type Option func(*Firestore)

// WithCollectionPrefix namespaces the collections, mainly for tests sharing
// a project.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.brief.collectionPrefix = prefix
	}
}

// WithFallbackWindow bounds how many recent fingerprint matches the fallback
// duplicate lookup fetches before filtering by session.
func WithFallbackWindow(n int) Option {
	return func(f *Firestore) {
		if n > 0 {
			f.brief.fallbackWindow = n
		}
	}
}

// New creates a Firestore repository. databaseID may be empty for the
// default database. The caller is responsible for calling Close().
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID == "" {
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID),
		)
	}

	f := &Firestore{
		client: client,
		brief:  newBriefRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Brief() interfaces.BriefRepository {
	return f.brief
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
