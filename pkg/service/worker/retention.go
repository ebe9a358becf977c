package worker

import (
	"context"
	"time"

	"github.com/brieflab/briefd/pkg/domain/interfaces"
	"github.com/brieflab/briefd/pkg/utils/errutil"
	"github.com/brieflab/briefd/pkg/utils/logging"
)

// RetentionWorker periodically purges briefs older than the configured
// retention period.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - For future horizontal scaling, implement distributed locking or leader election
type RetentionWorker struct {
	repo      interfaces.Repository
	retention time.Duration
	interval  time.Duration
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewRetentionWorker creates a worker that deletes briefs older than
// retention, checking every interval.
func NewRetentionWorker(repo interfaces.Repository, retention, interval time.Duration) *RetentionWorker {
	return &RetentionWorker{
		repo:      repo,
		retention: retention,
		interval:  interval,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background purge loop. It does not block server startup.
func (w *RetentionWorker) Start(ctx context.Context) error {
	logging.Default().Info("retention worker starting",
		"retention", w.retention.String(),
		"interval", w.interval.String(),
	)

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *RetentionWorker) Stop() {
	logging.Default().Info("retention worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("retention worker stopped")
}

// run is the main worker loop (runs in goroutine)
func (w *RetentionWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	if err := w.purge(ctx); err != nil {
		_ = errutil.Handle(ctx, err, "initial retention purge failed (will retry next interval)")
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.purge(ctx); err != nil {
				_ = errutil.Handle(ctx, err, "retention purge failed (will retry next interval)")
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			return
		}
	}
}

func (w *RetentionWorker) purge(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-w.retention)

	purged, err := w.repo.Brief().PurgeExpired(ctx, cutoff)
	if err != nil {
		return err
	}

	if purged > 0 {
		logging.Default().Info("purged expired briefs",
			"count", purged,
			"cutoff", cutoff,
		)
	}
	return nil
}
