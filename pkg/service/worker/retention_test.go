package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/brieflab/briefd/pkg/domain/model"
	"github.com/brieflab/briefd/pkg/domain/types"
	"github.com/brieflab/briefd/pkg/repository/memory"
	"github.com/brieflab/briefd/pkg/service/worker"
)

func TestRetentionWorker(t *testing.T) {
	t.Run("purges expired briefs on start", func(t *testing.T) {
		ctx := context.Background()
		repo := memory.New()
		sessionID := types.SessionID("e6f9a7c4-3f0d-4b6e-9a3e-6a1b2c3d4e5f")

		expired, err := repo.Brief().Create(ctx, model.NewBrief(sessionID, "old notes", &model.BriefContent{
			Summary: "old", Decisions: []string{}, Actions: []model.ActionItem{}, Questions: []string{},
		}))
		gt.NoError(t, err).Required()

		// Anything created before the worker starts is past a zero retention
		time.Sleep(10 * time.Millisecond)

		w := worker.NewRetentionWorker(repo, 0, time.Hour)
		gt.NoError(t, w.Start(ctx))
		defer w.Stop()

		deadline := time.Now().Add(2 * time.Second)
		for {
			_, err := repo.Brief().Get(ctx, sessionID, expired.ID)
			if err != nil {
				break
			}
			if time.Now().After(deadline) {
				t.Fatal("expired brief was not purged")
			}
			time.Sleep(10 * time.Millisecond)
		}
	})

	t.Run("keeps briefs within the retention period", func(t *testing.T) {
		ctx := context.Background()
		repo := memory.New()
		sessionID := types.SessionID("e6f9a7c4-3f0d-4b6e-9a3e-6a1b2c3d4e5f")

		fresh, err := repo.Brief().Create(ctx, model.NewBrief(sessionID, "fresh notes", &model.BriefContent{
			Summary: "fresh", Decisions: []string{}, Actions: []model.ActionItem{}, Questions: []string{},
		}))
		gt.NoError(t, err).Required()

		w := worker.NewRetentionWorker(repo, 24*time.Hour, 10*time.Millisecond)
		gt.NoError(t, w.Start(ctx))

		time.Sleep(50 * time.Millisecond)
		w.Stop()

		_, err = repo.Brief().Get(ctx, sessionID, fresh.ID)
		gt.NoError(t, err)
	})

	t.Run("stop waits for the loop to exit", func(t *testing.T) {
		repo := memory.New()
		w := worker.NewRetentionWorker(repo, time.Hour, time.Hour)

		gt.NoError(t, w.Start(context.Background()))

		done := make(chan struct{})
		go func() {
			w.Stop()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Stop did not return")
		}
	})
}
