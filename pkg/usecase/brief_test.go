package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"

	"github.com/brieflab/briefd/pkg/domain/model"
	"github.com/brieflab/briefd/pkg/domain/types"
	"github.com/brieflab/briefd/pkg/repository/memory"
	"github.com/brieflab/briefd/pkg/usecase"
)

// stubGenerator counts invocations and returns canned content
type stubGenerator struct {
	calls   int
	content *model.BriefContent
	err     error
}

func (g *stubGenerator) Generate(ctx context.Context, sourceText string) (*model.BriefContent, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	if g.content != nil {
		return g.content, nil
	}
	return &model.BriefContent{
		Summary:   "summary of: " + sourceText,
		Decisions: []string{},
		Actions:   []model.ActionItem{},
		Questions: []string{},
	}, nil
}

func newSessionID() types.SessionID {
	return types.SessionID(uuid.NewString())
}

func TestCreateBrief(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and lists a brief", func(t *testing.T) {
		gen := &stubGenerator{}
		uc := usecase.New(memory.New(), usecase.WithGenerator(gen))
		sessionID := newSessionID()

		result, err := uc.Brief.CreateBrief(ctx, sessionID, "Team agreed to ship v2 Friday.")
		gt.NoError(t, err).Required()

		gt.Bool(t, result.Existing).False()
		gt.NoError(t, result.Brief.ID.Validate())
		gt.Value(t, result.Brief.Summary).Equal("summary of: Team agreed to ship v2 Friday.")
		gt.Number(t, gen.calls).Equal(1)

		summaries, err := uc.Brief.ListBriefs(ctx, sessionID, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, summaries).Length(1)
		gt.Value(t, summaries[0].ID).Equal(result.Brief.ID)
	})

	t.Run("duplicate text returns the existing brief without a second LLM call", func(t *testing.T) {
		gen := &stubGenerator{}
		uc := usecase.New(memory.New(), usecase.WithGenerator(gen))
		sessionID := newSessionID()

		first, err := uc.Brief.CreateBrief(ctx, sessionID, "same text twice")
		gt.NoError(t, err).Required()
		gt.Bool(t, first.Existing).False()

		second, err := uc.Brief.CreateBrief(ctx, sessionID, "same text twice")
		gt.NoError(t, err).Required()

		gt.Bool(t, second.Existing).True()
		gt.Value(t, second.Brief.ID).Equal(first.Brief.ID)
		gt.Number(t, gen.calls).Equal(1)
	})

	t.Run("duplicate suppression works on the fallback query path", func(t *testing.T) {
		gen := &stubGenerator{}
		uc := usecase.New(memory.New(memory.WithoutCompositeIndex()), usecase.WithGenerator(gen))
		sessionID := newSessionID()

		first, err := uc.Brief.CreateBrief(ctx, sessionID, "fallback duplicate")
		gt.NoError(t, err).Required()

		second, err := uc.Brief.CreateBrief(ctx, sessionID, "fallback duplicate")
		gt.NoError(t, err).Required()

		gt.Bool(t, second.Existing).True()
		gt.Value(t, second.Brief.ID).Equal(first.Brief.ID)
		gt.Number(t, gen.calls).Equal(1)
	})

	t.Run("same text in another session generates a fresh brief", func(t *testing.T) {
		gen := &stubGenerator{}
		uc := usecase.New(memory.New(), usecase.WithGenerator(gen))

		first, err := uc.Brief.CreateBrief(ctx, newSessionID(), "shared text")
		gt.NoError(t, err).Required()

		second, err := uc.Brief.CreateBrief(ctx, newSessionID(), "shared text")
		gt.NoError(t, err).Required()

		gt.Bool(t, second.Existing).False()
		gt.Value(t, second.Brief.ID).NotEqual(first.Brief.ID)
		gt.Number(t, gen.calls).Equal(2)
	})

	t.Run("empty and whitespace-only text are rejected", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithGenerator(&stubGenerator{}))

		for _, text := range []string{"", "   ", "\n\t "} {
			_, err := uc.Brief.CreateBrief(ctx, newSessionID(), text)
			gt.Error(t, err)
			gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()
		}
	})

	t.Run("source text length boundary", func(t *testing.T) {
		gen := &stubGenerator{}
		uc := usecase.New(memory.New(), usecase.WithGenerator(gen))
		sessionID := newSessionID()

		atLimit := strings.Repeat("a", 10000)
		_, err := uc.Brief.CreateBrief(ctx, sessionID, atLimit)
		gt.NoError(t, err)

		overLimit := strings.Repeat("a", 10001)
		_, err = uc.Brief.CreateBrief(ctx, sessionID, overLimit)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()
	})

	t.Run("length is measured in characters, not bytes", func(t *testing.T) {
		gen := &stubGenerator{}
		uc := usecase.New(memory.New(), usecase.WithGenerator(gen))
		sessionID := newSessionID()

		// 9,000 characters but 27,000 bytes
		multibyte := strings.Repeat("あ", 9000)
		_, err := uc.Brief.CreateBrief(ctx, sessionID, multibyte)
		gt.NoError(t, err)

		atLimit := strings.Repeat("あ", 10000)
		_, err = uc.Brief.CreateBrief(ctx, sessionID, atLimit)
		gt.NoError(t, err)

		overLimit := strings.Repeat("あ", 10001)
		_, err = uc.Brief.CreateBrief(ctx, sessionID, overLimit)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()
	})

	t.Run("invalid session ID is rejected", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithGenerator(&stubGenerator{}))

		for _, sid := range []types.SessionID{"", "not-a-uuid"} {
			_, err := uc.Brief.CreateBrief(ctx, sid, "some text")
			gt.Error(t, err)
			gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()
		}
	})

	t.Run("missing generator is reported as not configured", func(t *testing.T) {
		uc := usecase.New(memory.New())

		_, err := uc.Brief.CreateBrief(ctx, newSessionID(), "some text")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrNotConfigured)).True()
	})

	t.Run("generation failure stores nothing", func(t *testing.T) {
		gen := &stubGenerator{err: errors.New("upstream exploded")}
		uc := usecase.New(memory.New(), usecase.WithGenerator(gen))
		sessionID := newSessionID()

		_, err := uc.Brief.CreateBrief(ctx, sessionID, "doomed text")
		gt.Error(t, err)

		summaries, err := uc.Brief.ListBriefs(ctx, sessionID, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, summaries).Length(0)
	})

	t.Run("structured fields survive the round trip", func(t *testing.T) {
		gen := &stubGenerator{
			content: &model.BriefContent{
				Summary:   "Team will ship v2 on Friday; Alice owns release notes.",
				Decisions: []string{"Ship v2 Friday"},
				Actions: []model.ActionItem{
					{Task: "Write release notes", Assignee: "Alice"},
				},
				Questions: []string{},
			},
		}
		uc := usecase.New(memory.New(), usecase.WithGenerator(gen))
		sessionID := newSessionID()

		result, err := uc.Brief.CreateBrief(ctx, sessionID, "Team agreed to ship v2 Friday. Alice will write release notes.")
		gt.NoError(t, err).Required()

		stored, err := uc.Brief.GetBrief(ctx, sessionID, result.Brief.ID)
		gt.NoError(t, err).Required()

		gt.Array(t, stored.Decisions).Length(1)
		gt.Value(t, stored.Decisions[0]).Equal("Ship v2 Friday")
		gt.Array(t, stored.Actions).Length(1)
		gt.Value(t, stored.Actions[0].Assignee).Equal("Alice")
		gt.Array(t, stored.Questions).Length(0)
	})
}

func TestListBriefs(t *testing.T) {
	ctx := context.Background()

	t.Run("zero limit falls back to the default", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithGenerator(&stubGenerator{}))
		sessionID := newSessionID()

		for i := 0; i < 12; i++ {
			_, err := uc.Brief.CreateBrief(ctx, sessionID, strings.Repeat("x", i+1))
			gt.NoError(t, err).Required()
		}

		summaries, err := uc.Brief.ListBriefs(ctx, sessionID, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, summaries).Length(10)
	})

	t.Run("limit out of range is rejected", func(t *testing.T) {
		uc := usecase.New(memory.New())
		sessionID := newSessionID()

		for _, limit := range []int{-1, 51} {
			_, err := uc.Brief.ListBriefs(ctx, sessionID, limit)
			gt.Error(t, err)
			gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()
		}
	})

	t.Run("empty session lists empty, not nil", func(t *testing.T) {
		uc := usecase.New(memory.New())

		summaries, err := uc.Brief.ListBriefs(ctx, newSessionID(), 5)
		gt.NoError(t, err).Required()
		gt.Value(t, summaries).NotNil()
		gt.Array(t, summaries).Length(0)
	})
}

func TestGetAndDeleteBrief(t *testing.T) {
	ctx := context.Background()

	t.Run("delete then get reports not found", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithGenerator(&stubGenerator{}))
		sessionID := newSessionID()

		result, err := uc.Brief.CreateBrief(ctx, sessionID, "ephemeral notes")
		gt.NoError(t, err).Required()

		gt.NoError(t, uc.Brief.DeleteBrief(ctx, sessionID, result.Brief.ID))

		_, err = uc.Brief.GetBrief(ctx, sessionID, result.Brief.ID)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, model.ErrBriefNotFound)).True()
	})

	t.Run("other sessions cannot get or delete", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithGenerator(&stubGenerator{}))
		owner := newSessionID()
		stranger := newSessionID()

		result, err := uc.Brief.CreateBrief(ctx, owner, "private notes")
		gt.NoError(t, err).Required()

		_, err = uc.Brief.GetBrief(ctx, stranger, result.Brief.ID)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, model.ErrBriefNotFound)).True()

		err = uc.Brief.DeleteBrief(ctx, stranger, result.Brief.ID)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, model.ErrBriefNotFound)).True()
	})

	t.Run("malformed brief ID is invalid input, not a lookup", func(t *testing.T) {
		uc := usecase.New(memory.New())

		_, err := uc.Brief.GetBrief(ctx, newSessionID(), types.BriefID("not-a-uuid"))
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()

		err = uc.Brief.DeleteBrief(ctx, newSessionID(), types.BriefID("not-a-uuid"))
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()
	})
}
