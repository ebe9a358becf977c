package model_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/m-mizutani/gt"

	"github.com/brieflab/briefd/pkg/domain/model"
	"github.com/brieflab/briefd/pkg/domain/types"
)

func TestBriefContentTruncate(t *testing.T) {
	t.Run("within limits is untouched", func(t *testing.T) {
		content := &model.BriefContent{
			Summary:   "short",
			Decisions: []string{"a", "b"},
			Actions:   []model.ActionItem{{Task: "t"}},
			Questions: []string{"q"},
		}
		content.Truncate()

		gt.Value(t, content.Summary).Equal("short")
		gt.Array(t, content.Decisions).Length(2)
	})

	t.Run("oversized values are cut to the caps", func(t *testing.T) {
		decisions := make([]string, model.MaxListEntries+20)
		for i := range decisions {
			decisions[i] = "d"
		}
		content := &model.BriefContent{
			Summary:   strings.Repeat("s", model.MaxEmbeddedStringLen+1),
			Decisions: decisions,
			Actions: []model.ActionItem{
				{Task: strings.Repeat("t", model.MaxEmbeddedStringLen+500)},
			},
			Questions: []string{},
		}
		content.Truncate()

		gt.Number(t, len(content.Summary)).Equal(model.MaxEmbeddedStringLen)
		gt.Array(t, content.Decisions).Length(model.MaxListEntries)
		gt.Number(t, len(content.Actions[0].Task)).Equal(model.MaxEmbeddedStringLen)
	})

	t.Run("multibyte strings are cut on rune boundaries", func(t *testing.T) {
		content := &model.BriefContent{
			Summary:   strings.Repeat("あ", model.MaxEmbeddedStringLen+100),
			Decisions: []string{},
			Actions:   []model.ActionItem{},
			Questions: []string{},
		}
		content.Truncate()

		gt.Number(t, utf8.RuneCountInString(content.Summary)).Equal(model.MaxEmbeddedStringLen)
		gt.Bool(t, utf8.ValidString(content.Summary)).True()
	})
}

func TestNewBrief(t *testing.T) {
	sessionID := types.SessionID("e6f9a7c4-3f0d-4b6e-9a3e-6a1b2c3d4e5f")
	content := &model.BriefContent{
		Summary:   "summary",
		Decisions: []string{"d"},
		Actions:   []model.ActionItem{{Task: "t", Assignee: "Alice"}},
		Questions: []string{"q"},
	}

	brief := model.NewBrief(sessionID, "source text", content)

	gt.Value(t, brief.ClientSessionID).Equal(sessionID)
	gt.Value(t, brief.SourceText).Equal("source text")
	gt.Value(t, brief.Fingerprint).Equal(types.NewFingerprint("source text"))
	gt.Value(t, string(brief.ID)).Equal("")
	gt.Bool(t, brief.CreatedAt.IsZero()).True()
}

func TestSummarize(t *testing.T) {
	brief := &model.Brief{
		ID:        types.NewBriefID(),
		Summary:   "three things happened",
		Decisions: []string{"a", "b"},
		Actions:   []model.ActionItem{{Task: "t"}},
		Questions: []string{},
	}

	summary := brief.Summarize()

	gt.Value(t, summary.ID).Equal(brief.ID)
	gt.Value(t, summary.Summary).Equal("three things happened")
	gt.Value(t, summary.DecisionsCount).Equal(2)
	gt.Value(t, summary.ActionsCount).Equal(1)
	gt.Value(t, summary.QuestionsCount).Equal(0)
}
