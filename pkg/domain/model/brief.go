package model

import (
	"time"
	"unicode/utf8"

	"github.com/brieflab/briefd/pkg/domain/types"
)

const (
	// MaxEmbeddedStringLen is the hard cap, in characters, for any string
	// stored inside a brief. Longer values are truncated, not rejected.
	MaxEmbeddedStringLen = 10000

	// MaxListEntries is the hard cap for decisions/actions/questions.
	MaxListEntries = 100
)

// ActionItem is a single actionable task extracted from the source text
type ActionItem struct {
	Task     string `json:"task" firestore:"task"`
	Assignee string `json:"assignee,omitempty" firestore:"assignee,omitempty"`
	DueDate  string `json:"due_date,omitempty" firestore:"due_date,omitempty"`
}

// BriefContent holds the model-generated fields of a brief. It is the
// validated output of the generation step, before persistence metadata is
// attached.
type BriefContent struct {
	Summary   string       `json:"summary"`
	Decisions []string     `json:"decisions"`
	Actions   []ActionItem `json:"actions"`
	Questions []string     `json:"questions"`
}

// Truncate enforces the size caps on the content in place. Oversized arrays
// and strings are cut down rather than rejected.
func (c *BriefContent) Truncate() {
	c.Summary = truncateString(c.Summary)
	c.Decisions = truncateStrings(c.Decisions)
	c.Questions = truncateStrings(c.Questions)

	if len(c.Actions) > MaxListEntries {
		c.Actions = c.Actions[:MaxListEntries]
	}
	for i := range c.Actions {
		c.Actions[i].Task = truncateString(c.Actions[i].Task)
		c.Actions[i].Assignee = truncateString(c.Actions[i].Assignee)
		c.Actions[i].DueDate = truncateString(c.Actions[i].DueDate)
	}
}

// truncateString cuts on rune boundaries so a multibyte sequence is never
// split.
func truncateString(s string) string {
	if utf8.RuneCountInString(s) <= MaxEmbeddedStringLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:MaxEmbeddedStringLen])
}

func truncateStrings(items []string) []string {
	if len(items) > MaxListEntries {
		items = items[:MaxListEntries]
	}
	for i := range items {
		items[i] = truncateString(items[i])
	}
	return items
}

// Brief is the structured record derived from user-submitted text. It is
// immutable after creation; the only mutation is deletion by the owning
// session.
type Brief struct {
	ID              types.BriefID     `json:"id" firestore:"id"`
	ClientSessionID types.SessionID   `json:"client_session_id" firestore:"client_session_id"`
	SourceText      string            `json:"source_text" firestore:"source_text"`
	Summary         string            `json:"summary" firestore:"summary"`
	Decisions       []string          `json:"decisions" firestore:"decisions"`
	Actions         []ActionItem      `json:"actions" firestore:"actions"`
	Questions       []string          `json:"questions" firestore:"questions"`
	Fingerprint     types.Fingerprint `json:"fingerprint" firestore:"sha256"`
	CreatedAt       time.Time         `json:"created_at" firestore:"created_at"`
}

// NewBrief assembles an unsaved Brief from validated inputs. ID and
// CreatedAt are assigned by the store.
func NewBrief(sessionID types.SessionID, sourceText string, content *BriefContent) *Brief {
	return &Brief{
		ClientSessionID: sessionID,
		SourceText:      sourceText,
		Summary:         content.Summary,
		Decisions:       content.Decisions,
		Actions:         content.Actions,
		Questions:       content.Questions,
		Fingerprint:     types.NewFingerprint(sourceText),
	}
}

// Summarize returns the list-view projection of the brief
func (b *Brief) Summarize() *BriefSummary {
	return &BriefSummary{
		ID:             b.ID,
		Summary:        b.Summary,
		CreatedAt:      b.CreatedAt,
		DecisionsCount: len(b.Decisions),
		ActionsCount:   len(b.Actions),
		QuestionsCount: len(b.Questions),
	}
}

// BriefSummary is the projection returned by list queries
type BriefSummary struct {
	ID             types.BriefID `json:"id"`
	Summary        string        `json:"summary"`
	CreatedAt      time.Time     `json:"created_at"`
	DecisionsCount int           `json:"decisions_count"`
	ActionsCount   int           `json:"actions_count"`
	QuestionsCount int           `json:"questions_count"`
}
