package briefgen

import (
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/brieflab/briefd/pkg/domain/model"
)

// rawContent defers field decoding so that a wrong-typed field is reported
// as a schema violation instead of failing the whole unmarshal.
type rawContent struct {
	Summary   json.RawMessage `json:"summary"`
	Decisions json.RawMessage `json:"decisions"`
	Actions   json.RawMessage `json:"actions"`
	Questions json.RawMessage `json:"questions"`
}

type rawAction struct {
	Task     string `json:"task"`
	Assignee string `json:"assignee"`
	DueDate  string `json:"due_date"`
}

// parseContent runs the two-tier decode: direct JSON decode first, then the
// largest well-formed JSON object substring (models often wrap JSON in prose
// or code fences). The result is validated and size-capped. Errors are
// tagged ErrMalformedJSON or ErrSchemaViolation so the caller can decide on
// the repair retry.
func parseContent(raw string) (*model.BriefContent, error) {
	text := stripCodeFences(raw)

	var doc rawContent
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		candidate := largestJSONObject(text)
		if candidate == "" {
			return nil, goerr.Wrap(ErrMalformedJSON, "direct decode failed and no object substring found",
				goerr.V("decode_error", err.Error()))
		}
		if err := json.Unmarshal([]byte(candidate), &doc); err != nil {
			return nil, goerr.Wrap(ErrMalformedJSON, "extracted object substring does not decode",
				goerr.V("decode_error", err.Error()))
		}
	}

	return validateContent(&doc)
}

// stripCodeFences removes a single markdown code fence wrapper if present
func stripCodeFences(raw string) string {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")

	return strings.TrimSpace(text)
}

// largestJSONObject returns the longest balanced, well-formed top-level JSON
// object substring of text, or "" when none exists. Brace tracking is
// string-aware so braces inside string values do not break the balance.
func largestJSONObject(text string) string {
	var best string
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i, ch := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				candidate := text[start : i+1]
				if len(candidate) > len(best) && json.Valid([]byte(candidate)) {
					best = candidate
				}
			}
		}
	}

	return best
}

// validateContent checks the decoded document against the brief shape and
// enforces size caps by truncation.
func validateContent(doc *rawContent) (*model.BriefContent, error) {
	if doc.Summary == nil || doc.Decisions == nil || doc.Actions == nil || doc.Questions == nil {
		return nil, goerr.Wrap(ErrSchemaViolation, "missing required field",
			goerr.V("has_summary", doc.Summary != nil),
			goerr.V("has_decisions", doc.Decisions != nil),
			goerr.V("has_actions", doc.Actions != nil),
			goerr.V("has_questions", doc.Questions != nil),
		)
	}

	content := &model.BriefContent{}

	if err := json.Unmarshal(doc.Summary, &content.Summary); err != nil {
		return nil, goerr.Wrap(ErrSchemaViolation, "summary must be a string")
	}

	if err := json.Unmarshal(doc.Decisions, &content.Decisions); err != nil {
		return nil, goerr.Wrap(ErrSchemaViolation, "decisions must be an array of strings")
	}
	if err := json.Unmarshal(doc.Questions, &content.Questions); err != nil {
		return nil, goerr.Wrap(ErrSchemaViolation, "questions must be an array of strings")
	}

	var actions []rawAction
	if err := json.Unmarshal(doc.Actions, &actions); err != nil {
		return nil, goerr.Wrap(ErrSchemaViolation, "actions must be an array of task objects")
	}
	for _, a := range actions {
		// Task-less entries carry no information; drop them rather than
		// failing the whole brief.
		if strings.TrimSpace(a.Task) == "" {
			continue
		}
		content.Actions = append(content.Actions, model.ActionItem{
			Task:     a.Task,
			Assignee: a.Assignee,
			DueDate:  a.DueDate,
		})
	}

	if content.Decisions == nil {
		content.Decisions = []string{}
	}
	if content.Questions == nil {
		content.Questions = []string{}
	}
	if content.Actions == nil {
		content.Actions = []model.ActionItem{}
	}

	content.Truncate()

	return content, nil
}
