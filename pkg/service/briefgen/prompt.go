package briefgen

import (
	"strings"

	"github.com/m-mizutani/gollem"
)

// buildSystemPrompt creates the fixed instruction describing the brief schema
func buildSystemPrompt() string {
	var sb strings.Builder

	sb.WriteString("You are a meeting-brief assistant. Analyze the text the user provides and produce a structured brief.\n\n")
	sb.WriteString("## Output rules:\n\n")
	sb.WriteString("1. Return ONLY a valid JSON object. No markdown, no code fences, no additional text.\n")
	sb.WriteString("2. The JSON must have exactly these fields:\n")
	sb.WriteString("   - \"summary\": string, 100 words or less\n")
	sb.WriteString("   - \"decisions\": array of strings, one per decision made in the text\n")
	sb.WriteString("   - \"actions\": array of objects, each with \"task\" (string, required), \"assignee\" (string or null), \"due_date\" (string YYYY-MM-DD or null)\n")
	sb.WriteString("   - \"questions\": array of strings, one per unresolved question\n")
	sb.WriteString("3. Use empty arrays when the text contains no decisions, actions or questions.\n")
	sb.WriteString("4. Write in the same language as the source text.\n")

	return sb.String()
}

// buildUserPrompt wraps the source text for the initial generation call
func buildUserPrompt(sourceText string) string {
	var sb strings.Builder

	sb.WriteString("Create a structured brief for the following text.\n\n")
	sb.WriteString("## Text to analyze:\n\n")
	sb.WriteString(sourceText)
	sb.WriteString("\n")

	return sb.String()
}

// buildRepairPrompt echoes the malformed output and restates the schema for
// the single corrective retry.
func buildRepairPrompt(malformed string) string {
	var sb strings.Builder

	sb.WriteString("Your previous response was not a valid brief JSON object. This is what you returned:\n\n")
	sb.WriteString(malformed)
	sb.WriteString("\n\n")
	sb.WriteString("Respond again with ONLY a JSON object of this exact structure, nothing else:\n")
	sb.WriteString("{\n")
	sb.WriteString("  \"summary\": \"brief summary in 100 words or less\",\n")
	sb.WriteString("  \"decisions\": [\"decision 1\"],\n")
	sb.WriteString("  \"actions\": [{\"task\": \"action description\", \"assignee\": \"person name or null\", \"due_date\": \"YYYY-MM-DD or null\"}],\n")
	sb.WriteString("  \"questions\": [\"question 1\"]\n")
	sb.WriteString("}\n")

	return sb.String()
}

// buildResponseSchema creates the JSON schema for structured output
func buildResponseSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "BriefResponse",
		Description: "Structured brief derived from the source text",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"summary": {
				Type:        gollem.TypeString,
				Description: "Summary of the source text in 100 words or less",
				Required:    true,
			},
			"decisions": {
				Type:        gollem.TypeArray,
				Description: "Decisions made in the source text",
				Required:    true,
				Items: &gollem.Parameter{
					Type: gollem.TypeString,
				},
			},
			"actions": {
				Type:        gollem.TypeArray,
				Description: "Action items extracted from the source text",
				Required:    true,
				Items: &gollem.Parameter{
					Type: gollem.TypeObject,
					Properties: map[string]*gollem.Parameter{
						"task": {
							Type:        gollem.TypeString,
							Description: "What needs to be done",
							Required:    true,
						},
						"assignee": {
							Type:        gollem.TypeString,
							Description: "Who owns the task, if stated",
						},
						"due_date": {
							Type:        gollem.TypeString,
							Description: "Due date in YYYY-MM-DD format, if stated",
						},
					},
				},
			},
			"questions": {
				Type:        gollem.TypeArray,
				Description: "Open questions left unresolved by the source text",
				Required:    true,
				Items: &gollem.Parameter{
					Type: gollem.TypeString,
				},
			},
		},
	}
}
