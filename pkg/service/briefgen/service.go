package briefgen

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/brieflab/briefd/pkg/domain/model"
	"github.com/brieflab/briefd/pkg/utils/logging"
)

// Service generates a structured brief from free text via an LLM call
type Service interface {
	Generate(ctx context.Context, sourceText string) (*model.BriefContent, error)
}

// client implements Service interface
type client struct {
	llmClient gollem.LLMClient
	retries   int
	backoff   time.Duration
}

// Option is a functional option for client configuration
type Option func(*client)

// WithRetries sets the number of additional attempts after a transient
// upstream failure.
func WithRetries(n int) Option {
	return func(c *client) {
		c.retries = n
	}
}

// WithBackoff sets the base delay between upstream retries
func WithBackoff(d time.Duration) Option {
	return func(c *client) {
		c.backoff = d
	}
}

// New creates a brief generation service with the provided LLM client
func New(llmClient gollem.LLMClient, opts ...Option) (Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	c := &client{
		llmClient: llmClient,
		retries:   2,
		backoff:   500 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Generate runs the generation pipeline: one LLM call, two-tier parse, and
// at most one corrective repair call when the output fails validation.
func (c *client) Generate(ctx context.Context, sourceText string) (*model.BriefContent, error) {
	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildResponseSchema()),
		gollem.WithSessionSystemPrompt(buildSystemPrompt()),
	)
	if err != nil {
		return nil, goerr.Wrap(ErrUpstream, "failed to create LLM session", goerr.V("cause", err.Error()))
	}

	raw, err := c.generateText(ctx, session, buildUserPrompt(sourceText))
	if err != nil {
		return nil, err
	}

	content, parseErr := parseContent(raw)
	if parseErr == nil {
		return content, nil
	}

	logging.From(ctx).Warn("brief output failed validation, issuing repair attempt",
		"error", parseErr.Error())

	// Exactly one repair attempt. The session keeps the malformed exchange
	// in its history, and the corrective prompt echoes it explicitly.
	repaired, err := c.generateText(ctx, session, buildRepairPrompt(raw))
	if err != nil {
		return nil, err
	}

	content, repairErr := parseContent(repaired)
	if repairErr != nil {
		return nil, goerr.Wrap(ErrParseFailure, "repair attempt also failed",
			goerr.V("first_error", parseErr.Error()),
			goerr.V("repair_error", repairErr.Error()),
		)
	}

	return content, nil
}

// generateText performs one logical generation call with bounded retry on
// transient upstream failures.
func (c *client) generateText(ctx context.Context, session gollem.Session, prompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			delay := c.backoff * time.Duration(attempt)
			if rateLimited(lastErr) {
				delay *= 4
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", goerr.Wrap(ErrUpstream, "request canceled during backoff", goerr.V("cause", ctx.Err().Error()))
			}
		}

		resp, err := session.Generate(ctx, []gollem.Input{gollem.Text(prompt)})
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			logging.From(ctx).Warn("LLM call failed",
				"attempt", attempt+1,
				"rate_limited", rateLimited(err),
				"error", err.Error(),
			)
			continue
		}

		if len(resp.Texts) == 0 {
			lastErr = goerr.New("LLM returned no text")
			continue
		}

		return strings.Join(resp.Texts, ""), nil
	}

	return "", goerr.Wrap(ErrUpstream, "LLM call failed after retries",
		goerr.V("attempts", c.retries+1),
		goerr.V("cause", lastErr.Error()),
	)
}

// rateLimited detects provider throttling by message heuristics; gollem does
// not expose a typed error for it.
func rateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource exhausted") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "429")
}
