package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for use case layer
var (
	// ErrInvalidInput is the client's fault: empty, oversized or
	// malformed request fields.
	ErrInvalidInput = goerr.New("invalid input")

	// ErrNotConfigured is the operator's fault: no LLM client is wired,
	// so brief creation is unavailable.
	ErrNotConfigured = goerr.New("brief generation is not configured")
)

// Context keys for error values
const (
	SessionIDKey = "session_id"
	BriefIDKey   = "brief_id"
)
