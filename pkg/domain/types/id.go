package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// BriefID is a unique identifier of a Brief, assigned by the store at
// creation time.
type BriefID string

// NewBriefID generates a new time-ordered BriefID
func NewBriefID() BriefID {
	return BriefID(uuid.Must(uuid.NewV7()).String())
}

func (id BriefID) String() string {
	return string(id)
}

// Validate checks that the ID has UUID shape
func (id BriefID) Validate() error {
	if _, err := uuid.Parse(string(id)); err != nil {
		return goerr.Wrap(err, "invalid brief ID format", goerr.V("id", string(id)))
	}
	return nil
}

// SessionID is an opaque client-chosen token scoping which briefs a caller
// may see or modify. It is not an authenticated identity; it must only match
// the UUID string shape.
type SessionID string

func (id SessionID) String() string {
	return string(id)
}

// Validate checks that the session ID has UUID shape
func (id SessionID) Validate() error {
	if id == "" {
		return goerr.New("client session ID is required")
	}
	if _, err := uuid.Parse(string(id)); err != nil {
		return goerr.Wrap(err, "invalid client session ID format")
	}
	return nil
}
