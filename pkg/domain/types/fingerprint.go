package types

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint is a deterministic content hash of normalized source text,
// used to detect duplicate submissions within a session.
type Fingerprint string

// NewFingerprint returns the SHA-256 hex digest of the whitespace-trimmed
// text.
func NewFingerprint(text string) Fingerprint {
	digest := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return Fingerprint(hex.EncodeToString(digest[:]))
}

func (f Fingerprint) String() string {
	return string(f)
}
