package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// Policy holds operator-tunable service limits. All fields have working
// defaults; a TOML file can override them.
type Policy struct {
	// MaxSourceTextLen is the maximum accepted length of source_text.
	MaxSourceTextLen int `toml:"max_source_text_len"`

	// DefaultListLimit and MaxListLimit bound the list endpoint.
	DefaultListLimit int `toml:"default_list_limit"`
	MaxListLimit     int `toml:"max_list_limit"`

	// UpstreamRetries is the number of additional attempts after a
	// transient LLM failure.
	UpstreamRetries int `toml:"upstream_retries"`

	// DedupScanWindow bounds the in-memory filter when the composite
	// fingerprint index is unavailable.
	DedupScanWindow int `toml:"dedup_scan_window"`

	// RetentionDays enables the retention sweeper when > 0. Briefs older
	// than this are purged. 0 disables expiry.
	RetentionDays int `toml:"retention_days"`
}

// DefaultPolicy returns the built-in limits
func DefaultPolicy() *Policy {
	return &Policy{
		MaxSourceTextLen: 10000,
		DefaultListLimit: 10,
		MaxListLimit:     50,
		UpstreamRetries:  2,
		DedupScanWindow:  50,
		RetentionDays:    0,
	}
}

// LoadPolicy reads a TOML policy file over the defaults
func LoadPolicy(path string) (*Policy, error) {
	policy := DefaultPolicy()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read policy file", goerr.V("path", path))
	}
	if err := toml.Unmarshal(data, policy); err != nil {
		return nil, goerr.Wrap(err, "failed to parse policy file", goerr.V("path", path))
	}

	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return policy, nil
}

// Validate checks the policy for impossible values
func (p *Policy) Validate() error {
	if p.MaxSourceTextLen <= 0 {
		return goerr.New("max_source_text_len must be positive", goerr.V("value", p.MaxSourceTextLen))
	}
	if p.DefaultListLimit <= 0 || p.MaxListLimit <= 0 {
		return goerr.New("list limits must be positive")
	}
	if p.DefaultListLimit > p.MaxListLimit {
		return goerr.New("default_list_limit must not exceed max_list_limit",
			goerr.V("default", p.DefaultListLimit),
			goerr.V("max", p.MaxListLimit),
		)
	}
	if p.UpstreamRetries < 0 {
		return goerr.New("upstream_retries must not be negative", goerr.V("value", p.UpstreamRetries))
	}
	if p.DedupScanWindow <= 0 {
		return goerr.New("dedup_scan_window must be positive", goerr.V("value", p.DedupScanWindow))
	}
	if p.RetentionDays < 0 {
		return goerr.New("retention_days must not be negative", goerr.V("value", p.RetentionDays))
	}
	return nil
}
