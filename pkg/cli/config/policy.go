package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	modelconfig "github.com/brieflab/briefd/pkg/domain/model/config"
	"github.com/brieflab/briefd/pkg/utils/logging"
)

// Policy holds the CLI flag for the optional service-limits file
type Policy struct {
	path string
}

// Flags returns CLI flags for policy configuration
func (p *Policy) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "policy",
			Usage:       "Path to a TOML file with service limits (text length, list caps, retries, retention)",
			Sources:     cli.EnvVars("BRIEFD_POLICY"),
			Destination: &p.path,
		},
	}
}

// Configure loads the policy file, or returns the defaults when no file is
// given.
func (p *Policy) Configure() (*modelconfig.Policy, error) {
	if p.path == "" {
		return modelconfig.DefaultPolicy(), nil
	}

	policy, err := modelconfig.LoadPolicy(p.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load policy")
	}

	logging.Default().Info("Loaded policy file",
		"path", p.path,
		"max_source_text_len", policy.MaxSourceTextLen,
		"retention_days", policy.RetentionDays,
	)
	return policy, nil
}
