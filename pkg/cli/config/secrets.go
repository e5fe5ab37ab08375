package config

import (
	"time"

	"github.com/m-mizutani/gemhook/pkg/infra/secret"
	"github.com/urfave/cli/v3"
)

// Secrets holds secret bundle configuration
type Secrets struct {
	Source       string
	PollInterval time.Duration
	MaxAttempts  int
}

// Flags returns CLI flags for secrets configuration
func (c *Secrets) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "secrets",
			Usage:       "Secret bundle location: a local JSON/TOML file or gs://bucket/object",
			Required:    true,
			Destination: &c.Source,
			Sources:     cli.EnvVars("GEMHOOK_SECRETS"),
		},
		&cli.DurationFlag{
			Name:        "secrets-poll-interval",
			Usage:       "Delay between checks while waiting for secrets",
			Value:       100 * time.Millisecond,
			Destination: &c.PollInterval,
			Sources:     cli.EnvVars("GEMHOOK_SECRETS_POLL_INTERVAL"),
		},
		&cli.IntFlag{
			Name:        "secrets-max-attempts",
			Usage:       "Number of checks before giving up on secrets",
			Value:       100,
			Destination: &c.MaxAttempts,
			Sources:     cli.EnvVars("GEMHOOK_SECRETS_MAX_ATTEMPTS"),
		},
	}
}

// NewProvider creates an empty secrets provider with the configured wait policy
func (c *Secrets) NewProvider() *secret.Provider {
	return secret.NewProvider(
		secret.WithPollInterval(c.PollInterval),
		secret.WithMaxAttempts(c.MaxAttempts),
	)
}
