package config

import (
	"time"

	"github.com/m-mizutani/gemhook/pkg/domain/interfaces"
	"github.com/m-mizutani/gemhook/pkg/infra/mail"
	"github.com/m-mizutani/gemhook/pkg/infra/sentry"
	"github.com/m-mizutani/gemhook/pkg/infra/slack"
	"github.com/urfave/cli/v3"
)

// Mail holds SMTP configuration. Sender and recipient come from the secret bundle.
type Mail struct {
	Host string
	Port int
}

// Flags returns CLI flags for mail configuration
func (c *Mail) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "smtp-host",
			Usage:       "SMTP server host; required when from_address and to_address are set in secrets",
			Destination: &c.Host,
			Sources:     cli.EnvVars("GEMHOOK_SMTP_HOST"),
		},
		&cli.IntFlag{
			Name:        "smtp-port",
			Usage:       "SMTP server port",
			Value:       587,
			Destination: &c.Port,
			Sources:     cli.EnvVars("GEMHOOK_SMTP_PORT"),
		},
	}
}

// Slack holds Slack notification configuration
type Slack struct {
	WebhookURL string
}

// Flags returns CLI flags for Slack configuration
func (c *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL (overrides slack_webhook_url in secrets)",
			Destination: &c.WebhookURL,
			Sources:     cli.EnvVars("GEMHOOK_SLACK_WEBHOOK_URL"),
		},
	}
}

// Notifiers returns the notification channels, email first. Email is always
// present and fails when no SMTP host is set.
func Notifiers(m *Mail, s *Slack) []interfaces.Notifier {
	return []interfaces.Notifier{
		mail.NewSMTP(m.Host, m.Port),
		slack.NewWebhook(s.WebhookURL),
	}
}

// Sentry holds error reporting configuration. The DSN is error_reporting_key
// in the secret bundle.
type Sentry struct {
	Environment  string
	FlushTimeout time.Duration
}

// Flags returns CLI flags for Sentry configuration
func (c *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Environment reported with build failures",
			Value:       "production",
			Destination: &c.Environment,
			Sources:     cli.EnvVars("GEMHOOK_SENTRY_ENV"),
		},
		&cli.DurationFlag{
			Name:        "sentry-flush-timeout",
			Usage:       "Time to wait for a report to be delivered",
			Value:       2 * time.Second,
			Destination: &c.FlushTimeout,
			Sources:     cli.EnvVars("GEMHOOK_SENTRY_FLUSH_TIMEOUT"),
		},
	}
}

// NewReporter creates the error reporter
func (c *Sentry) NewReporter() interfaces.ErrorReporter {
	return sentry.NewReporter(c.Environment, c.FlushTimeout)
}
