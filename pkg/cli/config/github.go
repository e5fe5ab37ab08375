package config

import (
	"github.com/m-mizutani/gemhook/pkg/domain/interfaces"
	"github.com/m-mizutani/gemhook/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub endpoint configuration. Credentials come from the
// secret bundle.
type GitHub struct {
	APIBaseURL string
	WebBaseURL string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-api-url",
			Usage:       "GitHub REST API base URL (for GitHub Enterprise)",
			Destination: &c.APIBaseURL,
			Sources:     cli.EnvVars("GEMHOOK_GITHUB_API_URL"),
		},
		&cli.StringFlag{
			Name:        "github-web-url",
			Usage:       "GitHub web base URL used in links",
			Value:       "https://github.com",
			Destination: &c.WebBaseURL,
			Sources:     cli.EnvVars("GEMHOOK_GITHUB_WEB_URL"),
		},
	}
}

// ClientFactory returns a constructor of authenticated GitHub clients
func (c *GitHub) ClientFactory() func(user, token string) (interfaces.GitHubClient, error) {
	return func(user, token string) (interfaces.GitHubClient, error) {
		var opts []github.Option
		if c.APIBaseURL != "" {
			opts = append(opts, github.WithBaseURL(c.APIBaseURL))
		}
		return github.NewClient(user, token, opts...)
	}
}
