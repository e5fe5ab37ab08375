package cli

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/gemhook/pkg/cli/config"
	githubcontroller "github.com/m-mizutani/gemhook/pkg/controller/github"
	"github.com/m-mizutani/gemhook/pkg/infra/secret"
	"github.com/m-mizutani/gemhook/pkg/usecase"
)

// pipelineConfig collects the configuration shared by serve and run
type pipelineConfig struct {
	github  config.GitHub
	storage config.Storage
	build   config.Build
	secrets config.Secrets
	mail    config.Mail
	slack   config.Slack
	sentry  config.Sentry
}

func (c *pipelineConfig) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, c.secrets.Flags()...)
	flags = append(flags, c.github.Flags()...)
	flags = append(flags, c.storage.Flags()...)
	flags = append(flags, c.build.Flags()...)
	flags = append(flags, c.mail.Flags()...)
	flags = append(flags, c.slack.Flags()...)
	flags = append(flags, c.sentry.Flags()...)
	return flags
}

// setup creates the event processor and starts loading secrets in the background
func (c *pipelineConfig) setup(ctx context.Context) (*githubcontroller.EventProcessor, *secret.Provider, error) {
	store, err := c.storage.New(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create storage client")
	}

	provider := c.secrets.NewProvider()
	provider.Start(ctx, secret.NewLoader(c.secrets.Source, store))

	opts := append(c.build.PipelineOptions(),
		usecase.WithWebBaseURL(c.github.WebBaseURL),
		usecase.WithNotifiers(config.Notifiers(&c.mail, &c.slack)...),
		usecase.WithErrorReporter(c.sentry.NewReporter()),
	)

	pipeline := usecase.NewPipeline(
		c.github.ClientFactory(),
		store,
		c.build.NewBuilder(),
		opts...,
	)

	ctxlog.From(ctx).Debug("Pipeline configured",
		"build_script", c.build.Script,
		"stage_objects", c.build.StageObjects,
		"secrets_source", c.secrets.Source,
	)

	return githubcontroller.NewEventProcessor(pipeline, provider), provider, nil
}
