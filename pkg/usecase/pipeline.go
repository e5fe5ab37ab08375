package usecase

import (
	"context"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/gemhook/pkg/domain/interfaces"
	"github.com/m-mizutani/gemhook/pkg/domain/model"
)

var _ interfaces.PipelineUseCase = (*Pipeline)(nil)

// GitHubClientFactory builds an authenticated GitHub client from the secret bundle
type GitHubClientFactory func(user, token string) (interfaces.GitHubClient, error)

// Pipeline verifies, builds and publishes one tag per Run
type Pipeline struct {
	newGitHub GitHubClientFactory
	store     interfaces.ObjectStore
	builder   interfaces.Builder
	notifiers []interfaces.Notifier
	reporter  interfaces.ErrorReporter

	stageObjects   []string
	workspaceBase  string
	keepWorkspace  bool
	logURLTemplate string
	webBaseURL     string
	gemSourceURL   string
}

// PipelineOption configures a Pipeline
type PipelineOption func(*Pipeline)

// WithNotifiers sets the notification channels, tried in order
func WithNotifiers(notifiers ...interfaces.Notifier) PipelineOption {
	return func(p *Pipeline) {
		p.notifiers = notifiers
	}
}

// WithErrorReporter sets where build failures are reported
func WithErrorReporter(r interfaces.ErrorReporter) PipelineOption {
	return func(p *Pipeline) {
		p.reporter = r
	}
}

// WithStageObjects overrides the index objects fetched before the build
func WithStageObjects(keys []string) PipelineOption {
	return func(p *Pipeline) {
		p.stageObjects = keys
	}
}

// WithWorkspaceBase sets the directory in which workspaces are created
func WithWorkspaceBase(dir string) PipelineOption {
	return func(p *Pipeline) {
		p.workspaceBase = dir
	}
}

// WithKeepWorkspace disables workspace removal after a run
func WithKeepWorkspace(keep bool) PipelineOption {
	return func(p *Pipeline) {
		p.keepWorkspace = keep
	}
}

// WithLogURLTemplate sets the log link attached to reported build failures.
// "{run_id}" is replaced with the run ID.
func WithLogURLTemplate(tmpl string) PipelineOption {
	return func(p *Pipeline) {
		p.logURLTemplate = tmpl
	}
}

// WithWebBaseURL sets the GitHub web root used for compare and blob links
func WithWebBaseURL(u string) PipelineOption {
	return func(p *Pipeline) {
		p.webBaseURL = strings.TrimSuffix(u, "/")
	}
}

// WithGemSourceURL sets the gem source advertised in success messages.
// Defaults to http://<bucket>.
func WithGemSourceURL(u string) PipelineOption {
	return func(p *Pipeline) {
		p.gemSourceURL = u
	}
}

// NewPipeline creates a Pipeline
func NewPipeline(newGitHub GitHubClientFactory, store interfaces.ObjectStore, builder interfaces.Builder, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		newGitHub:      newGitHub,
		store:          store,
		builder:        builder,
		stageObjects:   DefaultStageObjects,
		logURLTemplate: DefaultLogURLTemplate,
		webBaseURL:     "https://github.com",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the stages in order and stops at the first terminal error.
func (p *Pipeline) Run(ctx context.Context, secrets *model.Secrets, event *model.InboundEvent) (*model.PipelineResult, error) {
	runID := uuid.NewString()
	logger := ctxlog.From(ctx).With("run_id", runID)
	ctx = ctxlog.With(ctx, logger)

	if err := verifySignature(secrets.WebhookSecret, event.Payload, event.Signature); err != nil {
		return nil, err
	}

	ref, err := parseRefEvent(event)
	if err != nil {
		return nil, err
	}
	logger = logger.With("owner", ref.Owner, "repo", ref.Repo, "tag", ref.Ref)
	ctx = ctxlog.With(ctx, logger)

	gh, err := p.newGitHub(secrets.HostAPIUser, secrets.HostAPIToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub client")
	}

	if err := checkPackage(ctx, gh, ref); err != nil {
		return nil, err
	}

	ws, err := p.createWorkspace(runID)
	if err != nil {
		return nil, err
	}
	defer p.cleanup(ctx, ws)

	if err := p.stage(ctx, secrets.BucketName, ws); err != nil {
		return nil, err
	}

	build, err := p.build(ctx, secrets, &model.BuildRequest{
		RunID:     runID,
		Owner:     ref.Owner,
		Repo:      ref.Repo,
		Tag:       ref.Ref,
		AuthToken: secrets.HostAPIToken,
		Workspace: ws,
	})
	if err != nil {
		return nil, err
	}

	if err := p.reconcile(ctx, secrets, ref, build); err != nil {
		return nil, err
	}

	uploaded, failed := p.publish(ctx, secrets.BucketName, ws, build.ArtifactPaths)

	result := &model.PipelineResult{
		RunID:         runID,
		Owner:         ref.Owner,
		Repo:          ref.Repo,
		Tag:           ref.Ref,
		Version:       build.DeclaredVersion,
		Uploaded:      uploaded,
		FailedUploads: failed,
		ChangelogURL:  p.changelogURL(ctx, gh, ref),
	}

	msg, err := p.successMessage(secrets, ref, result)
	if err != nil {
		return nil, err
	}
	if err := p.notify(ctx, secrets, msg); err != nil {
		return nil, err
	}

	logger.Info("Published gem",
		"version", result.Version,
		"uploaded", len(result.Uploaded),
		"failed_uploads", len(result.FailedUploads),
	)
	return result, nil
}

func (p *Pipeline) cleanup(ctx context.Context, ws *model.Workspace) {
	logger := ctxlog.From(ctx)
	if p.keepWorkspace {
		logger.Debug("Keeping workspace", "workspace", ws.Root)
		return
	}

	if err := os.RemoveAll(ws.Root); err != nil {
		logger.Warn("Failed to clean up workspace", "workspace", ws.Root, "error", err)
		return
	}
	logger.Debug("Cleaned up workspace", "workspace", ws.Root)
}
