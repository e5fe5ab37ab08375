package usecase

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/gemhook/pkg/domain/model"
	"github.com/m-mizutani/gemhook/pkg/domain/types"
)

// DefaultLogURLTemplate links to the Cloud Logging entries of one run
const DefaultLogURLTemplate = "https://console.cloud.google.com/logs/query;query=jsonPayload.run_id%3D%22{run_id}%22"

func (p *Pipeline) logURL(runID string) string {
	return strings.ReplaceAll(p.logURLTemplate, "{run_id}", runID)
}

// build runs the build program and collects what it declared
func (p *Pipeline) build(ctx context.Context, secrets *model.Secrets, req *model.BuildRequest) (*model.BuildResult, error) {
	code, err := p.builder.Run(ctx, req)
	if err != nil {
		err = goerr.Wrap(err, "failed to start build program", goerr.T(types.ErrTagBuildFailed))
		p.reportBuildFailure(ctx, secrets, req, err)
		return nil, err
	}

	if code != 0 {
		err := goerr.New("build program exited with status "+strconv.Itoa(code),
			goerr.T(types.ErrTagBuildFailed),
			goerr.V("exit_code", code),
			goerr.V("repo", req.Owner+"/"+req.Repo),
			goerr.V("tag", req.Tag),
			goerr.V("log_url", p.logURL(req.RunID)),
		)
		p.reportBuildFailure(ctx, secrets, req, err)
		return nil, err
	}

	metadata, err := os.ReadFile(req.Workspace.MetadataPath())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read build metadata", goerr.T(types.ErrTagBuildFailed), goerr.V("path", req.Workspace.MetadataPath()))
	}

	manifest, err := os.ReadFile(req.Workspace.ManifestPath())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read build manifest", goerr.T(types.ErrTagBuildFailed), goerr.V("path", req.Workspace.ManifestPath()))
	}

	return &model.BuildResult{
		ExitCode:        code,
		DeclaredVersion: parseDeclaredVersion(metadata),
		ArtifactPaths:   parseManifest(manifest),
	}, nil
}

func (p *Pipeline) reportBuildFailure(ctx context.Context, secrets *model.Secrets, req *model.BuildRequest, err error) {
	if p.reporter == nil || !secrets.ErrorReportingEnabled() {
		return
	}

	extras := map[string]string{
		"run_id":  req.RunID,
		"owner":   req.Owner,
		"repo":    req.Repo,
		"tag":     req.Tag,
		"log_url": p.logURL(req.RunID),
	}
	if reportErr := p.reporter.Report(ctx, secrets.ErrorReportingKey, err, extras); reportErr != nil {
		ctxlog.From(ctx).Warn("Failed to report build failure", "error", reportErr)
	}
}

// parseManifest splits the manifest on whitespace, dropping empty entries
func parseManifest(data []byte) []string {
	return strings.Fields(string(data))
}
