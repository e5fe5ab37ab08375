package usecase

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/gemhook/pkg/domain/model"
	"github.com/m-mizutani/gemhook/pkg/domain/types"
)

// DefaultStageObjects are fetched before every build so the new gem is added
// to the existing index instead of a fresh one. ruby_ship.tar.gz carries the
// Ruby toolchain used by the build program.
var DefaultStageObjects = []string{
	"ruby_ship.tar.gz",
	"latest_specs.4.8",
	"latest_specs.4.8.gz",
	"specs.4.8",
	"specs.4.8.gz",
	"prerelease_specs.4.8",
	"prerelease_specs.4.8.gz",
}

func (p *Pipeline) createWorkspace(runID string) (*model.Workspace, error) {
	if p.workspaceBase != "" {
		if err := os.MkdirAll(p.workspaceBase, 0700); err != nil {
			return nil, goerr.Wrap(err, "failed to create workspace base", goerr.V("dir", p.workspaceBase))
		}
	}

	root, err := os.MkdirTemp(p.workspaceBase, "gemhook-"+runID+"-*")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create workspace")
	}

	ws := &model.Workspace{Root: root}
	if err := os.MkdirAll(ws.ArtifactDir(), 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to create artifact directory", goerr.V("dir", ws.ArtifactDir()))
	}
	return ws, nil
}

// stage downloads the index objects one after another. Objects that cannot
// be fetched are skipped; the build program handles their absence.
func (p *Pipeline) stage(ctx context.Context, bucket string, ws *model.Workspace) error {
	logger := ctxlog.From(ctx)

	for _, name := range p.stageObjects {
		data, err := p.store.GetObject(ctx, bucket, name)
		if err != nil {
			if goerr.HasTag(err, types.ErrTagObjectNotFound) {
				logger.Debug("Index object not found, skipping", "bucket", bucket, "key", name)
			} else {
				logger.Warn("Failed to fetch index object, skipping", "bucket", bucket, "key", name, "error", err)
			}
			continue
		}

		dst := filepath.Join(ws.ArtifactDir(), filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return goerr.Wrap(err, "failed to create directory for index object", goerr.V("path", dst))
		}
		if err := os.WriteFile(dst, data, 0644); err != nil {
			return goerr.Wrap(err, "failed to write index object", goerr.V("path", dst))
		}

		logger.Debug("Staged index object", "key", name, "size", len(data))
	}

	return nil
}
