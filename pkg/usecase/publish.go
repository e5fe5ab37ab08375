package usecase

import (
	"context"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/gemhook/pkg/domain/model"
	"github.com/m-mizutani/gemhook/pkg/domain/types"
)

// publish uploads the artifacts one by one in manifest order. A failed
// upload is logged and recorded; the remaining uploads still run. Entries
// outside the artifact directory are recorded as failed by their path.
func (p *Pipeline) publish(ctx context.Context, bucket string, ws *model.Workspace, paths []string) (uploaded, failed []string) {
	logger := ctxlog.From(ctx)

	for _, path := range paths {
		key, ok := ws.ObjectKey(path)
		if !ok {
			logger.Warn("Skipping artifact outside the gemserver directory", "path", path)
			failed = append(failed, path)
			continue
		}

		if err := p.upload(ctx, bucket, key, ws.Resolve(path)); err != nil {
			logger.Error("Failed to upload artifact", "error", err)
			failed = append(failed, key)
			continue
		}

		logger.Info("Uploaded artifact", "bucket", bucket, "key", key)
		uploaded = append(uploaded, key)
	}

	return uploaded, failed
}

func (p *Pipeline) upload(ctx context.Context, bucket, key, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return goerr.Wrap(err, "failed to read artifact", goerr.T(types.ErrTagUpload), goerr.V("path", path))
	}

	if err := p.store.PutObject(ctx, bucket, key, data, true); err != nil {
		return goerr.Wrap(err, "failed to upload artifact", goerr.T(types.ErrTagUpload), goerr.V("bucket", bucket), goerr.V("key", key))
	}
	return nil
}
