package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"path"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"

	"github.com/m-mizutani/gemhook/pkg/domain/interfaces"
	"github.com/m-mizutani/gemhook/pkg/domain/types"
)

// publicRead is the GCS predefined ACL granting allUsers READER
const publicRead = "publicRead"

type gcsClient struct {
	client *storage.Client
}

// NewGCS creates an ObjectStore backed by Google Cloud Storage
func NewGCS(ctx context.Context, opts ...option.ClientOption) (interfaces.ObjectStore, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GCS client")
	}

	return &gcsClient{client: client}, nil
}

// GetObject downloads an object
func (c *gcsClient) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	r, err := c.client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return nil, goerr.Wrap(err, "object not found", goerr.T(types.ErrTagObjectNotFound), goerr.V("bucket", bucket), goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to open object", goerr.V("bucket", bucket), goerr.V("key", key))
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read object", goerr.V("bucket", bucket), goerr.V("key", key))
	}

	return data, nil
}

// PutObject uploads an object, optionally with the publicRead ACL
func (c *gcsClient) PutObject(ctx context.Context, bucket, key string, data []byte, public bool) error {
	w := c.client.Bucket(bucket).Object(key).NewWriter(ctx)
	if public {
		w.PredefinedACL = publicRead
	}
	w.ContentType = contentType(key)

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write object", goerr.V("bucket", bucket), goerr.V("key", key))
	}

	// The upload is only committed on Close
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to commit object", goerr.V("bucket", bucket), goerr.V("key", key))
	}

	return nil
}

// contentType keeps gem archives and compressed indexes opaque so clients
// receive the bytes unmodified.
func contentType(key string) string {
	switch ext := path.Ext(key); ext {
	case ".gem", ".gz", ".rz", ".8":
		return "application/octet-stream"
	default:
		if t := mime.TypeByExtension(ext); t != "" {
			return t
		}
	}
	return "application/octet-stream"
}
