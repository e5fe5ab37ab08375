package interfaces

import "context"

// ObjectStore is a flat bucket/key object store
type ObjectStore interface {
	// GetObject returns the object body. A missing object yields an error
	// tagged types.ErrTagObjectNotFound.
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)

	// PutObject writes data, making it publicly readable when public is true
	PutObject(ctx context.Context, bucket, key string, data []byte, public bool) error
}
