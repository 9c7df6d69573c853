package storage

import (
	"context"
	"errors"
	"time"
)

// ErrPresignUnsupported is returned by backends that cannot mint
// credential-free URLs.
var ErrPresignUnsupported = errors.New("storage: presigned urls not supported")

// BlobStore is the contract over object storage: put, get and presigned-url
// generation. Keys are opaque blob names unique within the store.
type BlobStore interface {
	// Upload stores the local file under key and returns the stored size in bytes.
	Upload(ctx context.Context, key, filePath, contentType string) (int64, error)

	// Download fetches the blob at key into the local file path.
	Download(ctx context.Context, key, filePath string) error

	// PresignGet returns a time-limited URL granting read access to one blob.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)

	// PresignPut returns a time-limited URL granting write access to one blob.
	PresignPut(ctx context.Context, key string, expiry time.Duration) (string, error)
}
