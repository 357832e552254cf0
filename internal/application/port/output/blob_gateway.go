package output

import (
	"context"
	"errors"
)

// ErrBlobNotFound is returned by Read when nothing has been written yet
var ErrBlobNotFound = errors.New("blob not found")

// BlobGateway stores a single opaque document, such as the record file
// of the task store. Supports both the local filesystem and S3.
type BlobGateway interface {
	// Read returns the stored content or ErrBlobNotFound
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the stored content atomically: a reader sees either
	// the old or the new content, never a partial write
	Write(ctx context.Context, data []byte) error

	// Location describes where the content lives (path or s3:// URL)
	Location() string
}
