package review

import (
	"context"
	"io"
	"time"
)

// ObjectStorage abstracts the blob store holding uploaded invoice documents.
// Implemented by storage.S3ObjectStorage in production and an in-memory stub
// in tests.
type ObjectStorage interface {
	// Upload stores the full content of r under storageKey.
	Upload(ctx context.Context, storageKey string, r io.Reader, contentType string) error

	// Download returns the object content as a stream. The caller must
	// close the reader. Size is -1 when the backend does not report it.
	Download(ctx context.Context, storageKey string) (io.ReadCloser, int64, error)

	// GenerateDownloadURL returns a presigned GET URL for the object.
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject removes the object. Deleting a missing key is not an error.
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists reports whether the object is present.
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}
