package storage

import (
	"context"
	"errors"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

var ErrObjectNotFound = errors.New("object not found in storage")

// ObjectInfo is what the bucket reports about a stored object.
type ObjectInfo struct {
	Size        int64
	ContentType string
}

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// GeneratePresignedUploadURL returns a URL the browser PUTs the file to directly.
	// The upload must send the same Content-Type header.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL returns a temporary GET URL.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// StatObject returns ErrObjectNotFound if nothing was uploaded under objectKey.
	StatObject(ctx context.Context, objectKey string) (*ObjectInfo, error)

	DeleteObject(ctx context.Context, objectKey string) error
}
