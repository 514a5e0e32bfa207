package hr

import (
	"context"
	"time"
)

// ObjectStorageService abstracts presigned access to object storage.
// Profile photos and leave attachments are uploaded directly by the
// client against presigned URLs; the backend only ever sees the keys.
type ObjectStorageService interface {
	// GenerateUploadURL returns a presigned PUT URL for the given key
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	// GenerateDownloadURL returns a presigned GET URL for the given key
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	// DeleteObject removes an object
	DeleteObject(ctx context.Context, storageKey string) error
	// ObjectExists reports whether the object has been uploaded
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}
