// Package filestore defines the interface for publishing finished export
// artifacts to object storage. Providers (MinIO, or anything S3-compatible)
// implement Store; callers depend only on this package.
package filestore

import (
	"context"
	"time"
)

// Config holds the settings for one object storage backend.
type Config struct {
	// Endpoint is the host:port of the storage server,
	// e.g. "localhost:9000" for local MinIO.
	Endpoint string

	// AccessKey and SecretKey are S3-style credentials.
	AccessKey string
	SecretKey string

	// UseSSL controls whether TLS is used for the connection.
	UseSSL bool

	// Bucket is the bucket export artifacts are published to.
	Bucket string
}

// ObjectInfo describes one published artifact.
type ObjectInfo struct {
	// Key is the object path within the bucket.
	Key string

	// Size is the byte size of the object.
	Size int64

	// ETag is the object's entity tag, as returned by the backend.
	ETag string

	// LastModified is when the object was written.
	LastModified time.Time
}

// Store is the interface export publication goes through.
type Store interface {
	// Ping verifies the storage backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error

	// Publish uploads the file at localPath to bucket under key and
	// returns the stored object's metadata.
	Publish(ctx context.Context, bucket, key, localPath, contentType string) (*ObjectInfo, error)

	// Stat returns metadata for a published object without downloading it.
	Stat(ctx context.Context, bucket, key string) (*ObjectInfo, error)

	// PresignGetURL returns a time-limited URL for downloading the object
	// without credentials.
	PresignGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}
