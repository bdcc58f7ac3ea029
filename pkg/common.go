package common

import (
	"fmt"
	"time"
)

// Backend identifiers. The identifier doubles as the scheme token in
// storage URLs, e.g. "s3://bucket/key".
const (
	BackendS3     = "s3"
	BackendR2     = "r2"
	BackendMinIO  = "minio"
	BackendAzBlob = "azblob"
)

// ConnectionProperties describes the fixed facts of an established
// connection. A client is bound to one backend and one endpoint for its
// whole lifetime; these values never change after construction.
type ConnectionProperties struct {
	Backend  string
	Region   string
	Endpoint string
}

// FileMetadata holds the object metadata returned by a backend.
// ContentType may be empty when the backend did not record one.
type FileMetadata struct {
	ContentLength int64
	ContentType   string
	LastModified  time.Time
	Metadata      map[string]string
}

// FileEntry is a single listing result. Entries keep the order the
// backend returned them in; lexicographic key order is what S3-compatible
// services produce in practice, but this layer does not guarantee it.
type FileEntry struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// URLFormatter produces the canonical locator string for an object.
// Formatting is purely syntactic: no validation of bucket or key is done.
type URLFormatter func(bucket string, key string) string

// FormatURL returns the canonical "scheme://bucket/key" locator for an
// object stored under the given backend.
func FormatURL(backend string, bucket string, key string) string {
	return fmt.Sprintf("%s://%s/%s", backend, bucket, key)
}

// URLFormatterFor returns the URLFormatter bound to a backend's scheme.
// It is the only per-backend variation point of the storage interface.
func URLFormatterFor(backend string) URLFormatter {
	return func(bucket string, key string) string {
		return FormatURL(backend, bucket, key)
	}
}
