package filestorage

import (
	"context"

	common "ucs/pkg"
)

// FileStorage is the capability contract shared by every backend. All
// operations are synchronous round trips against the remote service; the
// implementations hold no per-operation state and add no retries,
// caching or timeouts of their own.
type FileStorage interface {
	// UploadFile uploads a local file. An empty key derives the key from
	// the basename of localPath. It returns the resolved key and the
	// canonical storage URL of the uploaded object.
	UploadFile(ctx context.Context, localPath string, bucket string, key string) (string, string, error)

	// DownloadFile downloads an object to the local filesystem. An empty
	// localPath derives the destination from the basename of key. Missing
	// destination directories are created. It returns the resolved local
	// path.
	DownloadFile(ctx context.Context, bucket string, key string, localPath string) (string, error)

	// ListFiles lists the objects of a bucket, restricted to keys sharing
	// prefix when prefix is non-empty. No matches yields an empty slice,
	// not an error.
	ListFiles(ctx context.Context, bucket string, prefix string) ([]common.FileEntry, error)

	// DeleteFile removes an object and reports true on success. Deleting
	// an absent key follows the backend's semantics, which for
	// S3-compatible services is a successful no-op.
	DeleteFile(ctx context.Context, bucket string, key string) (bool, error)

	// FileExists probes for an object without fetching its body. A clean
	// not-found is (false, nil); infrastructure failures return false
	// together with an existence-kind error so outages stay
	// distinguishable from missing objects.
	FileExists(ctx context.Context, bucket string, key string) (bool, error)

	// GetFileMetadata returns size, content type, last-modified time and
	// custom tags of an object. A missing object is an error.
	GetFileMetadata(ctx context.Context, bucket string, key string) (*common.FileMetadata, error)

	// StorageURL returns the canonical "scheme://bucket/key" locator.
	StorageURL(bucket string, key string) string

	// GetConnectionProperties returns the fixed facts of the connection.
	GetConnectionProperties() common.ConnectionProperties
}
