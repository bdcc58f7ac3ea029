package ucs

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"sync"

	"ucs/internal/connection"
	connfilestorage "ucs/internal/connection/filestorage"
	"ucs/pkg/filestorage"
)

// StorageFactory caches one live client per configuration. Clients are
// safe to share because they are immutable after construction and own no
// per-operation state; the factory is the explicit replacement for a
// process-wide singleton per backend. Callers that want independent
// clients simply call the New*Storage constructors directly.
//
// Credentials are resolved before the cache is consulted, so an explicit
// value and its environment fallback map to the same entry, and a change
// in environment credentials yields a fresh client. Cache keys are
// SHA-256 fingerprints; no secret is retained in the map.
type StorageFactory struct {
	mu      sync.Mutex
	clients map[string]filestorage.FileStorage
}

// NewStorageFactory creates an empty factory.
func NewStorageFactory() *StorageFactory {
	return &StorageFactory{
		clients: make(map[string]filestorage.FileStorage),
	}
}

// S3 returns the cached AWS S3 client for the given options, creating it
// on first use.
func (f *StorageFactory) S3(options S3Options) (filestorage.FileStorage, error) {
	auth, err := connection.ResolveS3(connection.AuthConfig{
		AccessKey: options.AccessKey,
		SecretKey: options.SecretKey,
	}, nil)
	if err != nil {
		return nil, err
	}

	key := fingerprint("s3", auth.AccessKey, auth.SecretKey, options.Region, options.Endpoint)
	return f.get(key, func() (filestorage.FileStorage, error) {
		return connfilestorage.CreateS3Connection(options.Endpoint, options.Region, auth)
	})
}

// R2 returns the cached Cloudflare R2 client for the given options,
// creating it on first use.
func (f *StorageFactory) R2(options R2Options) (filestorage.FileStorage, error) {
	auth, err := connection.ResolveR2(connection.AuthConfig{
		AccessKey: options.AccessKey,
		SecretKey: options.SecretKey,
		AccountID: options.AccountID,
	}, nil)
	if err != nil {
		return nil, err
	}

	key := fingerprint("r2", auth.AccessKey, auth.SecretKey, auth.AccountID, options.Region, options.Endpoint)
	return f.get(key, func() (filestorage.FileStorage, error) {
		return connfilestorage.CreateR2Connection(options.Endpoint, options.Region, auth)
	})
}

// MinIO returns the cached MinIO client for the given options, creating
// it on first use.
func (f *StorageFactory) MinIO(options MinIOOptions) (filestorage.FileStorage, error) {
	auth, err := connection.ResolveMinIO(connection.AuthConfig{
		AccessKey: options.AccessKey,
		SecretKey: options.SecretKey,
	}, nil)
	if err != nil {
		return nil, err
	}

	key := fingerprint("minio", auth.AccessKey, auth.SecretKey, options.Endpoint, strconv.FormatBool(options.Secure))
	return f.get(key, func() (filestorage.FileStorage, error) {
		return connfilestorage.CreateMinioConnection(options.Endpoint, options.Secure, auth)
	})
}

// AzBlob returns the cached Azure Blob Storage client for the given
// options, creating it on first use.
func (f *StorageFactory) AzBlob(options AzBlobOptions) (filestorage.FileStorage, error) {
	auth, err := connection.ResolveAzBlob(connection.AuthConfig{
		AccessKey: options.AccountName,
		SecretKey: options.AccountKey,
	}, nil)
	if err != nil {
		return nil, err
	}

	key := fingerprint("azblob", auth.AccessKey, auth.SecretKey, options.Endpoint)
	return f.get(key, func() (filestorage.FileStorage, error) {
		return connfilestorage.CreateAzBlobConnection(options.Endpoint, auth)
	})
}

// fingerprint derives a cache key from the resolved configuration. Parts
// are length-prefixed before hashing so no two configurations collide on
// a shifted separator.
func fingerprint(parts ...string) string {
	var builder strings.Builder
	for _, part := range parts {
		builder.WriteString(strconv.Itoa(len(part)))
		builder.WriteByte(':')
		builder.WriteString(part)
	}

	sum := sha256.Sum256([]byte(builder.String()))
	return hex.EncodeToString(sum[:])
}

func (f *StorageFactory) get(key string, create func() (filestorage.FileStorage, error)) (filestorage.FileStorage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if client, ok := f.clients[key]; ok {
		return client, nil
	}

	client, err := create()
	if err != nil {
		return nil, err
	}
	f.clients[key] = client

	return client, nil
}
