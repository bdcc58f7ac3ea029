// Package ucs exposes a uniform file-storage interface over
// S3-compatible object-storage backends. A caller constructs a
// backend-specific client with one of the New*Storage functions and
// issues the six storage operations against the returned
// filestorage.FileStorage handle; transport, signing, retries and
// multipart mechanics stay with the wrapped SDKs.
package ucs

import (
	"ucs/internal/connection"
	connfilestorage "ucs/internal/connection/filestorage"
	"ucs/pkg/filestorage"
)

// S3Options configures an AWS S3 client. AccessKey and SecretKey fall
// back to S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY when empty. Region
// defaults to us-east-1. Endpoint points the client at an S3-compatible
// service instead of AWS.
type S3Options struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string
}

// R2Options configures a Cloudflare R2 client. AccessKey, SecretKey and
// AccountID fall back to R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY and
// R2_ACCOUNT_ID when empty. The endpoint is derived from the account ID
// unless Endpoint overrides it; Region defaults to "auto", the only
// value R2 accepts.
type R2Options struct {
	AccessKey string
	SecretKey string
	AccountID string
	Region    string
	Endpoint  string
}

// MinIOOptions configures a MinIO client. AccessKey and SecretKey fall
// back to MINIO_ACCESS_KEY and MINIO_SECRET_KEY when empty. Endpoint
// defaults to localhost:9000.
type MinIOOptions struct {
	AccessKey string
	SecretKey string
	Endpoint  string
	Secure    bool
}

// AzBlobOptions configures an Azure Blob Storage client. AccountName and
// AccountKey fall back to AZURE_STORAGE_ACCOUNT_NAME and
// AZURE_STORAGE_ACCOUNT_KEY when empty. The account URL is derived from
// the account name unless Endpoint overrides it.
type AzBlobOptions struct {
	AccountName string
	AccountKey  string
	Endpoint    string
}

// NewS3Storage creates an AWS S3 client. Missing credentials are
// reported all at once through a *common.ConfigError.
func NewS3Storage(options S3Options) (*filestorage.S3Client, error) {
	auth, err := connection.ResolveS3(connection.AuthConfig{
		AccessKey: options.AccessKey,
		SecretKey: options.SecretKey,
	}, nil)
	if err != nil {
		return nil, err
	}

	return connfilestorage.CreateS3Connection(options.Endpoint, options.Region, auth)
}

// NewR2Storage creates a Cloudflare R2 client. Missing credentials are
// reported all at once through a *common.ConfigError.
func NewR2Storage(options R2Options) (*filestorage.S3Client, error) {
	auth, err := connection.ResolveR2(connection.AuthConfig{
		AccessKey: options.AccessKey,
		SecretKey: options.SecretKey,
		AccountID: options.AccountID,
	}, nil)
	if err != nil {
		return nil, err
	}

	return connfilestorage.CreateR2Connection(options.Endpoint, options.Region, auth)
}

// NewMinIOStorage creates a MinIO client. Missing credentials are
// reported all at once through a *common.ConfigError.
func NewMinIOStorage(options MinIOOptions) (*filestorage.MinioClient, error) {
	auth, err := connection.ResolveMinIO(connection.AuthConfig{
		AccessKey: options.AccessKey,
		SecretKey: options.SecretKey,
	}, nil)
	if err != nil {
		return nil, err
	}

	return connfilestorage.CreateMinioConnection(options.Endpoint, options.Secure, auth)
}

// NewAzBlobStorage creates an Azure Blob Storage client. Missing
// credentials are reported all at once through a *common.ConfigError.
func NewAzBlobStorage(options AzBlobOptions) (*filestorage.AzBlobClient, error) {
	auth, err := connection.ResolveAzBlob(connection.AuthConfig{
		AccessKey: options.AccountName,
		SecretKey: options.AccountKey,
	}, nil)
	if err != nil {
		return nil, err
	}

	return connfilestorage.CreateAzBlobConnection(options.Endpoint, auth)
}
