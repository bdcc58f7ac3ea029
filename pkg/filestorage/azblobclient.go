package filestorage

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	common "ucs/pkg"
)

// AzBlobClient serves the unified storage interface over Azure Blob
// Storage. Buckets map to containers and keys to blob names.
type AzBlobClient struct {
	client     *azblob.Client
	formatURL  common.URLFormatter
	properties common.ConnectionProperties
}

// NewAzBlobClient wraps an azblob client. It verifies connectivity by
// requesting the first page of the container listing.
func NewAzBlobClient(client *azblob.Client, formatURL common.URLFormatter, properties common.ConnectionProperties) (*AzBlobClient, error) {
	if client == nil {
		return nil, fmt.Errorf("failed to create AzBlobClient: client is nil")
	}
	if formatURL == nil {
		formatURL = common.URLFormatterFor(properties.Backend)
	}

	pager := client.NewListContainersPager(nil)
	_, err := pager.NextPage(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to azure blob: %w", err)
	}

	return &AzBlobClient{
		client:     client,
		formatURL:  formatURL,
		properties: properties,
	}, nil
}

// GetClient returns the underlying azblob client.
func (a *AzBlobClient) GetClient() *azblob.Client {
	return a.client
}

func (a *AzBlobClient) GetConnectionProperties() common.ConnectionProperties {
	return a.properties
}

func (a *AzBlobClient) StorageURL(bucket string, key string) string {
	return a.formatURL(bucket, key)
}

func (a *AzBlobClient) UploadFile(ctx context.Context, localPath string, bucket string, key string) (string, string, error) {
	key = resolveKey(localPath, key)

	file, err := os.Open(localPath)
	if err != nil {
		return "", "", common.NewStorageError(common.ErrUpload, a.properties.Backend, bucket, key, err)
	}
	defer file.Close()

	if _, err := a.client.UploadFile(ctx, bucket, key, file, nil); err != nil {
		return "", "", common.NewStorageError(common.ErrUpload, a.properties.Backend, bucket, key, err)
	}

	return key, a.formatURL(bucket, key), nil
}

func (a *AzBlobClient) DownloadFile(ctx context.Context, bucket string, key string, localPath string) (string, error) {
	localPath, err := resolveLocalPath(key, localPath)
	if err != nil {
		return "", common.NewStorageError(common.ErrDownload, a.properties.Backend, bucket, key, err)
	}

	file, err := os.Create(localPath)
	if err != nil {
		return "", common.NewStorageError(common.ErrDownload, a.properties.Backend, bucket, key, err)
	}
	defer file.Close()

	if _, err := a.client.DownloadFile(ctx, bucket, key, file, nil); err != nil {
		os.Remove(localPath)
		return "", common.NewStorageError(common.ErrDownload, a.properties.Backend, bucket, key, err)
	}

	return localPath, nil
}

func (a *AzBlobClient) ListFiles(ctx context.Context, bucket string, prefix string) ([]common.FileEntry, error) {
	options := &azblob.ListBlobsFlatOptions{}
	if prefix != "" {
		options.Prefix = &prefix
	}

	entries := []common.FileEntry{}
	pager := a.client.NewListBlobsFlatPager(bucket, options)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, common.NewStorageError(common.ErrList, a.properties.Backend, bucket, "", err)
		}
		for _, item := range page.Segment.BlobItems {
			if item == nil || item.Name == nil {
				continue
			}
			entry := common.FileEntry{Key: *item.Name}
			if item.Properties != nil {
				if item.Properties.ContentLength != nil {
					entry.Size = *item.Properties.ContentLength
				}
				if item.Properties.LastModified != nil {
					entry.LastModified = *item.Properties.LastModified
				}
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

// DeleteFile removes a blob. Unlike S3-compatible services, Azure reports
// deleting an absent blob as an error; that backend semantic is passed
// through.
func (a *AzBlobClient) DeleteFile(ctx context.Context, bucket string, key string) (bool, error) {
	if _, err := a.client.DeleteBlob(ctx, bucket, key, nil); err != nil {
		return false, common.NewStorageError(common.ErrDelete, a.properties.Backend, bucket, key, err)
	}

	return true, nil
}

func (a *AzBlobClient) FileExists(ctx context.Context, bucket string, key string) (bool, error) {
	blobClient := a.client.ServiceClient().NewContainerClient(bucket).NewBlobClient(key)

	_, err := blobClient.GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return false, nil
		}
		return false, common.NewStorageError(common.ErrExists, a.properties.Backend, bucket, key, err)
	}

	return true, nil
}

func (a *AzBlobClient) GetFileMetadata(ctx context.Context, bucket string, key string) (*common.FileMetadata, error) {
	blobClient := a.client.ServiceClient().NewContainerClient(bucket).NewBlobClient(key)

	result, err := blobClient.GetProperties(ctx, nil)
	if err != nil {
		return nil, common.NewStorageError(common.ErrMetadata, a.properties.Backend, bucket, key, err)
	}

	metadata := &common.FileMetadata{Metadata: map[string]string{}}
	if result.ContentLength != nil {
		metadata.ContentLength = *result.ContentLength
	}
	if result.ContentType != nil {
		metadata.ContentType = *result.ContentType
	}
	if result.LastModified != nil {
		metadata.LastModified = *result.LastModified
	}
	for name, value := range result.Metadata {
		if value != nil {
			metadata.Metadata[strings.ToLower(name)] = *value
		}
	}

	return metadata, nil
}

var _ FileStorage = (*AzBlobClient)(nil)
