package filestorage

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"

	common "ucs/pkg"
)

// MinioClient serves the unified storage interface over a MinIO
// deployment through minio-go.
type MinioClient struct {
	client     *minio.Client
	formatURL  common.URLFormatter
	properties common.ConnectionProperties
}

// NewMinioClient wraps a minio-go client. It verifies connectivity with a
// ListBuckets call before handing the wrapper out.
func NewMinioClient(client *minio.Client, formatURL common.URLFormatter, properties common.ConnectionProperties) (*MinioClient, error) {
	if client == nil {
		return nil, fmt.Errorf("failed to create MinioClient: client is nil")
	}
	if formatURL == nil {
		formatURL = common.URLFormatterFor(properties.Backend)
	}

	_, err := client.ListBuckets(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MinIO: %w", err)
	}

	return &MinioClient{
		client:     client,
		formatURL:  formatURL,
		properties: properties,
	}, nil
}

// GetClient returns the underlying minio-go client.
func (m *MinioClient) GetClient() *minio.Client {
	return m.client
}

func (m *MinioClient) GetConnectionProperties() common.ConnectionProperties {
	return m.properties
}

func (m *MinioClient) StorageURL(bucket string, key string) string {
	return m.formatURL(bucket, key)
}

func (m *MinioClient) UploadFile(ctx context.Context, localPath string, bucket string, key string) (string, string, error) {
	key = resolveKey(localPath, key)

	_, err := m.client.FPutObject(ctx, bucket, key, localPath, minio.PutObjectOptions{})
	if err != nil {
		return "", "", common.NewStorageError(common.ErrUpload, m.properties.Backend, bucket, key, err)
	}

	return key, m.formatURL(bucket, key), nil
}

func (m *MinioClient) DownloadFile(ctx context.Context, bucket string, key string, localPath string) (string, error) {
	localPath, err := resolveLocalPath(key, localPath)
	if err != nil {
		return "", common.NewStorageError(common.ErrDownload, m.properties.Backend, bucket, key, err)
	}

	if err := m.client.FGetObject(ctx, bucket, key, localPath, minio.GetObjectOptions{}); err != nil {
		return "", common.NewStorageError(common.ErrDownload, m.properties.Backend, bucket, key, err)
	}

	return localPath, nil
}

func (m *MinioClient) ListFiles(ctx context.Context, bucket string, prefix string) ([]common.FileEntry, error) {
	entries := []common.FileEntry{}
	for object := range m.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, common.NewStorageError(common.ErrList, m.properties.Backend, bucket, "", object.Err)
		}
		entries = append(entries, common.FileEntry{
			Key:          object.Key,
			Size:         object.Size,
			LastModified: object.LastModified,
		})
	}

	return entries, nil
}

func (m *MinioClient) DeleteFile(ctx context.Context, bucket string, key string) (bool, error) {
	if err := m.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return false, common.NewStorageError(common.ErrDelete, m.properties.Backend, bucket, key, err)
	}

	return true, nil
}

func (m *MinioClient) FileExists(ctx context.Context, bucket string, key string) (bool, error) {
	_, err := m.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isMinioNotFound(err) {
			return false, nil
		}
		return false, common.NewStorageError(common.ErrExists, m.properties.Backend, bucket, key, err)
	}

	return true, nil
}

func (m *MinioClient) GetFileMetadata(ctx context.Context, bucket string, key string) (*common.FileMetadata, error) {
	info, err := m.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, common.NewStorageError(common.ErrMetadata, m.properties.Backend, bucket, key, err)
	}

	return &common.FileMetadata{
		ContentLength: info.Size,
		ContentType:   info.ContentType,
		LastModified:  info.LastModified,
		Metadata:      minioUserMetadata(info),
	}, nil
}

// minioUserMetadata collects the custom x-amz-meta-* entries of a stat
// response into a plain map.
func minioUserMetadata(info minio.ObjectInfo) map[string]string {
	metadata := map[string]string{}
	for name, value := range info.UserMetadata {
		metadata[strings.ToLower(name)] = value
	}
	for name, values := range info.Metadata {
		if strings.HasPrefix(name, "X-Amz-Meta-") && len(values) > 0 {
			metadata[strings.ToLower(strings.TrimPrefix(name, "X-Amz-Meta-"))] = values[0]
		}
	}

	return metadata
}

// isMinioNotFound reports whether a minio-go error means the object does
// not exist.
func isMinioNotFound(err error) bool {
	response := minio.ToErrorResponse(err)
	return response.Code == "NoSuchKey" || response.StatusCode == 404
}

var _ FileStorage = (*MinioClient)(nil)
