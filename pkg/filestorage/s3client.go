package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	common "ucs/pkg"
)

// S3Client serves every backend that speaks the S3 wire protocol through
// aws-sdk-go-v2: AWS S3 itself and Cloudflare R2. The injected URL
// formatter is the only thing that differs between the two.
type S3Client struct {
	client     *s3.Client
	formatURL  common.URLFormatter
	properties common.ConnectionProperties
}

// NewS3Client wraps an aws-sdk-go-v2 S3 client. It verifies connectivity
// with a ListBuckets call before handing the wrapper out, so a client
// that constructs successfully is known to reach its backend.
func NewS3Client(client *s3.Client, formatURL common.URLFormatter, properties common.ConnectionProperties) (*S3Client, error) {
	if client == nil {
		return nil, fmt.Errorf("failed to create S3Client: client is nil")
	}
	if formatURL == nil {
		formatURL = common.URLFormatterFor(properties.Backend)
	}

	_, err := client.ListBuckets(context.TODO(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", properties.Backend, err)
	}

	return &S3Client{
		client:     client,
		formatURL:  formatURL,
		properties: properties,
	}, nil
}

// GetClient returns the underlying aws-sdk-go-v2 client.
func (s *S3Client) GetClient() *s3.Client {
	return s.client
}

func (s *S3Client) GetConnectionProperties() common.ConnectionProperties {
	return s.properties
}

// StorageURL returns the canonical locator for an object. The URL is
// derived, never stored.
func (s *S3Client) StorageURL(bucket string, key string) string {
	return s.formatURL(bucket, key)
}

// UploadFile uploads a local file. An empty key derives the key from the
// basename of localPath.
func (s *S3Client) UploadFile(ctx context.Context, localPath string, bucket string, key string) (string, string, error) {
	key = resolveKey(localPath, key)

	file, err := os.Open(localPath)
	if err != nil {
		return "", "", common.NewStorageError(common.ErrUpload, s.properties.Backend, bucket, key, err)
	}
	defer file.Close()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   file,
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "EntityTooLarge" {
			log.Printf("Object %s is too large for a single PutObject call; use the multipart upload API.\n", key)
		}
		return "", "", common.NewStorageError(common.ErrUpload, s.properties.Backend, bucket, key, err)
	}

	return key, s.formatURL(bucket, key), nil
}

// DownloadFile downloads an object to the local filesystem, creating any
// missing destination directories. An empty localPath derives the
// destination from the basename of key.
func (s *S3Client) DownloadFile(ctx context.Context, bucket string, key string, localPath string) (string, error) {
	localPath, err := resolveLocalPath(key, localPath)
	if err != nil {
		return "", common.NewStorageError(common.ErrDownload, s.properties.Backend, bucket, key, err)
	}

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", common.NewStorageError(common.ErrDownload, s.properties.Backend, bucket, key, err)
	}
	defer result.Body.Close()

	file, err := os.Create(localPath)
	if err != nil {
		return "", common.NewStorageError(common.ErrDownload, s.properties.Backend, bucket, key, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, result.Body); err != nil {
		os.Remove(localPath)
		return "", common.NewStorageError(common.ErrDownload, s.properties.Backend, bucket, key, err)
	}

	return localPath, nil
}

// ListFiles lists the objects of a bucket, restricted to keys sharing
// prefix when prefix is non-empty. Pagination is followed to the end.
func (s *S3Client) ListFiles(ctx context.Context, bucket string, prefix string) ([]common.FileEntry, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	entries := []common.FileEntry{}
	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, common.NewStorageError(common.ErrList, s.properties.Backend, bucket, "", err)
		}
		for _, object := range page.Contents {
			entry := common.FileEntry{
				Key:  aws.ToString(object.Key),
				Size: aws.ToInt64(object.Size),
			}
			if object.LastModified != nil {
				entry.LastModified = *object.LastModified
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

// DeleteFile removes an object. Deleting an absent key succeeds as a
// no-op, which is the S3 protocol's own semantics.
func (s *S3Client) DeleteFile(ctx context.Context, bucket string, key string) (bool, error) {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return false, common.NewStorageError(common.ErrDelete, s.properties.Backend, bucket, key, err)
	}

	return true, nil
}

// FileExists probes for an object with a HeadObject call. A clean
// not-found is (false, nil); any other failure is reported so an outage
// stays distinguishable from a missing object.
func (s *S3Client) FileExists(ctx context.Context, bucket string, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, common.NewStorageError(common.ErrExists, s.properties.Backend, bucket, key, err)
	}

	return true, nil
}

// GetFileMetadata returns the object's size, content type, last-modified
// time and custom metadata. A missing object is an error.
func (s *S3Client) GetFileMetadata(ctx context.Context, bucket string, key string) (*common.FileMetadata, error) {
	result, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, common.NewStorageError(common.ErrMetadata, s.properties.Backend, bucket, key, err)
	}

	metadata := &common.FileMetadata{
		ContentLength: aws.ToInt64(result.ContentLength),
		ContentType:   aws.ToString(result.ContentType),
		Metadata:      result.Metadata,
	}
	if result.LastModified != nil {
		metadata.LastModified = *result.LastModified
	}
	if metadata.Metadata == nil {
		metadata.Metadata = map[string]string{}
	}

	return metadata, nil
}

// isNotFound reports whether an S3 error means the object does not exist.
// HeadObject surfaces a bare 404 as types.NotFound while GetObject uses
// types.NoSuchKey; some S3-compatible services only set the error code.
func isNotFound(err error) bool {
	var notFound *types.NotFound
	var noKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noKey) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "404":
			return true
		}
	}

	return false
}

var _ FileStorage = (*S3Client)(nil)
