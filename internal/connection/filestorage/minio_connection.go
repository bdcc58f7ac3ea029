package connfilestorage

import (
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	miniocredentials "github.com/minio/minio-go/v7/pkg/credentials"

	"ucs/internal/connection"
	common "ucs/pkg"
	"ucs/pkg/filestorage"
)

// DefaultMinIOEndpoint is used when no endpoint is given.
const DefaultMinIOEndpoint = "localhost:9000"

// CreateMinioConnection creates a client bound to a MinIO deployment.
// minio-go expects the endpoint without a scheme; a leading http:// or
// https:// is stripped and only sets the transport security.
func CreateMinioConnection(endpoint string, secure bool, auth connection.AuthConfig) (*filestorage.MinioClient, error) {
	if endpoint == "" {
		endpoint = DefaultMinIOEndpoint
	}
	if strings.HasPrefix(endpoint, "https://") {
		endpoint = strings.TrimPrefix(endpoint, "https://")
		secure = true
	} else {
		endpoint = strings.TrimPrefix(endpoint, "http://")
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  miniocredentials.NewStaticV4(auth.AccessKey, auth.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return filestorage.NewMinioClient(minioClient, common.URLFormatterFor(common.BackendMinIO), common.ConnectionProperties{
		Backend:  common.BackendMinIO,
		Endpoint: endpoint,
	})
}
