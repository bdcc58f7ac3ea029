package filestorage_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/aws/aws-sdk-go-v2/aws"
	s3config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/docker/go-connections/nat"
	"github.com/minio/minio-go/v7"
	miniocredentials "github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/azurite"
	"github.com/testcontainers/testcontainers-go/modules/localstack"
	tcminio "github.com/testcontainers/testcontainers-go/modules/minio"

	"ucs/internal/connection"
	connfilestorage "ucs/internal/connection/filestorage"
	"ucs/pkg/filestorage"
)

const (
	s3User     = "ucsUser"
	s3Password = "ucsPassword"
	testBucket = "test-bucket"
)

var (
	// LocalStack S3
	s3Endpoint string
	rawClient  *s3.Client            // plain SDK client used for seeding and verification
	testClient *filestorage.S3Client // client under test with the s3 scheme
	r2Client   *filestorage.S3Client // same adapter bound to the r2 scheme
	// MinIO
	minioEndpoint   string
	rawMinio        *minio.Client
	minioTestClient *filestorage.MinioClient
	// Azurite
	blobServiceURL string
	rawAzBlob      *azblob.Client
	azTestClient   *filestorage.AzBlobClient
)

// TestMain sets up LocalStack, MinIO and Azurite containers as test
// dependencies, one per adapter, and seeds each with a bucket and a few
// objects. Once the tests are run, the containers are terminated to
// ensure proper cleanup.
func TestMain(m *testing.M) {
	ctx := context.Background()

	// A setup failure must fail the package, not skip it. The deferred
	// exit runs after the container terminations below.
	code := 1
	defer func() { os.Exit(code) }()

	localstackContainer, err := localstack.Run(ctx, "localstack/localstack:latest",
		testcontainers.WithEnv(map[string]string{
			"SERVICES": "s3",
		}))
	defer func() {
		if err := testcontainers.TerminateContainer(localstackContainer); err != nil {
			log.Printf("failed to terminate LocalStack container: %s", err)
		}
	}()
	if err != nil {
		log.Printf("failed to start LocalStack container: %s", err)
		return
	}

	minioContainer, err := tcminio.Run(ctx, "minio/minio:latest",
		tcminio.WithUsername(s3User), tcminio.WithPassword(s3Password))
	defer func() {
		if err := testcontainers.TerminateContainer(minioContainer); err != nil {
			log.Printf("failed to terminate MinIO container: %s", err)
		}
	}()
	if err != nil {
		log.Printf("failed to start MinIO container: %s", err)
		return
	}

	azuriteContainer, err := azurite.Run(ctx, "mcr.microsoft.com/azure-storage/azurite:3.33.0",
		azurite.WithInMemoryPersistence(64))
	defer func() {
		if err := testcontainers.TerminateContainer(azuriteContainer); err != nil {
			log.Printf("failed to terminate Azurite container: %s", err)
		}
	}()
	if err != nil {
		log.Printf("failed to start Azurite container: %s", err)
		return
	}

	if err := setupLocalStack(ctx, localstackContainer); err != nil {
		log.Printf("failed to set up LocalStack: %s", err)
		return
	}
	if err := setupMinIO(ctx, minioContainer); err != nil {
		log.Printf("failed to set up MinIO: %s", err)
		return
	}
	if err := setupAzurite(ctx, azuriteContainer); err != nil {
		log.Printf("failed to set up Azurite: %s", err)
		return
	}

	code = m.Run()
}

// setupLocalStack resolves the mapped S3 endpoint, seeds the test bucket
// and builds the two clients under test that share the S3 adapter.
func setupLocalStack(ctx context.Context, container *localstack.LocalStackContainer) error {
	provider, err := testcontainers.NewDockerProvider()
	if err != nil {
		return fmt.Errorf("create docker provider: %w", err)
	}

	host, err := provider.DaemonHost(ctx)
	if err != nil {
		return fmt.Errorf("retrieve daemon host: %w", err)
	}

	mappedPort, err := container.MappedPort(ctx, nat.Port("4566"))
	if err != nil {
		return fmt.Errorf("retrieve mapped port: %w", err)
	}

	s3Endpoint = fmt.Sprintf("http://%s:%d", host, mappedPort.Int())

	staticProvider := credentials.NewStaticCredentialsProvider(s3User, s3Password, "")
	awsCfg, err := s3config.LoadDefaultConfig(ctx,
		s3config.WithCredentialsProvider(staticProvider),
		s3config.WithRegion("us-east-1"),
	)
	if err != nil {
		return err
	}
	rawClient = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String(s3Endpoint)
	})

	if _, err := rawClient.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(testBucket)}); err != nil {
		return err
	}
	for _, seed := range seedObjects() {
		_, err := rawClient.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(testBucket),
			Key:         aws.String(seed.key),
			Body:        strings.NewReader(seed.body),
			ContentType: aws.String("text/plain"),
			Metadata:    map[string]string{"owner": "ucs"},
		})
		if err != nil {
			return err
		}
	}

	auth := connection.AuthConfig{AccessKey: s3User, SecretKey: s3Password}
	testClient, err = connfilestorage.CreateS3Connection(s3Endpoint, "us-east-1", auth)
	if err != nil {
		return err
	}
	r2Client, err = connfilestorage.CreateR2Connection(s3Endpoint, "us-east-1", connection.AuthConfig{
		AccessKey: s3User,
		SecretKey: s3Password,
		AccountID: "0123456789abcdef",
	})
	return err
}

// setupMinIO seeds the MinIO test bucket and builds the client under
// test.
func setupMinIO(ctx context.Context, container *tcminio.MinioContainer) error {
	var err error
	minioEndpoint, err = container.ConnectionString(ctx)
	if err != nil {
		return fmt.Errorf("retrieve MinIO endpoint: %w", err)
	}

	rawMinio, err = minio.New(minioEndpoint, &minio.Options{
		Creds: miniocredentials.NewStaticV4(s3User, s3Password, ""),
	})
	if err != nil {
		return err
	}

	if err := rawMinio.MakeBucket(ctx, testBucket, minio.MakeBucketOptions{}); err != nil {
		return err
	}
	for _, seed := range seedObjects() {
		_, err := rawMinio.PutObject(ctx, testBucket, seed.key,
			strings.NewReader(seed.body), int64(len(seed.body)),
			minio.PutObjectOptions{
				ContentType:  "text/plain",
				UserMetadata: map[string]string{"owner": "ucs"},
			})
		if err != nil {
			return err
		}
	}

	minioTestClient, err = connfilestorage.CreateMinioConnection(minioEndpoint, false,
		connection.AuthConfig{AccessKey: s3User, SecretKey: s3Password})
	return err
}

// setupAzurite seeds the Azurite test container and builds the client
// under test.
func setupAzurite(ctx context.Context, container *azurite.AzuriteContainer) error {
	blobServiceURL = fmt.Sprintf("%s/%s", container.MustServiceURL(ctx, azurite.BlobService), azurite.AccountName)

	credential, err := azblob.NewSharedKeyCredential(azurite.AccountName, azurite.AccountKey)
	if err != nil {
		return err
	}
	rawAzBlob, err = azblob.NewClientWithSharedKeyCredential(blobServiceURL, credential, nil)
	if err != nil {
		return err
	}

	if _, err := rawAzBlob.CreateContainer(ctx, testBucket, nil); err != nil {
		return err
	}
	contentType := "text/plain"
	ownerTag := "ucs"
	for _, seed := range seedObjects() {
		_, err := rawAzBlob.UploadBuffer(ctx, testBucket, seed.key, []byte(seed.body),
			&azblob.UploadBufferOptions{
				HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
				Metadata:    map[string]*string{"owner": &ownerTag},
			})
		if err != nil {
			return err
		}
	}

	azTestClient, err = connfilestorage.CreateAzBlobConnection(blobServiceURL,
		connection.AuthConfig{AccessKey: azurite.AccountName, SecretKey: azurite.AccountKey})
	return err
}

type seedObject struct {
	key  string
	body string
}

// seedObjects returns the fixture objects every backend is seeded with.
func seedObjects() []seedObject {
	return []seedObject{
		{"seed/alpha.txt", "alpha"},
		{"seed/beta.txt", "beta"},
		{"other/gamma.txt", "gamma"},
	}
}

// writeTempFile creates a file with the given name and content under a
// fresh temporary directory and returns its path.
func writeTempFile(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
