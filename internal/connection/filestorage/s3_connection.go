package connfilestorage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"ucs/internal/connection"
	common "ucs/pkg"
	"ucs/pkg/filestorage"
)

// DefaultS3Region is used when no region is given for AWS S3.
const DefaultS3Region = "us-east-1"

// R2Region is the only region value Cloudflare R2 accepts.
const R2Region = "auto"

// CreateS3Connection creates a client bound to AWS S3, or to any
// S3-compatible service when an endpoint is given. The credentials must
// already be resolved; resolution failures belong to the caller.
func CreateS3Connection(endpoint string, region string, auth connection.AuthConfig) (*filestorage.S3Client, error) {
	if region == "" {
		region = DefaultS3Region
	}

	client, err := newS3SDKClient(endpoint, region, auth)
	if err != nil {
		return nil, err
	}

	return filestorage.NewS3Client(client, common.URLFormatterFor(common.BackendS3), common.ConnectionProperties{
		Backend:  common.BackendS3,
		Region:   region,
		Endpoint: endpoint,
	})
}

// CreateR2Connection creates a client bound to Cloudflare R2. R2 speaks
// the S3 wire protocol on a per-account endpoint, so the connection is an
// aws-sdk-go-v2 client pointed at the account's R2 hostname. An explicit
// endpoint overrides the derived one, which is how S3-compatible test
// servers are reached.
func CreateR2Connection(endpoint string, region string, auth connection.AuthConfig) (*filestorage.S3Client, error) {
	if region == "" {
		region = R2Region
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", auth.AccountID)
	}

	client, err := newS3SDKClient(endpoint, region, auth)
	if err != nil {
		return nil, err
	}

	return filestorage.NewS3Client(client, common.URLFormatterFor(common.BackendR2), common.ConnectionProperties{
		Backend:  common.BackendR2,
		Region:   region,
		Endpoint: endpoint,
	})
}

func newS3SDKClient(endpoint string, region string, auth connection.AuthConfig) (*s3.Client, error) {
	staticProvider := credentials.NewStaticCredentialsProvider(
		auth.AccessKey,
		auth.SecretKey,
		"",
	)
	awsCfg, err := s3config.LoadDefaultConfig(context.TODO(),
		s3config.WithCredentialsProvider(staticProvider),
		s3config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot load the AWS configuration: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}
