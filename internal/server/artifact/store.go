package artifact

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	sc "github.com/saydemoon/internship-portal/internal/server/config"
)

// Wrappers over the AWS SDK so tests can intercept client construction and
// the upload call without a live endpoint.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(ctx context.Context, client *s3.Client, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return client.PutObject(ctx, in)
	}
)

// Store uploads artifacts to an S3-compatible backend (MinIO in the
// development stack).
type Store struct {
	config *sc.Config
}

// NewStore constructs a Store using the server configuration.
func NewStore(config *sc.Config) *Store {
	return &Store{config: config}
}

// RandomKey generates a fresh date-partitioned object key. The prefix must
// never equal a bucket name: Normalize treats a leading "<bucket>/" as a
// legacy disguise and would strip it from the stored reference.
func RandomKey() string {
	d := time.Now()
	return fmt.Sprintf("artifacts/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *Store) getClient() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

// Upload stores body under key and returns the bare key for persisting on
// the submission row.
func (s *Store) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	client, err := s.getClient()
	if err != nil {
		return "", err
	}

	in := &s3.PutObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := putObject(ctx, client, in); err != nil {
		return "", fmt.Errorf("error uploading artifact: %v", err)
	}

	return key, nil
}
