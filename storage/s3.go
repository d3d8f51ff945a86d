// Package storage uploads compliant label artifacts to object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sethvargo/go-retry"

	"github.com/wudi/labelkit/observability"
)

// Uploader pushes a local file to a remote key. A failed upload never
// retracts the local artifact.
type Uploader interface {
	Upload(ctx context.Context, localPath, key string) error
}

// Config holds the S3 connection settings. Credentials are static and
// validated upstream; there is no interactive fallback.
type Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// EndpointURL points at a custom S3-compatible endpoint (e.g. minio);
	// empty means AWS.
	EndpointURL string
}

// objectPutter is the slice of the S3 client the uploader needs; *s3.Client
// satisfies it.
type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader implements Uploader against S3 with a small Fibonacci backoff.
type S3Uploader struct {
	client      objectPutter
	bucket      string
	logger      observability.Logger
	maxRetries  uint64
	backoffBase time.Duration
}

// NewS3Uploader connects a client from static credentials.
func NewS3Uploader(cfg Config, logger observability.Logger) *S3Uploader {
	if logger == nil {
		logger = observability.NopLogger{}
	}
	client := s3.NewFromConfig(aws.Config{Region: cfg.Region}, func(o *s3.Options) {
		o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
		}
	})
	return &S3Uploader{client: client, bucket: cfg.Bucket, logger: logger, maxRetries: 3}
}

// Upload stores the file at localPath under key. The file is read once and
// the PutObject is retried with backoff; a missing local file fails
// immediately.
func (u *S3Uploader) Upload(ctx context.Context, localPath, key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("s3 key must not be empty")
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("read local artifact: %w", err)
	}

	logger := u.log()
	logger.Info("uploading artifact",
		observability.String("key", key),
		observability.Int("bytes", len(data)))

	base := u.backoffBase
	if base == 0 {
		base = 1 * time.Second
	}
	b := retry.NewFibonacci(base)
	err = retry.Do(ctx, retry.WithMaxRetries(u.maxRetries, b), func(ctx context.Context) error {
		_, putErr := u.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(u.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String("image/png"),
		})
		if putErr != nil {
			return retry.RetryableError(putErr)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("upload %s to s3://%s/%s: %w", localPath, u.bucket, key, err)
	}

	logger.Info("upload complete", observability.String("key", key))
	return nil
}

func (u *S3Uploader) log() observability.Logger {
	if u.logger == nil {
		return observability.NopLogger{}
	}
	return u.logger
}
