package s3infra

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/YogeshxSaini/bluestock/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Store wraps S3 operations for company media.
type Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewClient creates an S3 client from a resolved AWS config. When cfg.AWSEndpointURL
// is set (LocalStack), it overrides the endpoint and enables path-style addressing.
func NewClient(awsCfg aws.Config, cfg *config.Config) *s3.Client {
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.AWSEndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
			o.UsePathStyle = true
		}
	})
}

// NewStore creates a Store for bucket. Object URLs are built from S3_PUBLIC_URL when
// set, then from the LocalStack endpoint, then from the virtual-hosted S3 address.
func NewStore(client *s3.Client, cfg *config.Config) *Store {
	base := cfg.S3PublicURL
	switch {
	case base != "":
	case cfg.AWSEndpointURL != "":
		base = strings.TrimSuffix(cfg.AWSEndpointURL, "/") + "/" + cfg.S3BucketName
	default:
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3BucketName, cfg.AWSRegion)
	}
	return &Store{client: client, bucket: cfg.S3BucketName, baseURL: strings.TrimSuffix(base, "/")}
}

// Upload streams r to S3 under key and returns the object's public URL.
func (s *Store) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object: %w", err)
	}
	return s.ObjectURL(key), nil
}

func (s *Store) ObjectURL(key string) string {
	return s.baseURL + "/" + strings.TrimPrefix(key, "/")
}

// Delete removes an object. Used to roll back an upload whose catalog write failed.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}
