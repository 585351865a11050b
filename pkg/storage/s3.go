package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ObjectStorage is the media store surface the report layer depends on.
type ObjectStorage interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, objectURL string) error
}

type Config struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// S3Store talks to any S3-compatible object store (AWS S3, DigitalOcean
// Spaces). Objects are public-read; their URL is PublicBaseURL + "/" + key.
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
	log     *zap.Logger
}

func NewS3Store(ctx context.Context, cfg Config, log *zap.Logger) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage credentials: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = false
	})

	baseURL := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.%s", cfg.Bucket,
			strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://"))
	}

	return &S3Store{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: baseURL,
		log:     log,
	}, nil
}

// Upload stores the object under a fresh uuid key and returns its public URL.
func (s *S3Store) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	key := "reports/" + uuid.NewString() + path.Ext(filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		s.log.Error("Failed to upload object",
			zap.String("bucket", s.bucket),
			zap.String("key", key),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	objectURL := s.baseURL + "/" + key
	s.log.Info("Object uploaded",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.String("url", objectURL),
	)

	return objectURL, nil
}

// Delete removes the object behind a previously returned URL.
func (s *S3Store) Delete(ctx context.Context, objectURL string) error {
	key := s.keyFromURL(objectURL)
	if key == "" {
		return fmt.Errorf("object url %q is not under this store", objectURL)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		s.log.Error("Failed to delete object",
			zap.String("bucket", s.bucket),
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("failed to delete object: %w", err)
	}

	s.log.Debug("Object deleted",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
	)

	return nil
}

func (s *S3Store) keyFromURL(objectURL string) string {
	if !strings.HasPrefix(objectURL, s.baseURL+"/") {
		return ""
	}
	return strings.TrimPrefix(objectURL, s.baseURL+"/")
}
