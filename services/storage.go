package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// StorageService keeps quote files in an S3 bucket, one object per
// uploaded quote under <projectID>/<fileName>.
type StorageService struct {
	client *s3.Client
	bucket string
}

// NewStorageService creates a storage client from environment variables.
//
// Supported env vars:
//   - QUOTE_BUCKET (required)
//   - AWS_REGION (default: eu-north-1)
//   - S3_ENDPOINT (optional, for MinIO in development)
func NewStorageService(ctx context.Context) (*StorageService, error) {
	bucket := os.Getenv("QUOTE_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("QUOTE_BUCKET environment variable is required")
	}

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "eu-north-1"
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &StorageService{client: client, bucket: bucket}, nil
}

func (s *StorageService) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

func (s *StorageService) Download(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", key, err)
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

// Remove deletes an object, logging failures. Quote deletion treats the
// database row as authoritative and storage cleanup as best-effort.
func (s *StorageService) Remove(ctx context.Context, key string) {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Printf("⚠️ Could not delete file from storage: %s: %v", key, err)
	}
}
