// Package storage archives raw feed payloads to S3-compatible object storage
// so ingestion runs can be replayed and audited.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"marketmind/internal/config"
)

// Archive writes ingestion snapshots under snapshots/<date>/<key>.json in a
// single bucket. A nil Archive skips archiving.
type Archive struct {
	client *s3.Client
	bucket string
}

// NewArchive builds an S3 client from explicit config. Returns nil when no
// bucket is configured, which disables snapshot archiving.
func NewArchive(ctx context.Context, cfg config.S3Config) (*Archive, error) {
	if cfg.Bucket == "" {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithBaseEndpoint(cfg.Endpoint),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return &Archive{client: client, bucket: cfg.Bucket}, nil
}

func snapshotKey(key string, at time.Time) string {
	return fmt.Sprintf("snapshots/%s/%s.json", at.UTC().Format("2006-01-02"), key)
}

// PutSnapshot stores one JSON payload and returns the object key.
func (a *Archive) PutSnapshot(ctx context.Context, key string, payload []byte) (string, error) {
	if a == nil {
		return "", nil
	}

	objectKey := snapshotKey(key, time.Now())
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("upload snapshot %s: %w", objectKey, err)
	}
	return objectKey, nil
}

// GetSnapshot fetches a previously archived payload by object key.
func (a *Archive) GetSnapshot(ctx context.Context, objectKey string) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("snapshot archive not configured")
	}

	result, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return nil, fmt.Errorf("get snapshot %s: %w", objectKey, err)
	}
	defer result.Body.Close()

	return io.ReadAll(result.Body)
}
