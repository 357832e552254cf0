package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/YoshitsuguKoike/taskplan/internal/application/port/output"
)

// S3BlobGateway implements output.BlobGateway with a single S3 object.
// PutObject replaces the object atomically, so readers never observe a
// partial write.
type S3BlobGateway struct {
	client      S3API // Use interface for testability
	bucket      string
	key         string
	contentType string
}

// S3Config holds S3 blob gateway configuration
type S3Config struct {
	Bucket string // S3 bucket name
	Key    string // Object key, e.g. "taskplan/tasks.csv"
	Region string // AWS region (optional, uses default chain if empty)
}

var _ output.BlobGateway = (*S3BlobGateway)(nil)

// NewS3BlobGateway creates a gateway using the default AWS credential chain
func NewS3BlobGateway(ctx context.Context, cfg S3Config) (*S3BlobGateway, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}
	if cfg.Key == "" {
		return nil, errors.New("s3 key is required")
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return NewS3BlobGatewayWithClient(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Key), nil
}

// NewS3BlobGatewayWithClient creates a gateway with a custom S3 client.
// This is primarily used for testing with MockS3Client.
func NewS3BlobGatewayWithClient(client S3API, bucket, key string) *S3BlobGateway {
	return &S3BlobGateway{
		client:      client,
		bucket:      bucket,
		key:         key,
		contentType: "text/csv",
	}
}

// Read downloads the object. A missing key maps to output.ErrBlobNotFound.
func (g *S3BlobGateway) Read(ctx context.Context) ([]byte, error) {
	result, err := g.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(g.key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, output.ErrBlobNotFound
		}
		return nil, fmt.Errorf("download from S3: %w", err)
	}
	defer result.Body.Close()

	content, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("read S3 object: %w", err)
	}
	return content, nil
}

// Write uploads data, replacing the previous object
func (g *S3BlobGateway) Write(ctx context.Context, data []byte) error {
	_, err := g.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(g.bucket),
		Key:         aws.String(g.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(g.contentType),
	})
	if err != nil {
		return fmt.Errorf("upload to S3: %w", err)
	}
	return nil
}

// Delete removes the object
func (g *S3BlobGateway) Delete(ctx context.Context) error {
	_, err := g.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(g.key),
	})
	if err != nil {
		return fmt.Errorf("delete from S3: %w", err)
	}
	return nil
}

// Location returns the s3:// URL of the object
func (g *S3BlobGateway) Location() string {
	return fmt.Sprintf("s3://%s/%s", g.bucket, g.key)
}
