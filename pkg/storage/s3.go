package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Provider represents the S3-compatible storage provider
type Provider string

const (
	ProviderAWS    Provider = "aws"
	ProviderWasabi Provider = "wasabi"
	ProviderR2     Provider = "r2"
)

// Config holds configuration for S3-compatible storage
type Config struct {
	Provider        Provider
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	// Endpoint overrides the provider endpoint, e.g. "s3.ap-southeast-1.wasabisys.com".
	Endpoint string
}

// Configured reports whether enough is set to talk to a bucket.
func (c Config) Configured() bool {
	return c.Bucket != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// ObjectPutter is the part of the S3 client the archive needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ResumeArchive keeps a copy of uploaded resume files.
type ResumeArchive struct {
	client ObjectPutter
	bucket string
}

// NewS3Client creates an S3 client for AWS or a path-style compatible provider.
func NewS3Client(ctx context.Context, cfg Config) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := cfg.Endpoint
	if endpoint == "" && cfg.Provider == ProviderWasabi {
		endpoint = "s3." + cfg.Region + ".wasabisys.com"
	}
	if endpoint == "" {
		return s3.NewFromConfig(awsCfg), nil
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String("https://" + endpoint)
		o.UsePathStyle = true
	}), nil
}

// NewResumeArchive wraps a client. Passing a nil client yields a disabled archive.
func NewResumeArchive(client ObjectPutter, bucket string) *ResumeArchive {
	return &ResumeArchive{client: client, bucket: bucket}
}

// Enabled reports whether uploads are archived at all.
func (a *ResumeArchive) Enabled() bool {
	return a != nil && a.client != nil && a.bucket != ""
}

// Put stores an uploaded file under key.
func (a *ResumeArchive) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if !a.Enabled() {
		return nil
	}
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("archive %s: %w", key, err)
	}
	return nil
}
