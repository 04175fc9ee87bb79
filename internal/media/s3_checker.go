package media

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	appconfig "spice-storefront/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"
)

// headObjectAPI is the subset of the S3 client used by the checker.
type headObjectAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// s3Checker resolves public image URLs to object keys and issues HeadObject
// requests against an S3-compatible store such as Cloudflare R2.
type s3Checker struct {
	client  headObjectAPI
	bucket  string
	baseURL string
	logger  zerolog.Logger
}

// NewS3Checker creates a checker for the configured bucket.
func NewS3Checker(ctx context.Context, cfg appconfig.MediaConfig, logger zerolog.Logger) (Checker, error) {
	logger = logger.With().Str("component", "s3-media-checker").Logger()

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	logger.Info().
		Str("bucket", cfg.Bucket).
		Str("region", cfg.Region).
		Str("endpoint", cfg.Endpoint).
		Msg("media checker initialised")

	return newS3Checker(client, cfg.Bucket, cfg.PublicBaseURL, logger), nil
}

func newS3Checker(client headObjectAPI, bucket, baseURL string, logger zerolog.Logger) *s3Checker {
	return &s3Checker{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/") + "/",
		logger:  logger,
	}
}

// Exists reports false only when the store says the object is missing.
// URLs outside the public base and lookup errors count as existing.
func (c *s3Checker) Exists(ctx context.Context, imageURL string) bool {
	key, ok := c.keyFor(imageURL)
	if !ok {
		return true
	}

	_, err := c.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true
	}
	if isNotFound(err) {
		c.logger.Debug().Str("key", key).Msg("image missing from bucket")
		return false
	}

	c.logger.Warn().
		Err(err).
		Str("bucket", c.bucket).
		Str("key", key).
		Msg("failed to check image, assuming it exists")
	return true
}

func (c *s3Checker) keyFor(imageURL string) (string, bool) {
	if !strings.HasPrefix(imageURL, c.baseURL) {
		return "", false
	}
	key := strings.TrimPrefix(imageURL, c.baseURL)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}
	return key, key != ""
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}
