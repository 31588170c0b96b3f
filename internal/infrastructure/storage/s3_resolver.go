package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	infraconfig "github.com/marketplace/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const defaultPresignTTL = 15 * time.Minute

var _ catalogapp.ImageResolver = (*S3ImageResolver)(nil)

// S3ImageResolver hands out presigned GET URLs for images in a private
// bucket. Any S3 compatible store works (AWS, MinIO).
type S3ImageResolver struct {
	presigner *s3.PresignClient
	bucket    string
	ttl       time.Duration
	logger    *zap.Logger
}

// S3ImageResolverOption configures an S3ImageResolver
type S3ImageResolverOption func(*S3ImageResolver)

func WithLogger(logger *zap.Logger) S3ImageResolverOption {
	return func(r *S3ImageResolver) { r.logger = logger }
}

// WithPresignExpiration overrides storage.presign_ttl
func WithPresignExpiration(d time.Duration) S3ImageResolverOption {
	return func(r *S3ImageResolver) { r.ttl = d }
}

// NewS3ImageResolver builds the S3 client from cfg. Without an access key
// pair the SDK's default credential chain (env, shared profile, instance
// role) is used.
func NewS3ImageResolver(cfg *infraconfig.StorageConfig, opts ...S3ImageResolverOption) (*S3ImageResolver, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if (cfg.AccessKey == "") != (cfg.SecretKey == "") {
		return nil, errors.New("storage access key and secret key must be set together")
	}
	endpoint, err := normalizeEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	r := &S3ImageResolver{
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		ttl:       cfg.PresignTTL,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.ttl <= 0 {
		r.ttl = defaultPresignTTL
	}
	return r, nil
}

// normalizeEndpoint defaults a bare host to https
func normalizeEndpoint(endpoint string) (string, error) {
	if endpoint == "" {
		return "", nil
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid storage endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid storage endpoint scheme %q", u.Scheme)
	}
	return endpoint, nil
}

// ResolveURL presigns the requested conversion of key
func (r *S3ImageResolver) ResolveURL(ctx context.Context, key, conversion string) (string, error) {
	if key == "" {
		return "", errors.New("image key is required")
	}

	object := ConversionKey(key, conversion)
	req, err := r.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(object),
	}, s3.WithPresignExpires(r.ttl))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", object, err)
	}

	r.logger.Debug("Presigned image", zap.String("key", object), zap.Duration("ttl", r.ttl))
	return req.URL, nil
}
