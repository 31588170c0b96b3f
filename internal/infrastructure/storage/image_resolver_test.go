package storage

import (
	"context"
	"testing"
	"time"

	infraconfig "github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConversionKey(t *testing.T) {
	tests := []struct {
		key, conversion, want string
	}{
		{"products/shirt.jpg", "small", "products/conversions/shirt-small.jpg"},
		{"products/shirt.jpg", "", "products/shirt.jpg"},
		{"shirt.png", "thumb", "conversions/shirt-thumb.png"},
		{"a/b/noext", "large", "a/b/conversions/noext-large"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConversionKey(tt.key, tt.conversion), tt.key)
	}
}

func TestStaticImageResolver(t *testing.T) {
	r := NewStaticImageResolver("https://cdn.example.com/media/")
	ctx := context.Background()

	url, err := r.ResolveURL(ctx, "products/shirt.jpg", "small")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/media/products/conversions/shirt-small.jpg", url)

	_, err = r.ResolveURL(ctx, "", "small")
	assert.Error(t, err)
}

func TestS3ImageResolver_ResolveURL(t *testing.T) {
	cfg := &infraconfig.StorageConfig{
		Driver:       infraconfig.StorageDriverS3,
		Endpoint:     "http://localhost:9000",
		Region:       "us-east-1",
		Bucket:       "product-images",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		UsePathStyle: true,
	}
	r, err := NewS3ImageResolver(cfg, WithPresignExpiration(5*time.Minute))
	require.NoError(t, err)

	url, err := r.ResolveURL(context.Background(), "products/shirt.jpg", "small")
	require.NoError(t, err)
	assert.Contains(t, url, "http://localhost:9000/product-images/products/conversions/shirt-small.jpg")
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.Contains(t, url, "X-Amz-Expires=300")
}

func TestNewS3ImageResolver_Validation(t *testing.T) {
	_, err := NewS3ImageResolver(nil)
	assert.Error(t, err)

	_, err = NewS3ImageResolver(&infraconfig.StorageConfig{AccessKey: "a", SecretKey: "b"})
	assert.ErrorContains(t, err, "bucket")

	_, err = NewS3ImageResolver(&infraconfig.StorageConfig{Bucket: "b", AccessKey: "a"})
	assert.ErrorContains(t, err, "set together")

	_, err = NewS3ImageResolver(&infraconfig.StorageConfig{Bucket: "b", Endpoint: "ftp://files"})
	assert.ErrorContains(t, err, "scheme")

	_, err = NewS3ImageResolver(&infraconfig.StorageConfig{Bucket: "b"})
	assert.NoError(t, err, "falls back to the default credential chain")
}

func TestNormalizeEndpoint(t *testing.T) {
	got, err := normalizeEndpoint("minio.internal:9000")
	require.NoError(t, err)
	assert.Equal(t, "https://minio.internal:9000", got)

	got, err = normalizeEndpoint("http://localhost:9000")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", got)

	got, err = normalizeEndpoint("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewImageResolver(t *testing.T) {
	logger := zap.NewNop()

	r, err := NewImageResolver(&infraconfig.StorageConfig{Driver: infraconfig.StorageDriverStatic, PublicBaseURL: "https://cdn"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &StaticImageResolver{}, r)

	_, err = NewImageResolver(&infraconfig.StorageConfig{Driver: "ftp"}, logger)
	assert.Error(t, err)
}
