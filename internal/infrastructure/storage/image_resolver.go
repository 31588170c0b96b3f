// Package storage resolves stored product images to URLs the browser can load.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	infraconfig "github.com/marketplace/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ConversionKey returns the object key of an image conversion. Conversions
// live next to the original: "p/shirt.jpg" at size "small" is
// "p/conversions/shirt-small.jpg". An empty conversion is the original.
func ConversionKey(key, conversion string) string {
	if conversion == "" {
		return key
	}
	dir, file := path.Split(key)
	ext := path.Ext(file)
	base := strings.TrimSuffix(file, ext)
	return dir + "conversions/" + base + "-" + conversion + ext
}

// StaticImageResolver builds public URLs under a fixed base URL, for
// buckets served directly by a CDN or web server.
type StaticImageResolver struct {
	baseURL string
}

// NewStaticImageResolver creates a new StaticImageResolver
func NewStaticImageResolver(baseURL string) *StaticImageResolver {
	return &StaticImageResolver{baseURL: strings.TrimSuffix(baseURL, "/")}
}

// ResolveURL returns baseURL/conversion key
func (r *StaticImageResolver) ResolveURL(_ context.Context, key, conversion string) (string, error) {
	if key == "" {
		return "", errors.New("image key is required")
	}
	return r.baseURL + "/" + ConversionKey(key, conversion), nil
}

// NewImageResolver creates the resolver selected by cfg.Driver
func NewImageResolver(cfg *infraconfig.StorageConfig, logger *zap.Logger) (catalogapp.ImageResolver, error) {
	switch cfg.Driver {
	case infraconfig.StorageDriverStatic, "":
		logger.Info("Using static image URLs", zap.String("base_url", cfg.PublicBaseURL))
		return NewStaticImageResolver(cfg.PublicBaseURL), nil
	case infraconfig.StorageDriverS3:
		resolver, err := NewS3ImageResolver(cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		logger.Info("Using presigned S3 image URLs", zap.String("bucket", cfg.Bucket))
		return resolver, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

var _ catalogapp.ImageResolver = (*StaticImageResolver)(nil)
