package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
)

// ImageSize names a stored image conversion
type ImageSize string

const (
	ImageSizeThumb ImageSize = "thumb"
	ImageSizeSmall ImageSize = "small"
	ImageSizeLarge ImageSize = "large"
)

// Catalog is the read side of the product catalog the ledger depends on
type Catalog interface {
	// GetProduct returns shared.ErrNotFound when the product does not exist
	GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error)

	// GetProducts returns the products that exist, keyed by id
	GetProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error)

	// GetVendors returns the vendors that exist, keyed by user id
	GetVendors(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*catalog.Vendor, error)

	// ImageURL returns a displayable URL for an image key, or "" when none is available
	ImageURL(ctx context.Context, key string, size ImageSize) string
}
