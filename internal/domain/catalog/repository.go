package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID loads a product with its variation types and variations
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs loads several products at once; unknown ids are skipped
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// Save creates or updates a product and its variation types
	Save(ctx context.Context, product *Product) error
}

// VendorRepository defines the interface for vendor persistence
type VendorRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Vendor, error)
	FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]Vendor, error)
	Save(ctx context.Context, vendor *Vendor) error
}

// VariationRepository persists the variation combinations of a product
type VariationRepository interface {
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]Variation, error)

	// ReplaceForProduct deletes every saved combination of the product and
	// inserts the given ones in a single transaction
	ReplaceForProduct(ctx context.Context, productID uuid.UUID, variations []Variation) error
}
