package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	cartapp "github.com/marketplace/backend/internal/application/cart"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ImageResolver turns a stored image key into a URL the browser can load
type ImageResolver interface {
	ResolveURL(ctx context.Context, key, conversion string) (string, error)
}

// CatalogService is the read side of the catalog used by the cart
type CatalogService struct {
	products catalog.ProductRepository
	vendors  catalog.VendorRepository
	images   ImageResolver
}

var _ cartapp.Catalog = (*CatalogService)(nil)

// NewCatalogService creates a new CatalogService
func NewCatalogService(products catalog.ProductRepository, vendors catalog.VendorRepository, images ImageResolver) *CatalogService {
	return &CatalogService{
		products: products,
		vendors:  vendors,
		images:   images,
	}
}

// GetProduct returns a product with its variation data
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return s.products.FindByID(ctx, id)
}

// GetProducts loads products in one query, keyed by id
func (s *CatalogService) GetProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	result := make(map[uuid.UUID]*catalog.Product, len(ids))
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return result, nil
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	for i := range products {
		result[products[i].ID] = &products[i]
	}
	return result, nil
}

// GetVendors loads vendors in one query, keyed by user id
func (s *CatalogService) GetVendors(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*catalog.Vendor, error) {
	result := make(map[uuid.UUID]*catalog.Vendor, len(userIDs))
	userIDs = uniqueIDs(userIDs)
	if len(userIDs) == 0 {
		return result, nil
	}
	vendors, err := s.vendors.FindByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load vendors: %w", err)
	}
	for i := range vendors {
		result[vendors[i].UserID] = &vendors[i]
	}
	return result, nil
}

// ImageURL resolves an image key. Resolution failures are logged and yield "".
func (s *CatalogService) ImageURL(ctx context.Context, key string, size cartapp.ImageSize) string {
	if s.images == nil || key == "" {
		return ""
	}
	url, err := s.images.ResolveURL(ctx, key, string(size))
	if err != nil {
		logger.L(ctx).Warn("Failed to resolve image URL",
			zap.String("key", key),
			zap.String("size", string(size)),
			zap.Error(err),
		)
		return ""
	}
	return url
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
