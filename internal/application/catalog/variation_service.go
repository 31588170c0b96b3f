package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// VariationService manages the variation matrix of products
type VariationService struct {
	products   catalog.ProductRepository
	variations catalog.VariationRepository
}

// NewVariationService creates a new VariationService
func NewVariationService(products catalog.ProductRepository, variations catalog.VariationRepository) *VariationService {
	return &VariationService{
		products:   products,
		variations: variations,
	}
}

// Matrix returns every option combination of the product. Saved
// combinations come from the variation repository; unsaved ones carry the
// product's own price and quantity.
func (s *VariationService) Matrix(ctx context.Context, productID uuid.UUID) (*MatrixResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "variation", "matrix")
	defer span.End()

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	saved, err := s.variations.FindByProduct(ctx, productID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	product.Variations = saved
	rows := product.Matrix()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrProductID, productID,
		telemetry.SpanAttrVariations, len(rows),
	)

	resp := ToMatrixResponse(product, rows)
	return &resp, nil
}

// Save replaces the saved combinations of a product owned by vendorID
func (s *VariationService) Save(ctx context.Context, vendorID, productID uuid.UUID, req SaveVariationsRequest) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "variation", "save")
	defer span.End()

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.VendorID != vendorID {
		return shared.NewDomainError("FORBIDDEN", "Product belongs to another vendor")
	}

	rows := make([]catalog.Variation, 0, len(req.Rows))
	for _, r := range req.Rows {
		rows = append(rows, catalog.Variation{
			ProductID: productID,
			OptionIDs: r.OptionIDs,
			Price:     r.Price,
			Quantity:  r.Quantity,
		})
	}
	if err := catalog.ValidateVariations(product.VariationTypes, rows); err != nil {
		return err
	}

	if err := s.variations.ReplaceForProduct(ctx, productID, rows); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	logger.L(ctx).Info("Variations saved",
		zap.String("product_id", productID.String()),
		zap.Int("count", len(rows)),
	)
	return nil
}

// Variant resolves the price and available quantity of an option selection
func (s *VariationService) Variant(ctx context.Context, productID uuid.UUID, ids []catalog.OptionID) (*VariantResponse, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, _, ok := product.Option(id); !ok {
			return nil, shared.NewDomainError("INVALID_OPTIONS", "Option does not belong to this product")
		}
	}

	price, qty := product.VariantFor(ids)
	options := catalog.NewOptionSet(ids...).IDs()
	if options == nil {
		options = []catalog.OptionID{}
	}
	return &VariantResponse{
		ProductID: productID,
		OptionIDs: options,
		Price:     price,
		Quantity:  qty,
		InStock:   qty == nil || *qty > 0,
	}, nil
}
