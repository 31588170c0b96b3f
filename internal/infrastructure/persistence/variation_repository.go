package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormVariationRepository implements VariationRepository using GORM
type GormVariationRepository struct {
	db *gorm.DB
}

// NewGormVariationRepository creates a new GormVariationRepository
func NewGormVariationRepository(db *gorm.DB) *GormVariationRepository {
	return &GormVariationRepository{db: db}
}

// FindByProduct returns the saved combinations of a product in insertion order
func (r *GormVariationRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.Variation, error) {
	var variationModels []models.VariationModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id ASC").
		Find(&variationModels).Error; err != nil {
		return nil, err
	}

	variations := make([]catalog.Variation, len(variationModels))
	for i := range variationModels {
		variations[i] = variationModels[i].ToDomain()
	}
	return variations, nil
}

// ReplaceForProduct deletes every saved combination of the product and
// inserts the given ones in a single transaction
func (r *GormVariationRepository) ReplaceForProduct(ctx context.Context, productID uuid.UUID, variations []catalog.Variation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&models.VariationModel{}).Error; err != nil {
			return err
		}
		if len(variations) == 0 {
			return nil
		}

		rows := make([]*models.VariationModel, 0, len(variations))
		for _, v := range variations {
			rows = append(rows, models.VariationModelFromDomain(productID, v))
		}
		return tx.Create(&rows).Error
	})
}
