package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormVendorRepository implements VendorRepository using GORM
type GormVendorRepository struct {
	db *gorm.DB
}

// NewGormVendorRepository creates a new GormVendorRepository
func NewGormVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// FindByUserID finds the vendor profile of a user
func (r *GormVendorRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*catalog.Vendor, error) {
	var model models.VendorModel
	if err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUserIDs finds several vendors at once; unknown ids are skipped
func (r *GormVendorRepository) FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]catalog.Vendor, error) {
	if len(userIDs) == 0 {
		return []catalog.Vendor{}, nil
	}

	var vendorModels []models.VendorModel
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&vendorModels).Error; err != nil {
		return nil, err
	}

	vendors := make([]catalog.Vendor, len(vendorModels))
	for i := range vendorModels {
		vendors[i] = *vendorModels[i].ToDomain()
	}
	return vendors, nil
}

// Save creates or updates a vendor profile
func (r *GormVendorRepository) Save(ctx context.Context, vendor *catalog.Vendor) error {
	model := models.VendorModelFromDomain(vendor)
	now := time.Now()
	model.CreatedAt = now
	model.UpdatedAt = now

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"store_name", "status", "updated_at"}),
	}).Create(model).Error
}
