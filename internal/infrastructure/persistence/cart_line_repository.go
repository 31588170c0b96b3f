package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartLineRepository implements cart.LineRepository using GORM
type GormCartLineRepository struct {
	db *gorm.DB
}

// NewGormCartLineRepository creates a new GormCartLineRepository
func NewGormCartLineRepository(db *gorm.DB) *GormCartLineRepository {
	return &GormCartLineRepository{db: db}
}

// FindByUser returns the user's lines ordered by creation
func (r *GormCartLineRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]cart.Line, error) {
	var lineModels []models.CartLineModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&lineModels).Error; err != nil {
		return nil, err
	}

	lines := make([]cart.Line, len(lineModels))
	for i := range lineModels {
		lines[i] = lineModels[i].ToDomain()
	}
	return lines, nil
}

// Upsert inserts the line or, when the user already has a line for the same
// product and option key, adds the quantity and takes the new price. The
// statement is a single INSERT ... ON CONFLICT so concurrent adds never lose
// units.
func (r *GormCartLineRepository) Upsert(ctx context.Context, userID uuid.UUID, line cart.Line) error {
	return upsertLine(r.db.WithContext(ctx), userID, line)
}

// SetQuantity updates an existing line; it does nothing when the line is missing
func (r *GormCartLineRepository) SetQuantity(ctx context.Context, userID, productID uuid.UUID, options catalog.OptionSet, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartLineModel{}).
		Where("user_id = ? AND product_id = ? AND option_key = ?", userID, productID, options.Key()).
		Updates(map[string]any{
			"quantity":   quantity,
			"updated_at": time.Now(),
		}).Error
}

// Delete removes a line; it does nothing when the line is missing
func (r *GormCartLineRepository) Delete(ctx context.Context, userID, productID uuid.UUID, options catalog.OptionSet) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ? AND option_key = ?", userID, productID, options.Key()).
		Delete(&models.CartLineModel{}).Error
}

// MergeGuestLines adds guest lines to the user's cart in one transaction.
// cart_merged_guest_lines holds the units of each guest line merged so far,
// so a repeated merge only adds what the guest line gained since. The user
// line takes the guest price.
func (r *GormCartLineRepository) MergeGuestLines(ctx context.Context, userID uuid.UUID, lines []cart.Line) (int, error) {
	if len(lines) == 0 {
		return 0, nil
	}
	var merged int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		merged = 0
		for _, line := range lines {
			delta, err := claimGuestLine(tx, userID, line)
			if err != nil {
				return err
			}
			if delta <= 0 {
				continue
			}
			add := line
			add.ID = uuid.New()
			add.Quantity = delta
			if err := upsertLine(tx, userID, add); err != nil {
				return err
			}
			merged++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return merged, nil
}

// claimGuestLine locks the merge record of a guest line, raises it to the
// line's quantity and returns the units not merged yet.
func claimGuestLine(tx *gorm.DB, userID uuid.UUID, line cart.Line) (int, error) {
	if line.ID == uuid.Nil {
		return line.Quantity, nil
	}
	now := time.Now()
	record := models.MergedGuestLineModel{UserID: userID, GuestLineID: line.ID, MergedAt: now}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error; err != nil {
		return 0, err
	}
	var current models.MergedGuestLineModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND guest_line_id = ?", userID, line.ID).
		Take(&current).Error; err != nil {
		return 0, err
	}

	delta := line.Quantity - current.Quantity
	if delta <= 0 {
		return 0, nil
	}
	return delta, tx.Model(&models.MergedGuestLineModel{}).
		Where("user_id = ? AND guest_line_id = ?", userID, line.ID).
		Updates(map[string]any{
			"quantity":  line.Quantity,
			"merged_at": now,
		}).Error
}

func upsertLine(db *gorm.DB, userID uuid.UUID, line cart.Line) error {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	model := models.CartLineModelFromDomain(userID, line)
	now := time.Now()
	model.CreatedAt = now
	model.UpdatedAt = now

	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}, {Name: "option_key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
			"price":      gorm.Expr("excluded.price"),
			"updated_at": gorm.Expr("excluded.updated_at"),
		}),
	}).Create(model).Error
}
