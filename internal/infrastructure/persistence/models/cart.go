package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CartLineModel is the persistence model for a cart line of an authenticated user.
// A user has at most one line per (product, option key).
type CartLineModel struct {
	BaseModel
	UserID    uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_user_line,priority:1"`
	ProductID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_user_line,priority:2;index"`
	OptionKey catalog.OptionKey `gorm:"type:varchar(255);not null;uniqueIndex:idx_cart_items_user_line,priority:3"`
	OptionIDs []int64           `gorm:"type:jsonb;serializer:json;not null"`
	Quantity  int               `gorm:"not null"`
	Price     decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (CartLineModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain Line.
func (m *CartLineModel) ToDomain() cart.Line {
	ids := make([]catalog.OptionID, 0, len(m.OptionIDs))
	for _, id := range m.OptionIDs {
		ids = append(ids, catalog.OptionID(id))
	}
	return cart.Line{
		ID:        m.ID,
		ProductID: m.ProductID,
		Options:   catalog.NewOptionSet(ids...),
		Quantity:  m.Quantity,
		Price:     m.Price,
	}
}

// CartLineModelFromDomain creates a new persistence model for userID from a domain Line.
func CartLineModelFromDomain(userID uuid.UUID, l cart.Line) *CartLineModel {
	ids := l.Options.IDs()
	optionIDs := make([]int64, 0, len(ids))
	for _, id := range ids {
		optionIDs = append(optionIDs, int64(id))
	}
	return &CartLineModel{
		BaseModel: BaseModel{ID: l.ID},
		UserID:    userID,
		ProductID: l.ProductID,
		OptionKey: l.Options.Key(),
		OptionIDs: optionIDs,
		Quantity:  l.Quantity,
		Price:     l.Price,
	}
}

// MergedGuestLineModel records how many units of a guest line were merged
// into a user's cart.
type MergedGuestLineModel struct {
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	GuestLineID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Quantity    int       `gorm:"not null"`
	MergedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MergedGuestLineModel) TableName() string {
	return "cart_merged_guest_lines"
}
