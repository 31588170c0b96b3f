package cart

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// Line is one cart entry: a product with a selection of options, a quantity
// and the price snapshot taken on the last add.
type Line struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Options   catalog.OptionSet
	Quantity  int
	Price     decimal.Decimal
}

// LineKey is the identity of a line within one owner's cart
type LineKey struct {
	ProductID uuid.UUID
	Options   catalog.OptionKey
}

// KeyOf builds the identity key for a product and option selection
func KeyOf(productID uuid.UUID, options catalog.OptionSet) LineKey {
	return LineKey{ProductID: productID, Options: options.Key()}
}

// String renders the key as "<productId>_[<ids>]"
func (k LineKey) String() string {
	return k.ProductID.String() + "_" + string(k.Options)
}

// Key returns the identity key of the line
func (l Line) Key() LineKey {
	return KeyOf(l.ProductID, l.Options)
}

// Subtotal returns quantity times the price snapshot
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
