package cart

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ItemView is a cart line joined with live catalog data
type ItemView struct {
	ID        uuid.UUID          `json:"id"`
	ProductID uuid.UUID          `json:"product_id"`
	Title     string             `json:"title"`
	Slug      string             `json:"slug"`
	Price     decimal.Decimal    `json:"price"`
	Quantity  int                `json:"quantity"`
	OptionIDs []catalog.OptionID `json:"option_ids"`
	Options   []OptionView       `json:"options"`
	Image     string             `json:"image"`
	Vendor    VendorView         `json:"vendor"`
}

// Subtotal returns quantity times the price snapshot
func (v ItemView) Subtotal() decimal.Decimal {
	return v.Price.Mul(decimal.NewFromInt(int64(v.Quantity)))
}

// OptionView describes a selected option and its variation type
type OptionView struct {
	ID   catalog.OptionID `json:"id"`
	Name string           `json:"name"`
	Type OptionTypeView   `json:"type"`
}

// OptionTypeView identifies the variation type of an option
type OptionTypeView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// VendorView identifies the seller of a line
type VendorView struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// SellerGroup is the part of a cart sold by one vendor
type SellerGroup struct {
	Vendor        VendorView      `json:"vendor"`
	Items         []ItemView      `json:"items"`
	TotalQuantity int             `json:"total_quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

// AddItemRequest adds quantity units of a product selection.
// A nil OptionIDs selects the first option of every variation type.
type AddItemRequest struct {
	ProductID uuid.UUID
	Quantity  int
	OptionIDs []catalog.OptionID
}

// UpdateItemRequest sets the quantity of an existing line
type UpdateItemRequest struct {
	ProductID uuid.UUID
	Quantity  int
	OptionIDs []catalog.OptionID
}

// RemoveItemRequest deletes a line
type RemoveItemRequest struct {
	ProductID uuid.UUID
	OptionIDs []catalog.OptionID
}
