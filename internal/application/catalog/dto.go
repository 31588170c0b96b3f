package catalog

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// VariationOptionResponse represents an option in API responses
type VariationOptionResponse struct {
	ID       catalog.OptionID `json:"id"`
	Name     string           `json:"name"`
	ImageKey string           `json:"image_key,omitempty"`
}

// VariationTypeResponse represents a variation type in API responses
type VariationTypeResponse struct {
	ID      int64                     `json:"id"`
	Name    string                    `json:"name"`
	Kind    string                    `json:"kind"`
	Options []VariationOptionResponse `json:"options"`
}

// VariationRowResponse is one combination of the variation matrix
type VariationRowResponse struct {
	OptionIDs []catalog.OptionID `json:"option_ids"`
	Labels    []string           `json:"labels"`
	Price     *decimal.Decimal   `json:"price"`
	Quantity  *int               `json:"quantity"`
}

// MatrixResponse is the full variation grid of a product
type MatrixResponse struct {
	ProductID uuid.UUID               `json:"product_id"`
	Types     []VariationTypeResponse `json:"types"`
	Rows      []VariationRowResponse  `json:"rows"`
}

// VariationRowInput is a submitted matrix row. OptionIDs follow type order.
type VariationRowInput struct {
	OptionIDs []catalog.OptionID `json:"option_ids" binding:"required"`
	Price     *decimal.Decimal   `json:"price"`
	Quantity  *int               `json:"quantity" binding:"omitempty,gte=0"`
}

// SaveVariationsRequest replaces every saved combination of a product
type SaveVariationsRequest struct {
	Rows []VariationRowInput `json:"rows" binding:"dive"`
}

// VariantResponse is the price and stock of an option selection
type VariantResponse struct {
	ProductID uuid.UUID          `json:"product_id"`
	OptionIDs []catalog.OptionID `json:"option_ids"`
	Price     decimal.Decimal    `json:"price"`
	Quantity  *int               `json:"quantity"`
	InStock   bool               `json:"in_stock"`
}

// ToMatrixResponse converts a product's variation grid to a response
func ToMatrixResponse(p *catalog.Product, rows []catalog.Variation) MatrixResponse {
	resp := MatrixResponse{
		ProductID: p.ID,
		Types:     make([]VariationTypeResponse, 0, len(p.VariationTypes)),
		Rows:      make([]VariationRowResponse, 0, len(rows)),
	}
	for _, vt := range p.VariationTypes {
		t := VariationTypeResponse{
			ID:      vt.ID,
			Name:    vt.Name,
			Kind:    string(vt.Kind),
			Options: make([]VariationOptionResponse, 0, len(vt.Options)),
		}
		for _, o := range vt.Options {
			t.Options = append(t.Options, VariationOptionResponse{ID: o.ID, Name: o.Name, ImageKey: o.ImageKey})
		}
		resp.Types = append(resp.Types, t)
	}
	for _, r := range rows {
		ids := r.OptionIDs
		if ids == nil {
			ids = []catalog.OptionID{}
		}
		labels := r.Labels
		if labels == nil {
			labels = []string{}
		}
		resp.Rows = append(resp.Rows, VariationRowResponse{
			OptionIDs: ids,
			Labels:    labels,
			Price:     r.Price,
			Quantity:  r.Quantity,
		})
	}
	return resp
}
