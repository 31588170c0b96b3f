package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// VendorModel is the persistence model for the Vendor domain entity.
type VendorModel struct {
	UserID    uuid.UUID            `gorm:"type:uuid;primary_key"`
	StoreName string               `gorm:"type:varchar(200);not null"`
	Status    catalog.VendorStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt time.Time            `gorm:"not null"`
	UpdatedAt time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (VendorModel) TableName() string {
	return "vendors"
}

// ToDomain converts the persistence model to a domain Vendor.
func (m *VendorModel) ToDomain() *catalog.Vendor {
	return &catalog.Vendor{
		UserID:    m.UserID,
		StoreName: m.StoreName,
		Status:    m.Status,
	}
}

// VendorModelFromDomain creates a new persistence model from a domain Vendor.
func VendorModelFromDomain(v *catalog.Vendor) *VendorModel {
	return &VendorModel{
		UserID:    v.UserID,
		StoreName: v.StoreName,
		Status:    v.Status,
	}
}

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	VendorID       uuid.UUID             `gorm:"type:uuid;not null;index"`
	Title          string                `gorm:"type:varchar(255);not null"`
	Slug           string                `gorm:"type:varchar(255);not null;index"`
	Description    string                `gorm:"type:text"`
	Price          decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Quantity       *int                  `gorm:"type:integer"`
	Status         catalog.ProductStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	ImageKey       string                `gorm:"type:varchar(500)"`
	VariationTypes []VariationTypeModel  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Variations     []VariationModel      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product, including
// any preloaded variation types and variations.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		ID:          m.ID,
		VendorID:    m.VendorID,
		Title:       m.Title,
		Slug:        m.Slug,
		Description: m.Description,
		Price:       m.Price,
		Quantity:    m.Quantity,
		Status:      m.Status,
		ImageKey:    m.ImageKey,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if len(m.VariationTypes) > 0 {
		p.VariationTypes = make([]catalog.VariationType, 0, len(m.VariationTypes))
		for i := range m.VariationTypes {
			p.VariationTypes = append(p.VariationTypes, m.VariationTypes[i].ToDomain())
		}
	}
	if len(m.Variations) > 0 {
		p.Variations = make([]catalog.Variation, 0, len(m.Variations))
		for i := range m.Variations {
			p.Variations = append(p.Variations, m.Variations[i].ToDomain())
		}
	}
	return p
}

// ProductModelFromDomain creates a new persistence model from a domain
// Product. Variation types are mapped; saved variations are not, they are
// written through the variation repository.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		BaseModel: BaseModel{
			ID:        p.ID,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		},
		VendorID:    p.VendorID,
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Status:      p.Status,
		ImageKey:    p.ImageKey,
	}
	for i, vt := range p.VariationTypes {
		m.VariationTypes = append(m.VariationTypes, VariationTypeModelFromDomain(p.ID, i, vt))
	}
	return m
}

// VariationTypeModel is the persistence model for a product's variation type.
type VariationTypeModel struct {
	ID        int64                  `gorm:"primaryKey;autoIncrement"`
	ProductID uuid.UUID              `gorm:"type:uuid;not null;index"`
	Name      string                 `gorm:"type:varchar(100);not null"`
	Kind      catalog.VariationKind  `gorm:"type:varchar(20);not null;default:'select'"`
	Position  int                    `gorm:"not null;default:0"`
	Options   []VariationOptionModel `gorm:"foreignKey:VariationTypeID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (VariationTypeModel) TableName() string {
	return "variation_types"
}

// ToDomain converts the persistence model to a domain VariationType.
func (m *VariationTypeModel) ToDomain() catalog.VariationType {
	vt := catalog.VariationType{
		ID:      m.ID,
		Name:    m.Name,
		Kind:    m.Kind,
		Options: make([]catalog.VariationOption, 0, len(m.Options)),
	}
	for _, o := range m.Options {
		vt.Options = append(vt.Options, catalog.VariationOption{
			ID:       catalog.OptionID(o.ID),
			Name:     o.Name,
			ImageKey: o.ImageKey,
		})
	}
	return vt
}

// VariationTypeModelFromDomain maps a variation type at the given position.
func VariationTypeModelFromDomain(productID uuid.UUID, position int, vt catalog.VariationType) VariationTypeModel {
	m := VariationTypeModel{
		ID:        vt.ID,
		ProductID: productID,
		Name:      vt.Name,
		Kind:      vt.Kind,
		Position:  position,
		Options:   make([]VariationOptionModel, 0, len(vt.Options)),
	}
	for i, o := range vt.Options {
		m.Options = append(m.Options, VariationOptionModel{
			ID:              int64(o.ID),
			VariationTypeID: vt.ID,
			Name:            o.Name,
			ImageKey:        o.ImageKey,
			Position:        i,
		})
	}
	return m
}

// VariationOptionModel is the persistence model for one option of a variation type.
type VariationOptionModel struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	VariationTypeID int64  `gorm:"not null;index"`
	Name            string `gorm:"type:varchar(100);not null"`
	ImageKey        string `gorm:"type:varchar(500)"`
	Position        int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (VariationOptionModel) TableName() string {
	return "variation_type_options"
}

// VariationModel is the persistence model for a saved variation combination.
// OptionKey holds the normalized option set and is unique per product.
type VariationModel struct {
	ID        int64               `gorm:"primaryKey;autoIncrement"`
	ProductID uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_variation_product_options,priority:1"`
	OptionKey catalog.OptionKey   `gorm:"type:varchar(255);not null;uniqueIndex:idx_variation_product_options,priority:2"`
	OptionIDs []int64             `gorm:"type:jsonb;serializer:json;not null"`
	Price     decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	Quantity  *int                `gorm:"type:integer"`
}

// TableName returns the table name for GORM
func (VariationModel) TableName() string {
	return "product_variations"
}

// ToDomain converts the persistence model to a domain Variation.
func (m *VariationModel) ToDomain() catalog.Variation {
	v := catalog.Variation{
		ProductID: m.ProductID,
		OptionIDs: make([]catalog.OptionID, 0, len(m.OptionIDs)),
		Quantity:  m.Quantity,
	}
	for _, id := range m.OptionIDs {
		v.OptionIDs = append(v.OptionIDs, catalog.OptionID(id))
	}
	if m.Price.Valid {
		price := m.Price.Decimal
		v.Price = &price
	}
	return v
}

// VariationModelFromDomain creates a new persistence model from a domain Variation.
func VariationModelFromDomain(productID uuid.UUID, v catalog.Variation) *VariationModel {
	m := &VariationModel{
		ProductID: productID,
		OptionKey: v.Options().Key(),
		OptionIDs: make([]int64, 0, len(v.OptionIDs)),
		Quantity:  v.Quantity,
	}
	for _, id := range v.OptionIDs {
		m.OptionIDs = append(m.OptionIDs, int64(id))
	}
	if v.Price != nil {
		m.Price = decimal.NewNullDecimal(*v.Price)
	}
	return m
}
