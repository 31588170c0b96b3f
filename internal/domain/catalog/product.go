package catalog

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ProductStatus represents the publication status of a product
type ProductStatus string

const (
	ProductStatusDraft     ProductStatus = "draft"
	ProductStatusPublished ProductStatus = "published"
)

// Product is a vendor's listing together with its variation types and
// saved variation combinations.
type Product struct {
	ID             uuid.UUID
	VendorID       uuid.UUID // user id of the vendor that created the product
	Title          string
	Slug           string
	Description    string
	Price          decimal.Decimal
	Quantity       *int // nil means unbounded stock
	Status         ProductStatus
	ImageKey       string
	VariationTypes []VariationType
	Variations     []Variation
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewProduct creates a draft product owned by vendorID
func NewProduct(vendorID uuid.UUID, title string, price decimal.Decimal) (*Product, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Product title cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	now := time.Now()
	return &Product{
		ID:        uuid.New(),
		VendorID:  vendorID,
		Title:     title,
		Slug:      Slugify(title),
		Price:     price,
		Status:    ProductStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Publish makes the product visible on the storefront
func (p *Product) Publish() {
	p.Status = ProductStatusPublished
	p.UpdatedAt = time.Now()
}

// IsPublished reports whether the product is visible on the storefront
func (p *Product) IsPublished() bool {
	return p.Status == ProductStatusPublished
}

// Matrix returns the full variation grid using the product price and
// quantity as defaults for unsaved combinations.
func (p *Product) Matrix() []Variation {
	price := p.Price
	rows := BuildMatrix(p.VariationTypes, p.Variations, &price, p.Quantity)
	for i := range rows {
		rows[i].ProductID = p.ID
	}
	return rows
}

// PriceForOptions resolves the price of an option selection. The order of ids
// is irrelevant. It falls back to the product price when no variation matches
// or the matching variation has no price override.
func (p *Product) PriceForOptions(ids []OptionID) decimal.Decimal {
	price, _ := p.VariantFor(ids)
	return price
}

// VariantFor resolves price and available quantity of an option selection.
// Missing overrides fall back to the product's own price and quantity.
func (p *Product) VariantFor(ids []OptionID) (decimal.Decimal, *int) {
	if v, ok := p.findVariation(NewOptionSet(ids...)); ok {
		price, qty := p.Price, p.Quantity
		if v.Price != nil {
			price = *v.Price
		}
		if v.Quantity != nil {
			qty = v.Quantity
		}
		return price, cloneInt(qty)
	}
	return p.Price, cloneInt(p.Quantity)
}

func (p *Product) findVariation(want OptionSet) (Variation, bool) {
	for _, v := range p.Variations {
		if v.Options().Equal(want) {
			return v, true
		}
	}
	return Variation{}, false
}

// DefaultOptionIDs returns the first option of every variation type, in type order
func (p *Product) DefaultOptionIDs() []OptionID {
	ids := make([]OptionID, 0, len(p.VariationTypes))
	for _, vt := range p.VariationTypes {
		if len(vt.Options) > 0 {
			ids = append(ids, vt.Options[0].ID)
		}
	}
	return ids
}

// Option looks up an option and its owning type
func (p *Product) Option(id OptionID) (VariationType, VariationOption, bool) {
	for _, vt := range p.VariationTypes {
		for _, o := range vt.Options {
			if o.ID == id {
				return vt, o, true
			}
		}
	}
	return VariationType{}, VariationOption{}, false
}

// SetVariationTypes replaces the variation types of the product
func (p *Product) SetVariationTypes(types []VariationType) {
	p.VariationTypes = types
	p.UpdatedAt = time.Now()
}

// VendorStatus represents the approval state of a vendor
type VendorStatus string

const (
	VendorStatusPending  VendorStatus = "pending"
	VendorStatusApproved VendorStatus = "approved"
	VendorStatusRejected VendorStatus = "rejected"
)

// Vendor is the seller profile attached to a user account
type Vendor struct {
	UserID    uuid.UUID
	StoreName string
	Status    VendorStatus
}

// IsApproved reports whether the vendor may sell on the storefront
func (v *Vendor) IsApproved() bool {
	return v.Status == VendorStatusApproved
}

// Slugify converts a title into a lowercase, dash separated URL slug
func Slugify(title string) string {
	// transformer chains keep state, so one is built per call
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, title)
	if err != nil {
		folded = title
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// IsListable reports whether a product may appear in carts and on the
// storefront: it is published and its vendor is approved.
func IsListable(p *Product, v *Vendor) bool {
	return p != nil && v != nil && p.IsPublished() && v.IsApproved()
}
