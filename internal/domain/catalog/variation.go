package catalog

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// VariationKind controls how a variation type is presented on the storefront
type VariationKind string

const (
	VariationKindSelect VariationKind = "select"
	VariationKindRadio  VariationKind = "radio"
	VariationKindImage  VariationKind = "image"
)

// VariationOption is one selectable value of a variation type (e.g. "Large")
type VariationOption struct {
	ID       OptionID
	Name     string
	ImageKey string
}

// VariationType is a product attribute dimension (e.g. "Size") with ordered options
type VariationType struct {
	ID      int64
	Name    string
	Kind    VariationKind
	Options []VariationOption
}

// Variation is one cell of a product's variation matrix: exactly one option
// per variation type, with optional price and quantity overrides.
// A nil Price defers to the product price; a nil Quantity means unbounded.
type Variation struct {
	ProductID uuid.UUID
	OptionIDs []OptionID // in variation type declaration order
	Labels    []string
	Price     *decimal.Decimal
	Quantity  *int
}

// Options returns the normalized option selection of the variation
func (v Variation) Options() OptionSet {
	return NewOptionSet(v.OptionIDs...)
}

// BuildMatrix produces the cartesian product of all variation type options.
// Type 0 varies slowest and the last type varies fastest. Each combination
// takes the price and quantity of the existing variation with the same option
// set (compared regardless of order), or the supplied defaults otherwise.
// No types yield a single empty combination; a type without options yields none.
func BuildMatrix(types []VariationType, existing []Variation, defaultPrice *decimal.Decimal, defaultQuantity *int) []Variation {
	saved := make(map[OptionKey]Variation, len(existing))
	for _, v := range existing {
		key := v.Options().Key()
		if _, dup := saved[key]; !dup {
			saved[key] = v
		}
	}

	combos := []Variation{{}}
	for _, vt := range types {
		next := make([]Variation, 0, len(combos)*len(vt.Options))
		for _, c := range combos {
			for _, opt := range vt.Options {
				next = append(next, Variation{
					OptionIDs: append(slices.Clip(c.OptionIDs), opt.ID),
					Labels:    append(slices.Clip(c.Labels), opt.Name),
				})
			}
		}
		combos = next
	}

	for i := range combos {
		if v, ok := saved[combos[i].Options().Key()]; ok {
			combos[i].Price = cloneDecimal(v.Price)
			combos[i].Quantity = cloneInt(v.Quantity)
			continue
		}
		combos[i].Price = cloneDecimal(defaultPrice)
		combos[i].Quantity = cloneInt(defaultQuantity)
	}
	return combos
}

// ValidateVariations checks that every variation picks exactly one option of
// each type, in type order, and that no option set appears twice.
func ValidateVariations(types []VariationType, variations []Variation) error {
	seen := make(map[OptionKey]struct{}, len(variations))
	for i, v := range variations {
		if len(v.OptionIDs) != len(types) {
			return invalidVariation(i, "must select one option per variation type")
		}
		for pos, id := range v.OptionIDs {
			if !types[pos].hasOption(id) {
				return invalidVariation(i, fmt.Sprintf("option %d does not belong to %q", id, types[pos].Name))
			}
		}
		if v.Price != nil && v.Price.IsNegative() {
			return invalidVariation(i, "price cannot be negative")
		}
		if v.Quantity != nil && *v.Quantity < 0 {
			return invalidVariation(i, "quantity cannot be negative")
		}
		key := v.Options().Key()
		if _, dup := seen[key]; dup {
			return invalidVariation(i, fmt.Sprintf("duplicate option set %s", key))
		}
		seen[key] = struct{}{}
	}
	return nil
}

func (vt VariationType) hasOption(id OptionID) bool {
	for _, o := range vt.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

func invalidVariation(index int, reason string) error {
	return shared.NewDomainError("INVALID_VARIATION", fmt.Sprintf("variation %d: %s", index, reason))
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

func cloneInt(n *int) *int {
	if n == nil {
		return nil
	}
	c := *n
	return &c
}
