package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct(uuid.New(), "Linen Shirt", decimal.NewFromInt(10))
	require.NoError(t, err)
	p.Quantity = intPtr(4)
	p.SetVariationTypes([]VariationType{
		{ID: 1, Name: "Color", Options: []VariationOption{{ID: 3, Name: "Red"}, {ID: 5, Name: "Blue"}}},
		{ID: 2, Name: "Size", Options: []VariationOption{{ID: 7, Name: "S"}, {ID: 9, Name: "M"}}},
	})
	p.Variations = []Variation{
		{OptionIDs: []OptionID{3, 7}, Price: decPtr("15"), Quantity: intPtr(2)},
		{OptionIDs: []OptionID{5, 9}, Price: nil, Quantity: intPtr(0)},
		{OptionIDs: []OptionID{3, 9}, Price: decPtr("12"), Quantity: nil},
	}
	return p
}

func TestNewProduct(t *testing.T) {
	t.Run("creates draft product with slug", func(t *testing.T) {
		vendorID := uuid.New()
		p, err := NewProduct(vendorID, "  Café Crème Mug  ", decimal.NewFromInt(3))
		require.NoError(t, err)
		assert.Equal(t, vendorID, p.VendorID)
		assert.Equal(t, "Café Crème Mug", p.Title)
		assert.Equal(t, "cafe-creme-mug", p.Slug)
		assert.Equal(t, ProductStatusDraft, p.Status)
		assert.False(t, p.IsPublished())
		assert.NotEqual(t, uuid.Nil, p.ID)
	})

	t.Run("fails with empty title", func(t *testing.T) {
		_, err := NewProduct(uuid.New(), "   ", decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("fails with negative price", func(t *testing.T) {
		_, err := NewProduct(uuid.New(), "Mug", decimal.NewFromInt(-1))
		assert.Error(t, err)
	})

	t.Run("publish", func(t *testing.T) {
		p := newTestProduct(t)
		p.Publish()
		assert.True(t, p.IsPublished())
	})
}

func TestProduct_PriceForOptions(t *testing.T) {
	p := newTestProduct(t)

	t.Run("matching variation with price", func(t *testing.T) {
		assert.True(t, p.PriceForOptions([]OptionID{3, 7}).Equal(decimal.NewFromInt(15)))
	})

	t.Run("order insensitive", func(t *testing.T) {
		assert.True(t, p.PriceForOptions([]OptionID{7, 3}).Equal(p.PriceForOptions([]OptionID{3, 7})))
	})

	t.Run("matching variation without price falls back", func(t *testing.T) {
		assert.True(t, p.PriceForOptions([]OptionID{9, 5}).Equal(decimal.NewFromInt(10)))
	})

	t.Run("no match falls back", func(t *testing.T) {
		assert.True(t, p.PriceForOptions([]OptionID{5, 7}).Equal(decimal.NewFromInt(10)))
		assert.True(t, p.PriceForOptions(nil).Equal(decimal.NewFromInt(10)))
		assert.True(t, p.PriceForOptions([]OptionID{3}).Equal(decimal.NewFromInt(10)))
	})
}

func TestProduct_VariantFor(t *testing.T) {
	p := newTestProduct(t)

	price, qty := p.VariantFor([]OptionID{7, 3})
	assert.True(t, price.Equal(decimal.NewFromInt(15)))
	require.NotNil(t, qty)
	assert.Equal(t, 2, *qty)

	price, qty = p.VariantFor([]OptionID{3, 9})
	assert.True(t, price.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, 4, *qty, "nil variation quantity falls back to the product")

	_, qty = p.VariantFor([]OptionID{5, 9})
	assert.Equal(t, 0, *qty)

	p.Quantity = nil
	_, qty = p.VariantFor([]OptionID{5, 7})
	assert.Nil(t, qty)
}

func TestProduct_DefaultsAndLookup(t *testing.T) {
	p := newTestProduct(t)
	assert.Equal(t, []OptionID{3, 7}, p.DefaultOptionIDs())

	vt, opt, ok := p.Option(9)
	require.True(t, ok)
	assert.Equal(t, "Size", vt.Name)
	assert.Equal(t, "M", opt.Name)

	_, _, ok = p.Option(100)
	assert.False(t, ok)

	bare := &Product{}
	assert.Empty(t, bare.DefaultOptionIDs())
}

func TestProduct_Matrix(t *testing.T) {
	p := newTestProduct(t)
	rows := p.Matrix()

	require.Len(t, rows, 4)
	for _, r := range rows {
		assert.Equal(t, p.ID, r.ProductID)
	}
	// {Red,S}
	assert.True(t, rows[0].Price.Equal(decimal.NewFromInt(15)))
	// {Blue,S} is not saved and inherits product defaults
	assert.True(t, rows[2].Price.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 4, *rows[2].Quantity)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":          "hello-world",
		"  --Über  Straße!! ":  "uber-straße",
		"T-Shirt (Large) 2024": "t-shirt-large-2024",
		"":                     "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestVendor_IsApproved(t *testing.T) {
	assert.True(t, (&Vendor{Status: VendorStatusApproved}).IsApproved())
	assert.False(t, (&Vendor{Status: VendorStatusPending}).IsApproved())
	assert.False(t, (&Vendor{Status: VendorStatusRejected}).IsApproved())
}

func TestIsListable(t *testing.T) {
	p := newTestProduct(t)
	approved := &Vendor{UserID: p.VendorID, Status: VendorStatusApproved}

	assert.False(t, IsListable(p, approved), "draft product")
	p.Publish()
	assert.True(t, IsListable(p, approved))
	assert.False(t, IsListable(p, &Vendor{Status: VendorStatusPending}))
	assert.False(t, IsListable(p, nil))
	assert.False(t, IsListable(nil, approved))
}
