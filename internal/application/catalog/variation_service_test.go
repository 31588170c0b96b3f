package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockVariationRepository is a mock implementation of catalog.VariationRepository
type MockVariationRepository struct {
	mock.Mock
}

func (m *MockVariationRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.Variation, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Variation), args.Error(1)
}

func (m *MockVariationRepository) ReplaceForProduct(ctx context.Context, productID uuid.UUID, variations []catalog.Variation) error {
	args := m.Called(ctx, productID, variations)
	return args.Error(0)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(n int) *int { return &n }

func newShirt() *catalog.Product {
	return &catalog.Product{
		ID:       uuid.New(),
		VendorID: uuid.New(),
		Title:    "Shirt",
		Price:    decimal.NewFromInt(10),
		Quantity: intPtr(6),
		Status:   catalog.ProductStatusPublished,
		VariationTypes: []catalog.VariationType{
			{ID: 1, Name: "Color", Kind: catalog.VariationKindRadio, Options: []catalog.VariationOption{{ID: 3, Name: "Red"}, {ID: 5, Name: "Blue"}}},
			{ID: 2, Name: "Size", Kind: catalog.VariationKindSelect, Options: []catalog.VariationOption{{ID: 7, Name: "S"}, {ID: 9, Name: "M"}}},
		},
		Variations: []catalog.Variation{
			{OptionIDs: []catalog.OptionID{3, 7}, Price: decPtr("15"), Quantity: intPtr(2)},
			{OptionIDs: []catalog.OptionID{5, 9}, Quantity: intPtr(0)},
		},
	}
}

func TestVariationService_Matrix(t *testing.T) {
	products := new(MockProductRepository)
	variations := new(MockVariationRepository)
	svc := NewVariationService(products, variations)
	shirt := newShirt()
	saved := shirt.Variations
	shirt.Variations = nil
	products.On("FindByID", mock.Anything, shirt.ID).Return(shirt, nil)
	variations.On("FindByProduct", mock.Anything, shirt.ID).Return(saved, nil)

	resp, err := svc.Matrix(context.Background(), shirt.ID)
	require.NoError(t, err)

	assert.Equal(t, shirt.ID, resp.ProductID)
	require.Len(t, resp.Types, 2)
	assert.Equal(t, "radio", resp.Types[0].Kind)
	require.Len(t, resp.Rows, 4)

	assert.Equal(t, []catalog.OptionID{3, 7}, resp.Rows[0].OptionIDs)
	assert.Equal(t, []string{"Red", "S"}, resp.Rows[0].Labels)
	assert.True(t, resp.Rows[0].Price.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, 2, *resp.Rows[0].Quantity)

	assert.Equal(t, []catalog.OptionID{3, 9}, resp.Rows[1].OptionIDs)
	assert.True(t, resp.Rows[1].Price.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 6, *resp.Rows[1].Quantity)

	assert.Nil(t, resp.Rows[3].Price, "saved combination without price override")
	assert.Equal(t, 0, *resp.Rows[3].Quantity)
}

func TestVariationService_Matrix_NoTypes(t *testing.T) {
	products := new(MockProductRepository)
	variations := new(MockVariationRepository)
	svc := NewVariationService(products, variations)
	bare := &catalog.Product{ID: uuid.New(), Price: decimal.NewFromInt(4)}
	products.On("FindByID", mock.Anything, bare.ID).Return(bare, nil)
	variations.On("FindByProduct", mock.Anything, bare.ID).Return([]catalog.Variation{}, nil)

	resp, err := svc.Matrix(context.Background(), bare.ID)
	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)
	assert.Empty(t, resp.Rows[0].OptionIDs)
	assert.NotNil(t, resp.Rows[0].OptionIDs)
}

func TestVariationService_Matrix_RepositoryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown product", func(t *testing.T) {
		products := new(MockProductRepository)
		variations := new(MockVariationRepository)
		svc := NewVariationService(products, variations)
		id := uuid.New()
		products.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := svc.Matrix(ctx, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		variations.AssertNotCalled(t, "FindByProduct", mock.Anything, mock.Anything)
	})

	t.Run("saved combinations unavailable", func(t *testing.T) {
		products := new(MockProductRepository)
		variations := new(MockVariationRepository)
		svc := NewVariationService(products, variations)
		shirt := newShirt()
		products.On("FindByID", mock.Anything, shirt.ID).Return(shirt, nil)
		variations.On("FindByProduct", mock.Anything, shirt.ID).Return(nil, errors.New("connection reset"))

		_, err := svc.Matrix(ctx, shirt.ID)
		assert.Error(t, err)
	})
}

func TestVariationService_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces all combinations", func(t *testing.T) {
		products := new(MockProductRepository)
		variations := new(MockVariationRepository)
		svc := NewVariationService(products, variations)
		shirt := newShirt()
		products.On("FindByID", mock.Anything, shirt.ID).Return(shirt, nil)
		variations.On("ReplaceForProduct", mock.Anything, shirt.ID, mock.MatchedBy(func(rows []catalog.Variation) bool {
			return len(rows) == 2 && rows[0].ProductID == shirt.ID && rows[1].Price.Equal(decimal.NewFromInt(11))
		})).Return(nil)

		err := svc.Save(ctx, shirt.VendorID, shirt.ID, SaveVariationsRequest{Rows: []VariationRowInput{
			{OptionIDs: []catalog.OptionID{3, 7}, Quantity: intPtr(1)},
			{OptionIDs: []catalog.OptionID{5, 7}, Price: decPtr("11")},
		}})
		require.NoError(t, err)
		variations.AssertExpectations(t)
	})

	t.Run("another vendor", func(t *testing.T) {
		products := new(MockProductRepository)
		variations := new(MockVariationRepository)
		svc := NewVariationService(products, variations)
		shirt := newShirt()
		products.On("FindByID", mock.Anything, shirt.ID).Return(shirt, nil)

		err := svc.Save(ctx, uuid.New(), shirt.ID, SaveVariationsRequest{})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "FORBIDDEN", domainErr.Code)
		variations.AssertNotCalled(t, "ReplaceForProduct", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid rows", func(t *testing.T) {
		products := new(MockProductRepository)
		variations := new(MockVariationRepository)
		svc := NewVariationService(products, variations)
		shirt := newShirt()
		products.On("FindByID", mock.Anything, shirt.ID).Return(shirt, nil)

		err := svc.Save(ctx, shirt.VendorID, shirt.ID, SaveVariationsRequest{Rows: []VariationRowInput{
			{OptionIDs: []catalog.OptionID{3, 7}},
			{OptionIDs: []catalog.OptionID{3, 7}},
		}})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_VARIATION", domainErr.Code)
		variations.AssertNotCalled(t, "ReplaceForProduct", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("repository error", func(t *testing.T) {
		products := new(MockProductRepository)
		variations := new(MockVariationRepository)
		svc := NewVariationService(products, variations)
		shirt := newShirt()
		products.On("FindByID", mock.Anything, shirt.ID).Return(shirt, nil)
		variations.On("ReplaceForProduct", mock.Anything, shirt.ID, mock.Anything).Return(errors.New("tx aborted"))

		err := svc.Save(ctx, shirt.VendorID, shirt.ID, SaveVariationsRequest{})
		assert.Error(t, err)
	})
}

func TestVariationService_Variant(t *testing.T) {
	products := new(MockProductRepository)
	svc := NewVariationService(products, new(MockVariationRepository))
	shirt := newShirt()
	products.On("FindByID", mock.Anything, shirt.ID).Return(shirt, nil)
	ctx := context.Background()

	resp, err := svc.Variant(ctx, shirt.ID, []catalog.OptionID{7, 3})
	require.NoError(t, err)
	assert.Equal(t, []catalog.OptionID{3, 7}, resp.OptionIDs)
	assert.True(t, resp.Price.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, 2, *resp.Quantity)
	assert.True(t, resp.InStock)

	resp, err = svc.Variant(ctx, shirt.ID, []catalog.OptionID{5, 9})
	require.NoError(t, err)
	assert.True(t, resp.Price.Equal(decimal.NewFromInt(10)))
	assert.False(t, resp.InStock)

	_, err = svc.Variant(ctx, shirt.ID, []catalog.OptionID{99})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_OPTIONS", domainErr.Code)
}
