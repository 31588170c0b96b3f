package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	cartapp "github.com/marketplace/backend/internal/application/cart"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

// MockVendorRepository is a mock implementation of catalog.VendorRepository
type MockVendorRepository struct {
	mock.Mock
}

func (m *MockVendorRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*catalog.Vendor, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Vendor), args.Error(1)
}

func (m *MockVendorRepository) FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]catalog.Vendor, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Vendor), args.Error(1)
}

func (m *MockVendorRepository) Save(ctx context.Context, vendor *catalog.Vendor) error {
	args := m.Called(ctx, vendor)
	return args.Error(0)
}

// MockImageResolver is a mock implementation of ImageResolver
type MockImageResolver struct {
	mock.Mock
}

func (m *MockImageResolver) ResolveURL(ctx context.Context, key, conversion string) (string, error) {
	args := m.Called(ctx, key, conversion)
	return args.String(0), args.Error(1)
}

func TestCatalogService_GetProduct(t *testing.T) {
	products := new(MockProductRepository)
	svc := NewCatalogService(products, new(MockVendorRepository), nil)
	ctx := context.Background()

	product := &catalog.Product{ID: uuid.New(), Status: catalog.ProductStatusPublished}
	products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	got, err := svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Same(t, product, got)

	missing := uuid.New()
	products.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)
	_, err = svc.GetProduct(ctx, missing)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCatalogService_GetProducts(t *testing.T) {
	products := new(MockProductRepository)
	svc := NewCatalogService(products, new(MockVendorRepository), nil)
	ctx := context.Background()

	a, b := uuid.New(), uuid.New()
	products.On("FindByIDs", mock.Anything, []uuid.UUID{a, b}).
		Return([]catalog.Product{{ID: a, Title: "A"}, {ID: b, Title: "B"}}, nil)

	result, err := svc.GetProducts(ctx, []uuid.UUID{a, b, a, uuid.Nil})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "A", result[a].Title)
	assert.Equal(t, "B", result[b].Title)

	empty, err := svc.GetProducts(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	products.AssertNumberOfCalls(t, "FindByIDs", 1)
}

func TestCatalogService_GetVendors(t *testing.T) {
	vendors := new(MockVendorRepository)
	svc := NewCatalogService(new(MockProductRepository), vendors, nil)
	id := uuid.New()

	t.Run("keyed by user id", func(t *testing.T) {
		vendors.On("FindByUserIDs", mock.Anything, []uuid.UUID{id}).
			Return([]catalog.Vendor{{UserID: id, StoreName: "Acme"}}, nil).Once()

		result, err := svc.GetVendors(context.Background(), []uuid.UUID{id, id})
		require.NoError(t, err)
		assert.Equal(t, "Acme", result[id].StoreName)
	})

	t.Run("repository error", func(t *testing.T) {
		vendors.On("FindByUserIDs", mock.Anything, []uuid.UUID{id}).
			Return(nil, errors.New("connection refused")).Once()

		_, err := svc.GetVendors(context.Background(), []uuid.UUID{id})
		assert.Error(t, err)
	})
}

func TestCatalogService_ImageURL(t *testing.T) {
	images := new(MockImageResolver)
	svc := NewCatalogService(new(MockProductRepository), new(MockVendorRepository), images)
	ctx := context.Background()

	images.On("ResolveURL", mock.Anything, "p/1.jpg", "small").Return("https://cdn/p/1-small.jpg", nil)
	images.On("ResolveURL", mock.Anything, "p/2.jpg", "small").Return("", errors.New("access denied"))

	assert.Equal(t, "https://cdn/p/1-small.jpg", svc.ImageURL(ctx, "p/1.jpg", cartapp.ImageSizeSmall))
	assert.Equal(t, "", svc.ImageURL(ctx, "p/2.jpg", cartapp.ImageSizeSmall))
	assert.Equal(t, "", svc.ImageURL(ctx, "", cartapp.ImageSizeSmall))

	noImages := NewCatalogService(new(MockProductRepository), new(MockVendorRepository), nil)
	assert.Equal(t, "", noImages.ImageURL(ctx, "p/1.jpg", cartapp.ImageSizeThumb))
}

func TestCatalogService_AsCartCatalog(t *testing.T) {
	products := new(MockProductRepository)
	svc := NewCatalogService(products, new(MockVendorRepository), nil)

	p := &catalog.Product{ID: uuid.New(), Price: decimal.NewFromInt(3)}
	products.On("FindByID", mock.Anything, p.ID).Return(p, nil)

	var port cartapp.Catalog = svc
	got, err := port.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Same(t, p, got)
}
