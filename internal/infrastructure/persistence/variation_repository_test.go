package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormVariationRepository_ReplaceForProduct(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormVariationRepository(db)
	products := NewGormProductRepository(db)
	ctx := context.Background()

	p := seedShirt(t, db)
	red := p.VariationTypes[0].Options[0].ID
	blue := p.VariationTypes[0].Options[1].ID
	small := p.VariationTypes[1].Options[0].ID
	medium := p.VariationTypes[1].Options[1].ID

	price := decimal.RequireFromString("12.25")
	zero := 0
	require.NoError(t, repo.ReplaceForProduct(ctx, p.ID, []catalog.Variation{
		{OptionIDs: []catalog.OptionID{red, small}, Price: &price},
		{OptionIDs: []catalog.OptionID{blue, medium}, Quantity: &zero},
	}))

	saved, err := repo.FindByProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, []catalog.OptionID{red, small}, saved[0].OptionIDs)
	assert.True(t, saved[0].Price.Equal(price))
	assert.Nil(t, saved[0].Quantity)
	assert.Nil(t, saved[1].Price)
	assert.Equal(t, 0, *saved[1].Quantity)

	found, err := products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, found.PriceForOptions([]catalog.OptionID{small, red}).Equal(price))
	assert.True(t, found.PriceForOptions([]catalog.OptionID{blue, small}).Equal(decimal.NewFromInt(10)))

	t.Run("full replace drops missing rows", func(t *testing.T) {
		require.NoError(t, repo.ReplaceForProduct(ctx, p.ID, []catalog.Variation{
			{OptionIDs: []catalog.OptionID{blue, small}},
		}))
		saved, err := repo.FindByProduct(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, saved, 1)
		assert.Equal(t, []catalog.OptionID{blue, small}, saved[0].OptionIDs)
	})

	t.Run("empty replace clears", func(t *testing.T) {
		require.NoError(t, repo.ReplaceForProduct(ctx, p.ID, nil))
		saved, err := repo.FindByProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.Empty(t, saved)
	})

	t.Run("other products untouched", func(t *testing.T) {
		other := uuid.New()
		require.NoError(t, repo.ReplaceForProduct(ctx, other, []catalog.Variation{{OptionIDs: []catalog.OptionID{1}}}))
		require.NoError(t, repo.ReplaceForProduct(ctx, p.ID, nil))
		saved, err := repo.FindByProduct(ctx, other)
		require.NoError(t, err)
		assert.Len(t, saved, 1)
	})
}

func TestGormVariationRepository_ReplaceForProduct_RollsBack(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormVariationRepository(db)
	productID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "product_variations" WHERE product_id = \$1`).
		WithArgs(productID).
		WillReturnError(errors.New("lock timeout"))
	mock.ExpectRollback()

	err := repo.ReplaceForProduct(context.Background(), productID, []catalog.Variation{{OptionIDs: []catalog.OptionID{1}}})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
