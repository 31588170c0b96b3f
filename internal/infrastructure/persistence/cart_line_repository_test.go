package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLine(productID uuid.UUID, qty int, price string, ids ...catalog.OptionID) cart.Line {
	return cart.Line{
		ID:        uuid.New(),
		ProductID: productID,
		Options:   catalog.NewOptionSet(ids...),
		Quantity:  qty,
		Price:     decimal.RequireFromString(price),
	}
}

func TestGormCartLineRepository_Upsert(t *testing.T) {
	repo := NewGormCartLineRepository(setupTestDB(t))
	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	t.Run("inserts a new line", func(t *testing.T) {
		line := newLine(productID, 2, "15.50", 7, 3)
		require.NoError(t, repo.Upsert(ctx, userID, line))

		lines, err := repo.FindByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, line.ID, lines[0].ID)
		assert.Equal(t, productID, lines[0].ProductID)
		assert.Equal(t, []catalog.OptionID{3, 7}, lines[0].Options.IDs())
		assert.Equal(t, 2, lines[0].Quantity)
		assert.True(t, lines[0].Price.Equal(decimal.RequireFromString("15.5")))
	})

	t.Run("adds quantity and refreshes price on the same selection", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, userID, newLine(productID, 3, "14", 3, 7)))

		lines, err := repo.FindByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, 5, lines[0].Quantity)
		assert.True(t, lines[0].Price.Equal(decimal.NewFromInt(14)))
	})

	t.Run("different options make a new line", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, userID, newLine(productID, 1, "10", 5, 9)))
		require.NoError(t, repo.Upsert(ctx, userID, newLine(productID, 1, "10")))

		lines, err := repo.FindByUser(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, lines, 3)
	})

	t.Run("users are isolated", func(t *testing.T) {
		other := uuid.New()
		require.NoError(t, repo.Upsert(ctx, other, newLine(productID, 1, "15", 3, 7)))

		lines, err := repo.FindByUser(ctx, other)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, 1, lines[0].Quantity)
	})
}

func TestGormCartLineRepository_SetQuantityAndDelete(t *testing.T) {
	repo := NewGormCartLineRepository(setupTestDB(t))
	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	require.NoError(t, repo.Upsert(ctx, userID, newLine(productID, 1, "5", 3, 7)))
	require.NoError(t, repo.Upsert(ctx, userID, newLine(productID, 1, "5", 5, 9)))

	require.NoError(t, repo.SetQuantity(ctx, userID, productID, catalog.NewOptionSet(7, 3), 8))
	require.NoError(t, repo.SetQuantity(ctx, userID, uuid.New(), catalog.NewOptionSet(), 2), "missing line is a no-op")

	lines, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	byKey := make(map[catalog.OptionKey]int)
	for _, l := range lines {
		byKey[l.Options.Key()] = l.Quantity
	}
	assert.Equal(t, map[catalog.OptionKey]int{"[3,7]": 8, "[5,9]": 1}, byKey)

	require.NoError(t, repo.Delete(ctx, userID, productID, catalog.NewOptionSet(9, 5)))
	require.NoError(t, repo.Delete(ctx, userID, productID, catalog.NewOptionSet(1)), "missing line is a no-op")

	lines, err = repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, catalog.OptionKey("[3,7]"), lines[0].Options.Key())
}

func TestGormCartLineRepository_MergeGuestLines(t *testing.T) {
	repo := NewGormCartLineRepository(setupTestDB(t))
	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	quantities := func(t *testing.T, userID uuid.UUID) map[catalog.OptionKey]int {
		lines, err := repo.FindByUser(ctx, userID)
		require.NoError(t, err)
		out := make(map[catalog.OptionKey]int, len(lines))
		for _, l := range lines {
			out[l.Options.Key()] = l.Quantity
		}
		return out
	}

	require.NoError(t, repo.Upsert(ctx, userID, newLine(productID, 1, "12", 3, 7)))

	shirt := newLine(productID, 2, "15", 3, 7)
	mug := newLine(productID, 4, "10", 5, 9)

	t.Run("adds guest quantities and takes the guest price", func(t *testing.T) {
		n, err := repo.MergeGuestLines(ctx, userID, []cart.Line{shirt, mug})
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, map[catalog.OptionKey]int{"[3,7]": 3, "[5,9]": 4}, quantities(t, userID))

		lines, err := repo.FindByUser(ctx, userID)
		require.NoError(t, err)
		for _, l := range lines {
			if l.Options.Key() == "[3,7]" {
				assert.True(t, l.Price.Equal(decimal.NewFromInt(15)))
			}
		}
	})

	t.Run("merging the same guest lines again adds nothing", func(t *testing.T) {
		n, err := repo.MergeGuestLines(ctx, userID, []cart.Line{shirt, mug})
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, map[catalog.OptionKey]int{"[3,7]": 3, "[5,9]": 4}, quantities(t, userID))
	})

	t.Run("a grown guest line adds only the difference", func(t *testing.T) {
		grown := shirt
		grown.Quantity = 5
		n, err := repo.MergeGuestLines(ctx, userID, []cart.Line{grown, mug})
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, map[catalog.OptionKey]int{"[3,7]": 6, "[5,9]": 4}, quantities(t, userID))
	})

	t.Run("another user merges the full guest line", func(t *testing.T) {
		other := uuid.New()
		n, err := repo.MergeGuestLines(ctx, other, []cart.Line{shirt})
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, map[catalog.OptionKey]int{"[3,7]": 2}, quantities(t, other))
	})

	t.Run("no lines is a no-op", func(t *testing.T) {
		n, err := repo.MergeGuestLines(ctx, userID, nil)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestGormCartLineRepository_MergeGuestLines_RollsBack(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormCartLineRepository(db)
	userID := uuid.New()
	line := newLine(uuid.New(), 2, "1")

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "cart_merged_guest_lines" .* ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`SELECT \* FROM "cart_merged_guest_lines" WHERE .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "guest_line_id", "quantity", "merged_at"}).
			AddRow(userID.String(), line.ID.String(), 0, time.Now()))
	mock.ExpectExec(`UPDATE "cart_merged_guest_lines" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "cart_items"`).WillReturnError(errors.New("serialization failure"))
	mock.ExpectRollback()

	n, err := repo.MergeGuestLines(context.Background(), userID, []cart.Line{line})
	assert.Error(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCartLineRepository_Upsert_UsesOnConflict(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormCartLineRepository(db)

	mock.ExpectExec(`INSERT INTO "cart_items" .* ON CONFLICT \("user_id","product_id","option_key"\) DO UPDATE SET .*"quantity"=cart_items.quantity \+ excluded.quantity`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Upsert(context.Background(), uuid.New(), newLine(uuid.New(), 1, "1", 3)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCartLineRepository_FindByUser_Error(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormCartLineRepository(db)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "cart_items" WHERE user_id = \$1`).
		WithArgs(userID).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.FindByUser(context.Background(), userID)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
