package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mergeFixture runs the ledger over a sqlite line repository so repeated
// merges hit the real merge records
type mergeFixture struct {
	*ledgerFixture
	repo   *persistence.GormCartLineRepository
	userID uuid.UUID
}

func newMergeFixture(t *testing.T) *mergeFixture {
	t.Helper()
	db, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.AutoMigrate())

	f := &mergeFixture{
		ledgerFixture: newLedgerFixture(t),
		repo:          persistence.NewGormCartLineRepository(db.DB),
		userID:        uuid.New(),
	}
	f.ledger = NewLedger(f.repo, f.guests, f.catalog)

	require.NoError(t, f.repo.Upsert(context.Background(), f.userID, cart.Line{
		ID:        uuid.New(),
		ProductID: f.product.ID,
		Options:   catalog.NewOptionSet(3, 7),
		Quantity:  1,
		Price:     decimal.NewFromInt(15),
	}))

	c := cart.NewGuestCart()
	c.Add(f.product.ID, catalog.NewOptionSet(3, 7), 2, decimal.NewFromInt(15))
	c.Add(f.product.ID, catalog.NewOptionSet(5, 9), 1, decimal.NewFromInt(10))
	f.guests.carts["tok-1"] = c
	return f
}

func (f *mergeFixture) userQuantity(t *testing.T) int {
	t.Helper()
	lines, err := f.repo.FindByUser(context.Background(), f.userID)
	require.NoError(t, err)
	total := 0
	for _, l := range lines {
		total += l.Quantity
	}
	return total
}

func (f *mergeFixture) guestQuantity() int {
	c, ok := f.guests.carts["tok-1"]
	if !ok {
		return 0
	}
	total := 0
	for _, l := range c.Lines() {
		total += l.Quantity
	}
	return total
}

func TestLedger_MergeGuestIntoUser_Repeated(t *testing.T) {
	ctx := context.Background()

	t.Run("retry after a failed guest store write counts units once", func(t *testing.T) {
		f := newMergeFixture(t)
		userBefore, guestBefore := f.userQuantity(t), f.guestQuantity()
		f.guests.writeFailures = 1

		err := f.ledger.MergeGuestIntoUser(ctx, "tok-1", f.userID)
		require.Error(t, err)
		assert.Equal(t, guestBefore, f.guestQuantity(), "guest cart survives the failed write")

		require.NoError(t, f.ledger.MergeGuestIntoUser(ctx, "tok-1", f.userID))
		assert.Equal(t, userBefore+guestBefore, f.userQuantity(t))
		assert.Zero(t, f.guestQuantity())

		require.NoError(t, f.ledger.MergeGuestIntoUser(ctx, "tok-1", f.userID))
		assert.Equal(t, userBefore+guestBefore, f.userQuantity(t))
	})

	t.Run("rerun callback on a concurrent write counts units once", func(t *testing.T) {
		f := newMergeFixture(t)
		userBefore, guestBefore := f.userQuantity(t), f.guestQuantity()
		f.guests.conflicts = 2

		require.NoError(t, f.ledger.MergeGuestIntoUser(ctx, "tok-1", f.userID))
		assert.Equal(t, userBefore+guestBefore, f.userQuantity(t))
		assert.Zero(t, f.guestQuantity())
	})

	t.Run("units added after a failed write are merged on retry", func(t *testing.T) {
		f := newMergeFixture(t)
		userBefore, guestBefore := f.userQuantity(t), f.guestQuantity()
		f.guests.writeFailures = 1
		require.Error(t, f.ledger.MergeGuestIntoUser(ctx, "tok-1", f.userID))

		f.guests.carts["tok-1"].Add(f.product.ID, catalog.NewOptionSet(3, 7), 2, decimal.NewFromInt(15))

		require.NoError(t, f.ledger.MergeGuestIntoUser(ctx, "tok-1", f.userID))
		assert.Equal(t, userBefore+guestBefore+2, f.userQuantity(t))
		assert.Zero(t, f.guestQuantity())
	})
}
