package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
)

// LineRepository persists the cart lines of authenticated users.
// Lines are unique per (user, product, option key).
type LineRepository interface {
	// FindByUser returns the user's lines ordered by creation
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Line, error)

	// Upsert atomically inserts the line, or adds its quantity to the
	// existing one and overwrites the price snapshot
	Upsert(ctx context.Context, userID uuid.UUID, line Line) error

	// SetQuantity updates an existing line; it does nothing when the line is missing
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, options catalog.OptionSet, quantity int) error

	// Delete removes a line; it does nothing when the line is missing
	Delete(ctx context.Context, userID, productID uuid.UUID, options catalog.OptionSet) error

	// MergeGuestLines adds guest lines to the user's cart inside a single
	// transaction. Each guest line id is remembered with the quantity already
	// merged, so repeating a merge adds only what the guest line gained since.
	// It returns the number of lines that changed the user's cart.
	MergeGuestLines(ctx context.Context, userID uuid.UUID, lines []Line) (int, error)
}

// ErrUnchanged may be returned by a GuestStore.Update callback to skip the write.
// Update then returns nil.
var ErrUnchanged = errors.New("cart: unchanged")

// GuestStore holds guest carts keyed by the guest token
type GuestStore interface {
	// Load returns the guest cart; unknown tokens and malformed data yield an empty cart
	Load(ctx context.Context, token string) (*GuestCart, error)

	// Update applies fn to the current cart and persists the result atomically.
	// Nothing is written when fn returns an error. A cart left empty is removed.
	Update(ctx context.Context, token string, fn func(*GuestCart) error) error
}
