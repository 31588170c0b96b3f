package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const spanService = "cart"

// Ledger implements cart operations for guests and authenticated users.
// Guest carts live in a GuestStore, user carts in a LineRepository; the
// Owner passed to every call selects the backend.
type Ledger struct {
	lines     cart.LineRepository
	guests    cart.GuestStore
	catalog   Catalog
	metrics   *telemetry.CartMetrics
	imageSize ImageSize
}

// Option configures a Ledger
type Option func(*Ledger)

// WithMetrics records cart counters on m
func WithMetrics(m *telemetry.CartMetrics) Option {
	return func(l *Ledger) { l.metrics = m }
}

// WithImageSize selects the image conversion used in listings
func WithImageSize(size ImageSize) Option {
	return func(l *Ledger) { l.imageSize = size }
}

// NewLedger creates a new Ledger
func NewLedger(lines cart.LineRepository, guests cart.GuestStore, cat Catalog, opts ...Option) *Ledger {
	l := &Ledger{
		lines:     lines,
		guests:    guests,
		catalog:   cat,
		imageSize: ImageSizeSmall,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddItem adds req.Quantity units of a product selection. An existing line
// for the same selection gains the quantity and takes the current price.
func (l *Ledger) AddItem(ctx context.Context, owner cart.Owner, req AddItemRequest) error {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "add_item")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOwner, ownerKind(owner),
		telemetry.SpanAttrProductID, req.ProductID,
		telemetry.SpanAttrQuantity, req.Quantity,
	)

	if err := l.checkOwner(owner); err != nil {
		return err
	}
	if req.Quantity < 1 {
		return shared.ErrInvalidQuantity
	}

	product, err := l.loadPurchasable(ctx, req.ProductID)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	ids := req.OptionIDs
	if ids == nil {
		ids = product.DefaultOptionIDs()
	}
	for _, id := range ids {
		if _, _, ok := product.Option(id); !ok {
			return shared.NewDomainError("INVALID_OPTIONS", fmt.Sprintf("Option %d does not belong to this product", id))
		}
	}
	options := catalog.NewOptionSet(ids...)
	price := product.PriceForOptions(ids)
	telemetry.SetAttributes(span, telemetry.SpanAttrOptionKey, string(options.Key()))

	if owner.IsGuest() {
		err = l.guests.Update(ctx, owner.Token(), func(c *cart.GuestCart) error {
			c.Add(product.ID, options, req.Quantity, price)
			return nil
		})
	} else {
		err = l.lines.Upsert(ctx, owner.UserID(), cart.Line{
			ID:        uuid.New(),
			ProductID: product.ID,
			Options:   options,
			Quantity:  req.Quantity,
			Price:     price,
		})
	}
	if err != nil {
		return l.storageFailure(ctx, span, "add_item", err)
	}

	cacheFrom(ctx).invalidate(owner.String())
	l.metrics.ItemsAdded(ctx, ownerKind(owner), req.Quantity)
	return nil
}

// UpdateQuantity sets the quantity of an existing line. It does nothing
// when the line does not exist.
func (l *Ledger) UpdateQuantity(ctx context.Context, owner cart.Owner, req UpdateItemRequest) error {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "update_quantity")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOwner, ownerKind(owner),
		telemetry.SpanAttrProductID, req.ProductID,
		telemetry.SpanAttrQuantity, req.Quantity,
	)

	if err := l.checkOwner(owner); err != nil {
		return err
	}
	if req.Quantity < 1 {
		return shared.ErrInvalidQuantity
	}
	options := catalog.NewOptionSet(req.OptionIDs...)

	var err error
	if owner.IsGuest() {
		err = l.guests.Update(ctx, owner.Token(), func(c *cart.GuestCart) error {
			if !c.SetQuantity(req.ProductID, options, req.Quantity) {
				return cart.ErrUnchanged
			}
			return nil
		})
	} else {
		err = l.lines.SetQuantity(ctx, owner.UserID(), req.ProductID, options, req.Quantity)
	}
	if err != nil {
		return l.storageFailure(ctx, span, "update_quantity", err)
	}

	cacheFrom(ctx).invalidate(owner.String())
	return nil
}

// RemoveItem deletes a line. It does nothing when the line does not exist.
func (l *Ledger) RemoveItem(ctx context.Context, owner cart.Owner, req RemoveItemRequest) error {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "remove_item")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOwner, ownerKind(owner),
		telemetry.SpanAttrProductID, req.ProductID,
	)

	if err := l.checkOwner(owner); err != nil {
		return err
	}
	options := catalog.NewOptionSet(req.OptionIDs...)

	var err error
	if owner.IsGuest() {
		err = l.guests.Update(ctx, owner.Token(), func(c *cart.GuestCart) error {
			if !c.Remove(req.ProductID, options) {
				return cart.ErrUnchanged
			}
			return nil
		})
	} else {
		err = l.lines.Delete(ctx, owner.UserID(), req.ProductID, options)
	}
	if err != nil {
		return l.storageFailure(ctx, span, "remove_item", err)
	}

	cacheFrom(ctx).invalidate(owner.String())
	return nil
}

// ListItems returns the owner's lines joined with live catalog data.
// Lines whose product is missing, unpublished, or sold by a vendor that is
// not approved are left out. Any failure is logged and yields an empty list.
func (l *Ledger) ListItems(ctx context.Context, owner cart.Owner) (items []ItemView) {
	cache := cacheFrom(ctx)
	if cached, ok := cache.get(owner.String()); ok {
		return cached
	}

	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "list_items")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrOwner, ownerKind(owner))

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic while listing cart: %v", r)
			telemetry.RecordError(span, err)
			l.viewFailure(ctx, owner, err)
			items = []ItemView{}
		}
	}()

	items, err := l.buildItems(ctx, owner)
	if err != nil {
		telemetry.RecordError(span, err)
		l.viewFailure(ctx, owner, err)
		return []ItemView{}
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrLineCount, len(items))
	cache.put(owner.String(), items)
	return items
}

// TotalQuantity sums the quantities of the listed lines
func (l *Ledger) TotalQuantity(ctx context.Context, owner cart.Owner) int {
	total := 0
	for _, item := range l.ListItems(ctx, owner) {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums quantity times price of the listed lines
func (l *Ledger) TotalPrice(ctx context.Context, owner cart.Owner) decimal.Decimal {
	total := decimal.Zero
	for _, item := range l.ListItems(ctx, owner) {
		total = total.Add(item.Subtotal())
	}
	return total
}

// GroupBySeller partitions the listed lines by vendor
func (l *Ledger) GroupBySeller(ctx context.Context, owner cart.Owner) map[uuid.UUID]SellerGroup {
	groups := make(map[uuid.UUID]SellerGroup)
	for _, item := range l.ListItems(ctx, owner) {
		g, ok := groups[item.Vendor.ID]
		if !ok {
			g = SellerGroup{Vendor: item.Vendor, TotalPrice: decimal.Zero}
		}
		g.Items = append(g.Items, item)
		g.TotalQuantity += item.Quantity
		g.TotalPrice = g.TotalPrice.Add(item.Subtotal())
		groups[item.Vendor.ID] = g
	}
	return groups
}

// MergeGuestIntoUser moves every guest line into the user's cart, adding
// quantities to matching lines and taking the guest price. It runs as one
// guest store update: the user lines are written in one transaction and the
// guest cart is emptied in the same read-modify-write, so guest adds racing
// the merge stay in the guest cart. A guest line merged before adds only the
// units it gained since, which makes a retried merge safe.
func (l *Ledger) MergeGuestIntoUser(ctx context.Context, guestToken string, userID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "merge_guest_into_user")
	defer span.End()

	if guestToken == "" || userID == uuid.Nil {
		return shared.ErrInvalidInput
	}
	guest, user := cart.GuestOwner(guestToken), cart.UserOwner(userID)

	var (
		lineCount, merged int
		mergeErr          error
	)
	err := l.guests.Update(ctx, guestToken, func(c *cart.GuestCart) error {
		lines := c.Lines()
		lineCount = len(lines)
		if lineCount == 0 {
			return cart.ErrUnchanged
		}
		n, err := l.lines.MergeGuestLines(ctx, userID, lines)
		if err != nil {
			mergeErr = err
			return err
		}
		merged += n
		c.Reset()
		return nil
	})
	telemetry.SetAttributes(span, telemetry.SpanAttrMergedLine, lineCount)
	if mergeErr != nil {
		return l.storageFailure(ctx, span, "merge.upsert_user", mergeErr)
	}
	if err != nil {
		return l.storageFailure(ctx, span, "merge.guest_store", err)
	}
	if lineCount == 0 {
		return nil
	}

	cacheFrom(ctx).invalidate(guest.String(), user.String())
	l.metrics.LinesMerged(ctx, merged)
	logger.L(ctx).Info("Guest cart merged",
		zap.String("user_id", userID.String()),
		zap.Int("lines", lineCount),
		zap.Int("merged", merged),
	)
	return nil
}

func (l *Ledger) buildItems(ctx context.Context, owner cart.Owner) ([]ItemView, error) {
	lines, err := l.loadLines(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return []ItemView{}, nil
	}

	productIDs := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		productIDs = append(productIDs, line.ProductID)
	}
	products, err := l.catalog.GetProducts(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	vendorIDs := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		vendorIDs = append(vendorIDs, p.VendorID)
	}
	vendors, err := l.catalog.GetVendors(ctx, vendorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load vendors: %w", err)
	}

	items := make([]ItemView, 0, len(lines))
	for _, line := range lines {
		product := products[line.ProductID]
		if product == nil {
			continue
		}
		vendor := vendors[product.VendorID]
		if !catalog.IsListable(product, vendor) {
			continue
		}
		items = append(items, l.view(ctx, line, product, vendor))
	}
	return items, nil
}

func (l *Ledger) view(ctx context.Context, line cart.Line, product *catalog.Product, vendor *catalog.Vendor) ItemView {
	ids := line.Options.IDs()
	if ids == nil {
		ids = []catalog.OptionID{}
	}
	item := ItemView{
		ID:        line.ID,
		ProductID: product.ID,
		Title:     product.Title,
		Slug:      product.Slug,
		Price:     line.Price,
		Quantity:  line.Quantity,
		OptionIDs: ids,
		Options:   make([]OptionView, 0, len(ids)),
		Vendor:    VendorView{ID: vendor.UserID, Name: vendor.StoreName},
	}

	imageKey := ""
	for _, id := range ids {
		vt, opt, ok := product.Option(id)
		if !ok {
			continue
		}
		item.Options = append(item.Options, OptionView{
			ID:   opt.ID,
			Name: opt.Name,
			Type: OptionTypeView{ID: vt.ID, Name: vt.Name},
		})
		if imageKey == "" && opt.ImageKey != "" {
			imageKey = opt.ImageKey
		}
	}
	if imageKey == "" {
		imageKey = product.ImageKey
	}
	if imageKey != "" {
		item.Image = l.catalog.ImageURL(ctx, imageKey, l.imageSize)
	}
	return item
}

func (l *Ledger) loadLines(ctx context.Context, owner cart.Owner) ([]cart.Line, error) {
	if owner.IsGuest() {
		c, err := l.guests.Load(ctx, owner.Token())
		if err != nil {
			return nil, fmt.Errorf("failed to load guest cart: %w", err)
		}
		return c.Lines(), nil
	}
	if owner.IsUser() {
		lines, err := l.lines.FindByUser(ctx, owner.UserID())
		if err != nil {
			return nil, fmt.Errorf("failed to load cart lines: %w", err)
		}
		return lines, nil
	}
	return nil, shared.ErrUnauthorized
}

func (l *Ledger) loadPurchasable(ctx context.Context, productID uuid.UUID) (*catalog.Product, error) {
	product, err := l.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
		}
		return nil, shared.NewStorageError("load_product", err)
	}
	vendors, err := l.catalog.GetVendors(ctx, []uuid.UUID{product.VendorID})
	if err != nil {
		return nil, shared.NewStorageError("load_vendor", err)
	}
	if !catalog.IsListable(product, vendors[product.VendorID]) {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is not available for purchase")
	}
	return product, nil
}

func (l *Ledger) checkOwner(owner cart.Owner) error {
	if owner.IsZero() || (owner.IsGuest() && owner.Token() == "") {
		return shared.ErrUnauthorized
	}
	return nil
}

func (l *Ledger) storageFailure(ctx context.Context, span trace.Span, op string, err error) error {
	err = shared.NewStorageError(op, err)
	telemetry.RecordError(span, err)
	l.metrics.StorageFailed(ctx, op)
	logger.L(ctx).Error("Cart storage operation failed", zap.String("operation", op), zap.Error(err))
	return err
}

func (l *Ledger) viewFailure(ctx context.Context, owner cart.Owner, err error) {
	l.metrics.ViewFailed(ctx, ownerKind(owner))
	logger.L(ctx).Error("Failed to list cart items", zap.String("owner", owner.String()), zap.Error(err))
}

func ownerKind(owner cart.Owner) string {
	switch {
	case owner.IsGuest():
		return "guest"
	case owner.IsUser():
		return "user"
	default:
		return "anonymous"
	}
}
