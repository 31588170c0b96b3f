package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	AttrOwnerKind = attribute.Key("owner_kind")
	AttrOperation = attribute.Key("operation")
)

// CartMetrics counts cart activity. A nil *CartMetrics is valid and records nothing.
type CartMetrics struct {
	itemsAdded   metric.Int64Counter
	linesMerged  metric.Int64Counter
	viewFailures metric.Int64Counter
	storageErrs  metric.Int64Counter
}

// NewCartMetrics registers the cart instruments on meter.
func NewCartMetrics(meter metric.Meter) (*CartMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		cm  CartMetrics
		err error
	)
	if cm.itemsAdded, err = meter.Int64Counter("cart_items_added_total",
		metric.WithDescription("Units added to carts"),
		metric.WithUnit("{item}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create cart_items_added_total: %w", err)
	}
	if cm.linesMerged, err = meter.Int64Counter("cart_lines_merged_total",
		metric.WithDescription("Guest cart lines merged into user carts at login"),
		metric.WithUnit("{line}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create cart_lines_merged_total: %w", err)
	}
	if cm.viewFailures, err = meter.Int64Counter("cart_view_failures_total",
		metric.WithDescription("Cart listings that failed and were served empty"),
	); err != nil {
		return nil, fmt.Errorf("failed to create cart_view_failures_total: %w", err)
	}
	if cm.storageErrs, err = meter.Int64Counter("cart_storage_errors_total",
		metric.WithDescription("Cart mutations that failed in the storage layer"),
	); err != nil {
		return nil, fmt.Errorf("failed to create cart_storage_errors_total: %w", err)
	}
	return &cm, nil
}

// ItemsAdded records quantity units added to a cart
func (m *CartMetrics) ItemsAdded(ctx context.Context, ownerKind string, quantity int) {
	if m == nil {
		return
	}
	m.itemsAdded.Add(ctx, int64(quantity), metric.WithAttributes(AttrOwnerKind.String(ownerKind)))
}

// LinesMerged records guest lines moved into a user cart
func (m *CartMetrics) LinesMerged(ctx context.Context, lines int) {
	if m == nil {
		return
	}
	m.linesMerged.Add(ctx, int64(lines))
}

// ViewFailed records a listing served empty because of an internal error
func (m *CartMetrics) ViewFailed(ctx context.Context, ownerKind string) {
	if m == nil {
		return
	}
	m.viewFailures.Add(ctx, 1, metric.WithAttributes(AttrOwnerKind.String(ownerKind)))
}

// StorageFailed records a mutation that failed in the storage layer
func (m *CartMetrics) StorageFailed(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	m.storageErrs.Add(ctx, 1, metric.WithAttributes(AttrOperation.String(operation)))
}
