package inventory

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrInsufficientStock is returned under the RejectNegative policy when
// requested qty exceeds available stock.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrInvalidQuantity is returned when a decrement quantity is not positive.
var ErrInvalidQuantity = errors.New("quantity must be positive")

// Policy controls whether decrements may drive stock below zero.
type Policy int

const (
	// AllowNegative applies decrements unconditionally; stock may go
	// negative (overselling allowed).
	AllowNegative Policy = iota
	// RejectNegative refuses decrements that would leave negative stock.
	RejectNegative
)

// Ledger tracks quantity-on-hand per (product, color, size) and applies
// decrements driven by completed sales. Deleting a sale does not restore
// stock: sales are final.
type Ledger struct {
	store  Storage
	policy Policy
	logger *zap.Logger
}

// NewLedger creates a new Ledger.
func NewLedger(store Storage, policy Policy, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Ledger{
		store:  store,
		policy: policy,
		logger: logger,
	}
}

// Decrement reduces quantity-on-hand for the (product, color, size) key by
// qty. A key with no matching row is a logged no-op, not an error.
func (l *Ledger) Decrement(ctx context.Context, productID, colorID, sizeID string, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	key := Key{ProductID: productID, ColorID: colorID, SizeID: sizeID}

	var (
		matched int64
		err     error
	)
	switch l.policy {
	case RejectNegative:
		// The stock guard lives in the store's conditional statement so
		// concurrent decrements of the same key cannot both pass it.
		matched, err = l.store.DecrementIfAvailable(ctx, key, qty)
	default:
		matched, err = l.store.Decrement(ctx, key, qty)
	}
	if err != nil {
		l.logger.Error("failed to decrement inventory",
			zap.String("product_id", productID), zap.Error(err))
		return err
	}
	if matched == 0 {
		if l.policy == RejectNegative {
			// Distinguish a missing row (no-op) from insufficient stock.
			if _, qerr := l.store.Quantity(ctx, key); !errors.Is(qerr, ErrNotFound) {
				if qerr != nil {
					return qerr
				}
				return ErrInsufficientStock
			}
		}
		l.logger.Warn("no inventory row matched, decrement skipped",
			zap.String("product_id", productID),
			zap.String("color_id", colorID),
			zap.String("size_id", sizeID))
		return nil
	}

	l.logger.Info("inventory decremented",
		zap.String("product_id", productID),
		zap.String("color_id", colorID),
		zap.String("size_id", sizeID),
		zap.Int("quantity", qty))
	return nil
}

// Quantity returns on-hand stock for the key.
func (l *Ledger) Quantity(ctx context.Context, productID, colorID, sizeID string) (int, error) {
	return l.store.Quantity(ctx, Key{ProductID: productID, ColorID: colorID, SizeID: sizeID})
}

// ReplaceForProduct swaps out all inventory rows for a product. Used by
// catalog management when (re)provisioning stock.
func (l *Ledger) ReplaceForProduct(ctx context.Context, productID string, rows []Record) error {
	return l.store.ReplaceForProduct(ctx, productID, rows)
}

// DeleteForProduct removes all inventory rows for a product.
func (l *Ledger) DeleteForProduct(ctx context.Context, productID string) error {
	return l.store.DeleteForProduct(ctx, productID)
}

// ListForProduct returns the product's inventory rows.
func (l *Ledger) ListForProduct(ctx context.Context, productID string) ([]Record, error) {
	return l.store.ListForProduct(ctx, productID)
}
