package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"backoffice/internal/catalog"
)

// CatalogDirectory is the catalog view the sale aggregate needs: default
// color/size resolution and product existence checks.
type CatalogDirectory interface {
	Defaults(ctx context.Context) (colorID, sizeID string, err error)
	ProductExists(ctx context.Context, id string) (bool, error)
}

// StockDecrementer applies inventory decrements for sold line items.
type StockDecrementer interface {
	Decrement(ctx context.Context, productID, colorID, sizeID string, qty int) error
}

// Service owns the sale aggregate: creation, replace-all updates, cascading
// deletion and the consistency contract between line items and inventory.
//
// Creation runs as a unit of work. The header, the line items and the
// inventory decrements commit independently; when a step after the header
// commit fails, the already-written rows are deleted again. Only when that
// rollback itself fails does the caller see a PartialWriteError.
type Service struct {
	storage Storage
	catalog CatalogDirectory
	stock   StockDecrementer
	logger  *zap.Logger
}

// NewService creates a new sales Service.
func NewService(storage Storage, cat CatalogDirectory, stock StockDecrementer, logger *zap.Logger) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Service{
		storage: storage,
		catalog: cat,
		stock:   stock,
		logger:  logger,
	}
}

func validate(req Request) error {
	if req.CustomerID == "" {
		return fmt.Errorf("%w: customer id is required", ErrInvalidInput)
	}
	if !req.TotalPrice.IsPositive() {
		return fmt.Errorf("%w: total price must be positive", ErrInvalidInput)
	}
	return nil
}

// buildLineItems turns requests into persistable line items, substituting
// quantity=1, total=0 and the default color/size when unset. Requests
// without a product id are skipped, not fatal.
func (s *Service) buildLineItems(saleID, defaultColor, defaultSize string, reqs []LineItemRequest) []*LineItem {
	now := time.Now()
	items := make([]*LineItem, 0, len(reqs))
	for _, r := range reqs {
		if r.ProductID == "" {
			s.logger.Warn("skipping line item without product id", zap.String("sale_id", saleID))
			continue
		}
		item := &LineItem{
			ID:         uuid.NewString(),
			SaleID:     saleID,
			ProductID:  r.ProductID,
			Quantity:   r.Quantity,
			ColorID:    r.ColorID,
			SizeID:     r.SizeID,
			TotalPrice: r.TotalPrice,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if item.Quantity <= 0 {
			item.Quantity = 1
		}
		if item.ColorID == "" {
			item.ColorID = defaultColor
		}
		if item.SizeID == "" {
			item.SizeID = defaultSize
		}
		items = append(items, item)
	}
	return items
}

func (s *Service) resolveDefaults(ctx context.Context) (string, string, error) {
	colorID, sizeID, err := s.catalog.Defaults(ctx)
	if errors.Is(err, catalog.ErrNoDefaults) {
		return "", "", fmt.Errorf("%w: %w", ErrPreconditionFailed, err)
	}
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return colorID, sizeID, nil
}

// compensate deletes the sale's rows after a failed creation step. On
// success the original cause is returned; if the rollback fails too, the
// caller gets a PartialWriteError naming both.
func (s *Service) compensate(ctx context.Context, saleID string, cause error) error {
	if err := s.storage.DeleteLineItems(ctx, saleID); err != nil {
		return &PartialWriteError{SaleID: saleID, Cause: cause, CompensationErr: err}
	}
	if err := s.storage.DeleteSale(ctx, saleID); err != nil {
		return &PartialWriteError{SaleID: saleID, Cause: cause, CompensationErr: err}
	}
	s.logger.Warn("sale creation rolled back",
		zap.String("sale_id", saleID), zap.Error(cause))
	return cause
}

// Create records a new sale: header first, then line items, then one
// inventory decrement per persisted item. An empty product list is a valid
// terminal state and never consults the color/size catalog.
func (s *Service) Create(ctx context.Context, req Request) (*Sale, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	now := time.Now()
	sale := &Sale{
		ID:         uuid.NewString(),
		CustomerID: req.CustomerID,
		EmployeeID: req.EmployeeID,
		TotalPrice: req.TotalPrice,
		CouponCode: req.CouponCode,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.storage.CreateSale(ctx, sale); err != nil {
		s.logger.Error("failed to create sale header", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if len(req.Products) == 0 {
		s.logger.Info("sale created without line items", zap.String("sale_id", sale.ID))
		return s.storage.GetSale(ctx, sale.ID)
	}

	defaultColor, defaultSize, err := s.resolveDefaults(ctx)
	if err != nil {
		return nil, s.compensate(ctx, sale.ID, err)
	}

	items := s.buildLineItems(sale.ID, defaultColor, defaultSize, req.Products)

	g, gctx := errgroup.WithContext(ctx)
	for _, item := range items {
		item := item
		g.Go(func() error {
			return s.storage.CreateLineItem(gctx, item)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, s.compensate(ctx, sale.ID, fmt.Errorf("%w: %w", ErrPersistence, err))
	}

	// Product existence is only verified here, at the decrement stage; an
	// absent product aborts the whole request and rolls the sale back.
	g, gctx = errgroup.WithContext(ctx)
	for _, item := range items {
		item := item
		g.Go(func() error {
			exists, err := s.catalog.ProductExists(gctx, item.ProductID)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrPersistence, err)
			}
			if !exists {
				return fmt.Errorf("%w: product %s", ErrNotFound, item.ProductID)
			}
			return s.stock.Decrement(gctx, item.ProductID, item.ColorID, item.SizeID, item.Quantity)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, s.compensate(ctx, sale.ID, err)
	}

	s.logger.Info("sale created",
		zap.String("sale_id", sale.ID),
		zap.String("customer_id", sale.CustomerID),
		zap.Int("line_items", len(items)))
	return s.storage.GetSale(ctx, sale.ID)
}

// Update rewrites the sale header and replaces its line items wholesale:
// the prior item set is discarded and the new request's set persisted under
// the same rules as Create. Inventory is not touched on update.
func (s *Service) Update(ctx context.Context, id string, req Request) (*Sale, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	sale := &Sale{
		ID:         id,
		CustomerID: req.CustomerID,
		EmployeeID: req.EmployeeID,
		TotalPrice: req.TotalPrice,
		CouponCode: req.CouponCode,
		UpdatedAt:  time.Now(),
	}
	if err := s.storage.UpdateSale(ctx, sale); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	var items []*LineItem
	if len(req.Products) > 0 {
		defaultColor, defaultSize, err := s.resolveDefaults(ctx)
		if err != nil {
			return nil, err
		}
		items = s.buildLineItems(id, defaultColor, defaultSize, req.Products)
	}
	if err := s.storage.ReplaceLineItems(ctx, id, items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.logger.Info("sale updated",
		zap.String("sale_id", id), zap.Int("line_items", len(items)))
	return s.storage.GetSale(ctx, id)
}

// Delete removes the sale's line items, then the sale, and returns the sale
// as it existed immediately before deletion. Decremented inventory is not
// restored.
func (s *Service) Delete(ctx context.Context, id string) (*Sale, error) {
	sale, err := s.storage.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.storage.DeleteLineItems(ctx, id); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if err := s.storage.DeleteSale(ctx, id); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.logger.Info("sale deleted", zap.String("sale_id", id))
	return sale, nil
}

// Get retrieves one sale with full line-item expansion.
func (s *Service) Get(ctx context.Context, id string) (*Sale, error) {
	return s.storage.GetSale(ctx, id)
}

// List retrieves all sales with full line-item expansion.
func (s *Service) List(ctx context.Context) ([]*Sale, error) {
	return s.storage.ListSales(ctx)
}

// ListByCustomer retrieves a customer's sales, most recent first.
func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]*Sale, error) {
	return s.storage.ListByCustomer(ctx, customerID)
}
