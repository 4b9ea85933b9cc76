package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"backoffice/internal/inventory"
)

// ErrNoDefaults is returned when the color or size catalog is empty, so no
// fallback can be resolved for line items that omit one.
var ErrNoDefaults = errors.New("no default color or size available")

// StockProvisioner manages the inventory rows owned by a product.
type StockProvisioner interface {
	ReplaceForProduct(ctx context.Context, productID string, rows []inventory.Record) error
	DeleteForProduct(ctx context.Context, productID string) error
}

// Service provides catalog management on a Storage backend. Product writes
// also provision the product's inventory rows through the StockProvisioner.
type Service struct {
	storage Storage
	stock   StockProvisioner
	logger  *zap.Logger
}

// NewService creates a new catalog Service.
func NewService(storage Storage, stock StockProvisioner, logger *zap.Logger) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Service{
		storage: storage,
		stock:   stock,
		logger:  logger,
	}
}

// StockRow is one requested inventory row for a product.
type StockRow struct {
	ColorID  string `json:"color_id"`
	SizeID   string `json:"size_id"`
	Quantity int    `json:"quantity"`
}

// ProductRequest carries caller-supplied product fields plus optional
// inventory rows.
type ProductRequest struct {
	SKU              string          `json:"sku"`
	Status           string          `json:"status"`
	Name             string          `json:"name"`
	CareInstructions string          `json:"care_instructions"`
	ImageURL         string          `json:"image_url"`
	Description      string          `json:"description"`
	Price            decimal.Decimal `json:"price"`
	Inventory        []StockRow      `json:"inventory"`
}

// CreateProduct persists a product and its initial inventory rows.
func (s *Service) CreateProduct(ctx context.Context, req ProductRequest) (*Product, error) {
	if req.SKU == "" || req.Name == "" {
		return nil, fmt.Errorf("sku and name are required")
	}

	p := &Product{
		ID:               uuid.NewString(),
		SKU:              req.SKU,
		Status:           req.Status,
		Name:             req.Name,
		CareInstructions: req.CareInstructions,
		ImageURL:         req.ImageURL,
		Description:      req.Description,
		Price:            req.Price,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	if err := s.storage.CreateProduct(ctx, p); err != nil {
		s.logger.Error("failed to create product", zap.String("sku", req.SKU), zap.Error(err))
		return nil, err
	}

	if len(req.Inventory) > 0 {
		if err := s.stock.ReplaceForProduct(ctx, p.ID, stockRecords(p.ID, req.Inventory)); err != nil {
			s.logger.Error("failed to provision inventory", zap.String("product_id", p.ID), zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("product created", zap.String("product_id", p.ID), zap.String("sku", p.SKU))
	return p, nil
}

// UpdateProduct updates product fields and, when rows are supplied, replaces
// the product's inventory wholesale.
func (s *Service) UpdateProduct(ctx context.Context, id string, req ProductRequest) (*Product, error) {
	p := &Product{
		ID:               id,
		SKU:              req.SKU,
		Status:           req.Status,
		Name:             req.Name,
		CareInstructions: req.CareInstructions,
		ImageURL:         req.ImageURL,
		Description:      req.Description,
		Price:            req.Price,
		UpdatedAt:        time.Now(),
	}
	if err := s.storage.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}

	if len(req.Inventory) > 0 {
		if err := s.stock.ReplaceForProduct(ctx, id, stockRecords(id, req.Inventory)); err != nil {
			s.logger.Error("failed to replace inventory", zap.String("product_id", id), zap.Error(err))
			return nil, err
		}
	}

	return s.storage.GetProduct(ctx, id)
}

// DeleteProduct removes the product's inventory rows, then the product.
func (s *Service) DeleteProduct(ctx context.Context, id string) (*Product, error) {
	p, err := s.storage.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.stock.DeleteForProduct(ctx, id); err != nil {
		return nil, err
	}
	if err := s.storage.DeleteProduct(ctx, id); err != nil {
		return nil, err
	}
	s.logger.Info("product deleted", zap.String("product_id", id))
	return p, nil
}

// GetProduct retrieves one product by ID.
func (s *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.storage.GetProduct(ctx, id)
}

// ListProducts retrieves all products.
func (s *Service) ListProducts(ctx context.Context) ([]*Product, error) {
	return s.storage.ListProducts(ctx)
}

// ProductExists reports whether a product with the given ID is in the catalog.
func (s *Service) ProductExists(ctx context.Context, id string) (bool, error) {
	_, err := s.storage.GetProduct(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Defaults resolves the process-wide fallback color and size: the first row
// of each catalog by creation order. Returns ErrNoDefaults when either
// catalog is empty.
func (s *Service) Defaults(ctx context.Context) (colorID, sizeID string, err error) {
	color, err := s.storage.FirstColor(ctx)
	if errors.Is(err, ErrNotFound) {
		return "", "", ErrNoDefaults
	}
	if err != nil {
		return "", "", err
	}
	size, err := s.storage.FirstSize(ctx)
	if errors.Is(err, ErrNotFound) {
		return "", "", ErrNoDefaults
	}
	if err != nil {
		return "", "", err
	}
	return color.ID, size.ID, nil
}

// CouponRequest carries caller-supplied coupon fields.
type CouponRequest struct {
	Code      string          `json:"code"`
	Discount  decimal.Decimal `json:"discount"`
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
	Status    string          `json:"status"`
}

// CreateCoupon persists a new coupon.
func (s *Service) CreateCoupon(ctx context.Context, req CouponRequest) (*Coupon, error) {
	if req.Code == "" {
		return nil, fmt.Errorf("coupon code is required")
	}
	c := &Coupon{
		ID:        uuid.NewString(),
		Code:      req.Code,
		Discount:  req.Discount,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    req.Status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.storage.CreateCoupon(ctx, c); err != nil {
		s.logger.Error("failed to create coupon", zap.String("code", req.Code), zap.Error(err))
		return nil, err
	}
	s.logger.Info("coupon created", zap.String("coupon_id", c.ID), zap.String("code", c.Code))
	return c, nil
}

// UpdateCoupon updates coupon fields in place.
func (s *Service) UpdateCoupon(ctx context.Context, id string, req CouponRequest) (*Coupon, error) {
	c := &Coupon{
		ID:        id,
		Code:      req.Code,
		Discount:  req.Discount,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    req.Status,
		UpdatedAt: time.Now(),
	}
	if err := s.storage.UpdateCoupon(ctx, c); err != nil {
		return nil, err
	}
	return s.storage.GetCoupon(ctx, id)
}

// DeleteCoupon removes a coupon and returns it as it existed before deletion.
func (s *Service) DeleteCoupon(ctx context.Context, id string) (*Coupon, error) {
	c, err := s.storage.GetCoupon(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.storage.DeleteCoupon(ctx, id); err != nil {
		return nil, err
	}
	return c, nil
}

// GetCoupon retrieves one coupon by ID.
func (s *Service) GetCoupon(ctx context.Context, id string) (*Coupon, error) {
	return s.storage.GetCoupon(ctx, id)
}

// FindCouponByCode retrieves one coupon by its unique code.
func (s *Service) FindCouponByCode(ctx context.Context, code string) (*Coupon, error) {
	return s.storage.GetCouponByCode(ctx, code)
}

// ListCoupons retrieves all coupons.
func (s *Service) ListCoupons(ctx context.Context) ([]*Coupon, error) {
	return s.storage.ListCoupons(ctx)
}

func stockRecords(productID string, rows []StockRow) []inventory.Record {
	out := make([]inventory.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, inventory.Record{
			ProductID: productID,
			ColorID:   r.ColorID,
			SizeID:    r.SizeID,
			Quantity:  r.Quantity,
		})
	}
	return out
}
