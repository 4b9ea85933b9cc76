package sales

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// GormStorage implements Storage on a gorm-managed database.
type GormStorage struct {
	db *gorm.DB
}

// NewGormStorage creates a Storage backed by the given gorm DB.
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

func (g *GormStorage) expanded(ctx context.Context) *gorm.DB {
	return g.db.WithContext(ctx).
		Preload("LineItems").
		Preload("LineItems.Product").
		Preload("LineItems.Color").
		Preload("LineItems.Size")
}

func (g *GormStorage) CreateSale(ctx context.Context, sale *Sale) error {
	if sale.ID == "" {
		return ErrEmptyID
	}
	header := *sale
	header.LineItems = nil
	return g.db.WithContext(ctx).Create(&header).Error
}

func (g *GormStorage) UpdateSale(ctx context.Context, sale *Sale) error {
	header := *sale
	header.LineItems = nil
	// Select("*") writes zero-value fields too, matching LocalStorage's
	// full-replace contract; created_at stays untouched.
	res := g.db.WithContext(ctx).Model(&Sale{}).Where("id = ?", sale.ID).
		Select("*").Omit("id", "created_at").Updates(&header)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *GormStorage) DeleteSale(ctx context.Context, id string) error {
	res := g.db.WithContext(ctx).Delete(&Sale{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *GormStorage) GetSale(ctx context.Context, id string) (*Sale, error) {
	var s Sale
	if err := g.expanded(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (g *GormStorage) ListSales(ctx context.Context) ([]*Sale, error) {
	var out []*Sale
	if err := g.expanded(ctx).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (g *GormStorage) ListByCustomer(ctx context.Context, customerID string) ([]*Sale, error) {
	var out []*Sale
	err := g.expanded(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (g *GormStorage) CreateLineItem(ctx context.Context, item *LineItem) error {
	if item.ID == "" {
		return ErrEmptyID
	}
	return g.db.WithContext(ctx).Create(item).Error
}

func (g *GormStorage) ReplaceLineItems(ctx context.Context, saleID string, items []*LineItem) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&LineItem{}, "sale_id = ?", saleID).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for _, item := range items {
			item.SaleID = saleID
		}
		return tx.Create(items).Error
	})
}

func (g *GormStorage) DeleteLineItems(ctx context.Context, saleID string) error {
	return g.db.WithContext(ctx).Delete(&LineItem{}, "sale_id = ?", saleID).Error
}
