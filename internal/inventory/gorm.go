package inventory

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

func (g *GormStorage) Decrement(ctx context.Context, key Key, qty int) (int64, error) {
	res := g.db.WithContext(ctx).Model(&Record{}).
		Where("product_id = ? AND color_id = ? AND size_id = ?", key.ProductID, key.ColorID, key.SizeID).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	return res.RowsAffected, res.Error
}

func (g *GormStorage) DecrementIfAvailable(ctx context.Context, key Key, qty int) (int64, error) {
	res := g.db.WithContext(ctx).Model(&Record{}).
		Where("product_id = ? AND color_id = ? AND size_id = ? AND quantity >= ?",
			key.ProductID, key.ColorID, key.SizeID, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	return res.RowsAffected, res.Error
}

func (g *GormStorage) Quantity(ctx context.Context, key Key) (int, error) {
	var r Record
	err := g.db.WithContext(ctx).
		First(&r, "product_id = ? AND color_id = ? AND size_id = ?", key.ProductID, key.ColorID, key.SizeID).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return r.Quantity, nil
}

func (g *GormStorage) ReplaceForProduct(ctx context.Context, productID string, rows []Record) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&Record{}, "product_id = ?", productID).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].ProductID = productID
		}
		return tx.Create(&rows).Error
	})
}

func (g *GormStorage) DeleteForProduct(ctx context.Context, productID string) error {
	return g.db.WithContext(ctx).Delete(&Record{}, "product_id = ?", productID).Error
}

func (g *GormStorage) ListForProduct(ctx context.Context, productID string) ([]Record, error) {
	var out []Record
	if err := g.db.WithContext(ctx).Find(&out, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	return out, nil
}
