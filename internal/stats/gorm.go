package stats

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"backoffice/internal/catalog"
	"backoffice/internal/inventory"
	"backoffice/internal/sales"
)

// GormSource implements Source with SQL aggregates.
type GormSource struct {
	db *gorm.DB
}

// NewGormSource creates a Source backed by the given gorm DB.
func NewGormSource(db *gorm.DB) *GormSource {
	return &GormSource{db: db}
}

func applyCreated(q *gorm.DB, column string, created Period) *gorm.DB {
	if created.From != nil {
		q = q.Where(column+" >= ?", *created.From)
	}
	if created.To != nil {
		q = q.Where(column+" < ?", *created.To)
	}
	return q
}

func (g *GormSource) CountSales(ctx context.Context, created Period) (int64, error) {
	var n int64
	q := g.db.WithContext(ctx).Model(&sales.Sale{})
	err := applyCreated(q, "created_at", created).Count(&n).Error
	return n, err
}

func (g *GormSource) SumSaleTotals(ctx context.Context, created Period) (decimal.Decimal, error) {
	var sum decimal.Decimal
	q := g.db.WithContext(ctx).Model(&sales.Sale{}).
		Select("COALESCE(SUM(total_price), 0)")
	err := applyCreated(q, "created_at", created).Scan(&sum).Error
	return sum, err
}

func (g *GormSource) SumQuantitiesSold(ctx context.Context, created Period) (int64, error) {
	var sum int64
	q := g.db.WithContext(ctx).Model(&sales.LineItem{}).
		Select("COALESCE(SUM(line_items.quantity), 0)").
		Joins("JOIN sales ON sales.id = line_items.sale_id")
	err := applyCreated(q, "sales.created_at", created).Scan(&sum).Error
	return sum, err
}

func (g *GormSource) AvgSaleTotal(ctx context.Context, created Period) (decimal.Decimal, error) {
	var avg decimal.Decimal
	q := g.db.WithContext(ctx).Model(&sales.Sale{}).
		Select("COALESCE(AVG(total_price), 0)")
	err := applyCreated(q, "created_at", created).Scan(&avg).Error
	return avg, err
}

func (g *GormSource) SumCouponRevenue(ctx context.Context, created Period) (decimal.Decimal, error) {
	var sum decimal.Decimal
	q := g.db.WithContext(ctx).Model(&sales.Sale{}).
		Select("COALESCE(SUM(total_price), 0)").
		Where("coupon_code <> ''")
	err := applyCreated(q, "created_at", created).Scan(&sum).Error
	return sum, err
}

func (g *GormSource) CountCoupons(ctx context.Context, f CouponFilter) (int64, error) {
	var n int64
	q := g.db.WithContext(ctx).Model(&catalog.Coupon{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ActiveUntil != nil {
		q = q.Where("end_date >= ?", *f.ActiveUntil)
	}
	err := applyCreated(q, "created_at", f.Created).Count(&n).Error
	return n, err
}

func (g *GormSource) CountProducts(ctx context.Context, f ProductFilter) (int64, error) {
	var n int64
	q := g.db.WithContext(ctx).Model(&catalog.Product{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	err := applyCreated(q, "created_at", f.Created).Count(&n).Error
	return n, err
}

func (g *GormSource) CountProductsNoStock(ctx context.Context, created Period) (int64, error) {
	var n int64
	sub := g.db.Model(&inventory.Record{}).
		Select("1").
		Where("inventory_records.product_id = products.id AND inventory_records.quantity > 0")
	q := g.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("NOT EXISTS (?)", sub)
	err := applyCreated(q, "created_at", created).Count(&n).Error
	return n, err
}
