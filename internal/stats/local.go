package stats

import (
	"context"

	"github.com/shopspring/decimal"

	"backoffice/internal/catalog"
	"backoffice/internal/inventory"
	"backoffice/internal/sales"
)

// LocalSource computes aggregates by scanning the in-memory stores. It is
// the Source used when the service runs without a database.
type LocalSource struct {
	sales     sales.Storage
	catalog   catalog.Storage
	inventory *inventory.LocalStorage
}

// NewLocalSource creates a Source over in-memory storage.
func NewLocalSource(s sales.Storage, c catalog.Storage, inv *inventory.LocalStorage) *LocalSource {
	return &LocalSource{sales: s, catalog: c, inventory: inv}
}

func (l *LocalSource) salesIn(ctx context.Context, created Period) ([]*sales.Sale, error) {
	all, err := l.sales.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, s := range all {
		if created.Contains(s.CreatedAt) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (l *LocalSource) CountSales(ctx context.Context, created Period) (int64, error) {
	matched, err := l.salesIn(ctx, created)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

func (l *LocalSource) SumSaleTotals(ctx context.Context, created Period) (decimal.Decimal, error) {
	matched, err := l.salesIn(ctx, created)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, s := range matched {
		sum = sum.Add(s.TotalPrice)
	}
	return sum, nil
}

func (l *LocalSource) SumQuantitiesSold(ctx context.Context, created Period) (int64, error) {
	matched, err := l.salesIn(ctx, created)
	if err != nil {
		return 0, err
	}
	var sum int64
	for _, s := range matched {
		for _, item := range s.LineItems {
			sum += int64(item.Quantity)
		}
	}
	return sum, nil
}

func (l *LocalSource) AvgSaleTotal(ctx context.Context, created Period) (decimal.Decimal, error) {
	matched, err := l.salesIn(ctx, created)
	if err != nil {
		return decimal.Zero, err
	}
	if len(matched) == 0 {
		return decimal.Zero, nil
	}
	sum := decimal.Zero
	for _, s := range matched {
		sum = sum.Add(s.TotalPrice)
	}
	return sum.Div(decimal.NewFromInt(int64(len(matched)))), nil
}

func (l *LocalSource) SumCouponRevenue(ctx context.Context, created Period) (decimal.Decimal, error) {
	matched, err := l.salesIn(ctx, created)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, s := range matched {
		if s.CouponCode != "" {
			sum = sum.Add(s.TotalPrice)
		}
	}
	return sum, nil
}

func (l *LocalSource) CountCoupons(ctx context.Context, f CouponFilter) (int64, error) {
	all, err := l.catalog.ListCoupons(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	for _, c := range all {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.ActiveUntil != nil && c.EndDate.Before(*f.ActiveUntil) {
			continue
		}
		if !f.Created.Contains(c.CreatedAt) {
			continue
		}
		n++
	}
	return n, nil
}

func (l *LocalSource) CountProducts(ctx context.Context, f ProductFilter) (int64, error) {
	all, err := l.catalog.ListProducts(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	for _, p := range all {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if !f.Created.Contains(p.CreatedAt) {
			continue
		}
		n++
	}
	return n, nil
}

func (l *LocalSource) CountProductsNoStock(ctx context.Context, created Period) (int64, error) {
	all, err := l.catalog.ListProducts(ctx)
	if err != nil {
		return 0, err
	}
	stocked := map[string]bool{}
	for _, r := range l.inventory.Snapshot() {
		if r.Quantity > 0 {
			stocked[r.ProductID] = true
		}
	}
	var n int64
	for _, p := range all {
		if !created.Contains(p.CreatedAt) {
			continue
		}
		if !stocked[p.ID] {
			n++
		}
	}
	return n, nil
}
