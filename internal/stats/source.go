package stats

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Period is a half-open creation-time window: From inclusive, To exclusive.
// A nil bound leaves that side open.
type Period struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	if p.From != nil && t.Before(*p.From) {
		return false
	}
	if p.To != nil && !t.Before(*p.To) {
		return false
	}
	return true
}

// CouponFilter selects coupons for counting.
type CouponFilter struct {
	// Status, when non-empty, matches the coupon status exactly.
	Status string
	// ActiveUntil, when set, requires the coupon's end date to be at or
	// after this instant.
	ActiveUntil *time.Time
	Created     Period
}

// ProductFilter selects products for counting.
type ProductFilter struct {
	Status  string
	Created Period
}

// Source provides the aggregate queries the statistics engine runs. All
// sale-related aggregates filter on the sale's creation time.
type Source interface {
	CountSales(ctx context.Context, created Period) (int64, error)
	SumSaleTotals(ctx context.Context, created Period) (decimal.Decimal, error)
	// SumQuantitiesSold sums line-item quantities across sales created in
	// the period.
	SumQuantitiesSold(ctx context.Context, created Period) (int64, error)
	AvgSaleTotal(ctx context.Context, created Period) (decimal.Decimal, error)
	// SumCouponRevenue sums totals of sales that carried a coupon code.
	SumCouponRevenue(ctx context.Context, created Period) (decimal.Decimal, error)

	CountCoupons(ctx context.Context, f CouponFilter) (int64, error)

	CountProducts(ctx context.Context, f ProductFilter) (int64, error)
	// CountProductsNoStock counts products (creation-filtered) whose
	// inventory has no row with positive quantity.
	CountProductsNoStock(ctx context.Context, created Period) (int64, error)
}
