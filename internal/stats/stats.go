package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Kind selects the entity family a monthly report covers.
type Kind string

const (
	KindCoupons  Kind = "coupons"
	KindProducts Kind = "products"
	KindSales    Kind = "sales"
)

// ParseKind validates a caller-supplied kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindCoupons, KindProducts, KindSales:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown stats kind %q", s)
}

// Stat is one current-vs-prior-calendar-month comparison metric.
type Stat struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Change string `json:"change"`
}

// Report is the outcome of one monthly computation. When an underlying
// query fails the report degrades to zeroed stats instead of propagating
// the failure; Degraded and Cause record that the fallback fired.
type Report struct {
	Stats    []Stat
	Degraded bool
	Cause    error
}

// Engine computes period-over-period monthly statistics, read-only, against
// a Source. The eight aggregates per entity kind run concurrently.
type Engine struct {
	source Source
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine creates a new statistics Engine.
func NewEngine(source Source, logger *zap.Logger) *Engine {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Engine{
		source: source,
		logger: logger,
		now:    time.Now,
	}
}

// ComputeMonthly builds the four fixed metrics for the entity kind,
// comparing the current calendar month against the previous one. Failures
// never propagate: the report degrades to zeros with the cause retained.
func (e *Engine) ComputeMonthly(ctx context.Context, kind Kind) Report {
	now := e.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevMonthStart := monthStart.AddDate(0, -1, 0)

	var (
		stats []Stat
		err   error
	)
	switch kind {
	case KindSales:
		stats, err = e.salesStats(ctx, monthStart, prevMonthStart)
	case KindCoupons:
		stats, err = e.couponStats(ctx, now, monthStart, prevMonthStart)
	case KindProducts:
		stats, err = e.productStats(ctx, monthStart, prevMonthStart)
	default:
		err = fmt.Errorf("unknown stats kind %q", kind)
	}
	if err != nil {
		e.logger.Error("monthly stats degraded to zeros",
			zap.String("kind", string(kind)), zap.Error(err))
		return Report{Stats: zeroStats(kind), Degraded: true, Cause: err}
	}
	return Report{Stats: stats}
}

func (e *Engine) salesStats(ctx context.Context, monthStart, prevMonthStart time.Time) ([]Stat, error) {
	current := Period{From: &monthStart}
	previous := Period{From: &prevMonthStart, To: &monthStart}

	var (
		count, prevCount     int64
		sold, prevSold       int64
		revenue, prevRevenue decimal.Decimal
		avg, prevAvg         decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { count, err = e.source.CountSales(gctx, current); return })
	g.Go(func() (err error) { revenue, err = e.source.SumSaleTotals(gctx, current); return })
	g.Go(func() (err error) { sold, err = e.source.SumQuantitiesSold(gctx, current); return })
	g.Go(func() (err error) { avg, err = e.source.AvgSaleTotal(gctx, current); return })
	g.Go(func() (err error) { prevCount, err = e.source.CountSales(gctx, previous); return })
	g.Go(func() (err error) { prevRevenue, err = e.source.SumSaleTotals(gctx, previous); return })
	g.Go(func() (err error) { prevSold, err = e.source.SumQuantitiesSold(gctx, previous); return })
	g.Go(func() (err error) { prevAvg, err = e.source.AvgSaleTotal(gctx, previous); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return []Stat{
		{Label: "Total sales", Value: formatCount(count), Change: changePercent(float64(count), float64(prevCount))},
		{Label: "Total revenue", Value: formatMoney(revenue), Change: changePercent(revenue.InexactFloat64(), prevRevenue.InexactFloat64())},
		{Label: "Products sold", Value: formatCount(sold), Change: changePercent(float64(sold), float64(prevSold))},
		{Label: "Average ticket", Value: formatMoney(avg), Change: changePercent(avg.InexactFloat64(), prevAvg.InexactFloat64())},
	}, nil
}

func (e *Engine) couponStats(ctx context.Context, now, monthStart, prevMonthStart time.Time) ([]Stat, error) {
	currentMonth := Period{From: &monthStart}
	previousMonth := Period{From: &prevMonthStart, To: &monthStart}
	beforeMonth := Period{To: &monthStart}

	var (
		total, prevTotal     int64
		active, prevActive   int64
		created, prevCreated int64
		applied, prevApplied decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { total, err = e.source.CountCoupons(gctx, CouponFilter{}); return })
	g.Go(func() (err error) {
		active, err = e.source.CountCoupons(gctx, CouponFilter{Status: "active", ActiveUntil: &now})
		return
	})
	g.Go(func() (err error) { created, err = e.source.CountCoupons(gctx, CouponFilter{Created: currentMonth}); return })
	g.Go(func() (err error) { applied, err = e.source.SumCouponRevenue(gctx, currentMonth); return })
	g.Go(func() (err error) { prevTotal, err = e.source.CountCoupons(gctx, CouponFilter{Created: beforeMonth}); return })
	g.Go(func() (err error) {
		prevActive, err = e.source.CountCoupons(gctx, CouponFilter{Status: "active", ActiveUntil: &monthStart, Created: beforeMonth})
		return
	})
	g.Go(func() (err error) { prevCreated, err = e.source.CountCoupons(gctx, CouponFilter{Created: previousMonth}); return })
	g.Go(func() (err error) { prevApplied, err = e.source.SumCouponRevenue(gctx, previousMonth); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return []Stat{
		{Label: "Total coupons", Value: formatCount(total), Change: changePercent(float64(total), float64(prevTotal))},
		{Label: "Active coupons", Value: formatCount(active), Change: changePercent(float64(active), float64(prevActive))},
		{Label: "New coupons", Value: formatCount(created), Change: changePercent(float64(created), float64(prevCreated))},
		{Label: "Discounts applied", Value: formatMoney(applied), Change: changePercent(applied.InexactFloat64(), prevApplied.InexactFloat64())},
	}, nil
}

func (e *Engine) productStats(ctx context.Context, monthStart, prevMonthStart time.Time) ([]Stat, error) {
	currentMonth := Period{From: &monthStart}
	previousMonth := Period{From: &prevMonthStart, To: &monthStart}
	beforeMonth := Period{To: &monthStart}

	var (
		total, prevTotal     int64
		active, prevActive   int64
		created, prevCreated int64
		noStock, prevNoStock int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { total, err = e.source.CountProducts(gctx, ProductFilter{}); return })
	g.Go(func() (err error) { active, err = e.source.CountProducts(gctx, ProductFilter{Status: "active"}); return })
	g.Go(func() (err error) { created, err = e.source.CountProducts(gctx, ProductFilter{Created: currentMonth}); return })
	g.Go(func() (err error) { noStock, err = e.source.CountProductsNoStock(gctx, Period{}); return })
	g.Go(func() (err error) { prevTotal, err = e.source.CountProducts(gctx, ProductFilter{Created: beforeMonth}); return })
	g.Go(func() (err error) {
		prevActive, err = e.source.CountProducts(gctx, ProductFilter{Status: "active", Created: beforeMonth})
		return
	})
	g.Go(func() (err error) { prevCreated, err = e.source.CountProducts(gctx, ProductFilter{Created: previousMonth}); return })
	g.Go(func() (err error) { prevNoStock, err = e.source.CountProductsNoStock(gctx, beforeMonth); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return []Stat{
		{Label: "Total products", Value: formatCount(total), Change: changePercent(float64(total), float64(prevTotal))},
		{Label: "Active products", Value: formatCount(active), Change: changePercent(float64(active), float64(prevActive))},
		{Label: "New products", Value: formatCount(created), Change: changePercent(float64(created), float64(prevCreated))},
		{Label: "Out of stock", Value: formatCount(noStock), Change: changePercent(float64(noStock), float64(prevNoStock))},
	}, nil
}

// changePercent formats the period-over-period delta. A zero previous value
// yields "+100%" when the current one is positive, "0%" otherwise.
func changePercent(current, previous float64) string {
	if previous == 0 {
		if current > 0 {
			return "+100%"
		}
		return "0%"
	}
	change := (current - previous) / previous * 100
	sign := ""
	if change >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.1f%%", sign, change)
}

func formatCount(n int64) string {
	return fmt.Sprintf("%d", n)
}

func formatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func zeroStats(kind Kind) []Stat {
	var labels [4]string
	var money [4]bool
	switch kind {
	case KindSales:
		labels = [4]string{"Total sales", "Total revenue", "Products sold", "Average ticket"}
		money = [4]bool{false, true, false, true}
	case KindCoupons:
		labels = [4]string{"Total coupons", "Active coupons", "New coupons", "Discounts applied"}
		money = [4]bool{false, false, false, true}
	case KindProducts:
		labels = [4]string{"Total products", "Active products", "New products", "Out of stock"}
	default:
		return nil
	}
	out := make([]Stat, 0, len(labels))
	for i, label := range labels {
		value := "0"
		if money[i] {
			value = "$0.00"
		}
		out = append(out, Stat{Label: label, Value: value, Change: "0%"})
	}
	return out
}
