package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"backoffice/internal/inventory"
)

func newTestService(t *testing.T) (*Service, *LocalStorage, *inventory.Ledger) {
	t.Helper()
	storage := NewLocalStorage()
	ledger := inventory.NewLedger(inventory.NewLocalStorage(), inventory.AllowNegative, zaptest.NewLogger(t))
	return NewService(storage, ledger, zaptest.NewLogger(t)), storage, ledger
}

func TestDefaults_FirstByCreationOrder(t *testing.T) {
	svc, storage, _ := newTestService(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, storage.CreateColor(context.Background(), &Color{ID: "c-new", Name: "red", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, storage.CreateColor(context.Background(), &Color{ID: "c-old", Name: "black", CreatedAt: base}))
	require.NoError(t, storage.CreateSize(context.Background(), &Size{ID: "s-new", Name: "L", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, storage.CreateSize(context.Background(), &Size{ID: "s-old", Name: "M", CreatedAt: base}))

	colorID, sizeID, err := svc.Defaults(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "c-old", colorID)
	assert.Equal(t, "s-old", sizeID)
}

func TestDefaults_EmptyCatalog(t *testing.T) {
	svc, storage, _ := newTestService(t)

	_, _, err := svc.Defaults(context.Background())
	assert.ErrorIs(t, err, ErrNoDefaults)

	// A color alone is not enough; both catalogs must be non-empty.
	require.NoError(t, storage.CreateColor(context.Background(), &Color{ID: "c1", Name: "red"}))
	_, _, err = svc.Defaults(context.Background())
	assert.ErrorIs(t, err, ErrNoDefaults)
}

func TestCreateProduct_ProvisionsInventory(t *testing.T) {
	svc, _, ledger := newTestService(t)

	p, err := svc.CreateProduct(context.Background(), ProductRequest{
		SKU:    "TS-001",
		Name:   "basic tee",
		Status: "active",
		Price:  decimal.NewFromFloat(19.90),
		Inventory: []StockRow{
			{ColorID: "c1", SizeID: "s1", Quantity: 10},
			{ColorID: "c1", SizeID: "s2", Quantity: 5},
		},
	})

	require.NoError(t, err)
	require.NotEmpty(t, p.ID)

	qty, err := ledger.Quantity(context.Background(), p.ID, "c1", "s1")
	require.NoError(t, err)
	assert.Equal(t, 10, qty)
	qty, err = ledger.Quantity(context.Background(), p.ID, "c1", "s2")
	require.NoError(t, err)
	assert.Equal(t, 5, qty)
}

func TestCreateProduct_RequiresSKUAndName(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateProduct(context.Background(), ProductRequest{Name: "no sku"})
	assert.Error(t, err)
	_, err = svc.CreateProduct(context.Background(), ProductRequest{SKU: "no-name"})
	assert.Error(t, err)
}

func TestUpdateProduct_ReplacesInventoryWhenSupplied(t *testing.T) {
	svc, _, ledger := newTestService(t)

	p, err := svc.CreateProduct(context.Background(), ProductRequest{
		SKU: "TS-001", Name: "basic tee",
		Inventory: []StockRow{{ColorID: "c1", SizeID: "s1", Quantity: 10}},
	})
	require.NoError(t, err)

	// Update without rows keeps existing stock.
	_, err = svc.UpdateProduct(context.Background(), p.ID, ProductRequest{SKU: "TS-001", Name: "renamed tee"})
	require.NoError(t, err)
	qty, err := ledger.Quantity(context.Background(), p.ID, "c1", "s1")
	require.NoError(t, err)
	assert.Equal(t, 10, qty)

	// Update with rows replaces the whole set.
	_, err = svc.UpdateProduct(context.Background(), p.ID, ProductRequest{
		SKU: "TS-001", Name: "renamed tee",
		Inventory: []StockRow{{ColorID: "c2", SizeID: "s1", Quantity: 3}},
	})
	require.NoError(t, err)
	_, err = ledger.Quantity(context.Background(), p.ID, "c1", "s1")
	assert.ErrorIs(t, err, inventory.ErrNotFound)
	qty, err = ledger.Quantity(context.Background(), p.ID, "c2", "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, qty)
}

func TestDeleteProduct_RemovesInventoryFirst(t *testing.T) {
	svc, _, ledger := newTestService(t)

	p, err := svc.CreateProduct(context.Background(), ProductRequest{
		SKU: "TS-001", Name: "basic tee",
		Inventory: []StockRow{{ColorID: "c1", SizeID: "s1", Quantity: 10}},
	})
	require.NoError(t, err)

	deleted, err := svc.DeleteProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, deleted.ID)

	_, err = svc.GetProduct(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	rows, err := ledger.ListForProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestProductExists(t *testing.T) {
	svc, _, _ := newTestService(t)

	p, err := svc.CreateProduct(context.Background(), ProductRequest{SKU: "TS-001", Name: "basic tee"})
	require.NoError(t, err)

	ok, err := svc.ProductExists(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.ProductExists(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdate_PreservesCreatedAt(t *testing.T) {
	svc, storage, _ := newTestService(t)
	created := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, storage.CreateCoupon(context.Background(), &Coupon{
		ID: "cp1", Code: "SAVE10", Status: "active", CreatedAt: created,
	}))
	require.NoError(t, storage.CreateProduct(context.Background(), &Product{
		ID: "p1", SKU: "TS-001", Name: "basic tee", CreatedAt: created,
	}))

	_, err := svc.UpdateCoupon(context.Background(), "cp1", CouponRequest{Code: "SAVE10", Status: "inactive"})
	require.NoError(t, err)
	c, err := storage.GetCoupon(context.Background(), "cp1")
	require.NoError(t, err)
	assert.True(t, c.CreatedAt.Equal(created), "coupon CreatedAt must survive an update")

	_, err = svc.UpdateProduct(context.Background(), "p1", ProductRequest{SKU: "TS-001", Name: "renamed tee"})
	require.NoError(t, err)
	p, err := storage.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, p.CreatedAt.Equal(created), "product CreatedAt must survive an update")
}

func TestCouponLifecycle(t *testing.T) {
	svc, _, _ := newTestService(t)

	c, err := svc.CreateCoupon(context.Background(), CouponRequest{
		Code:     "SAVE10",
		Discount: decimal.NewFromInt(10),
		Status:   "active",
		EndDate:  time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	byCode, err := svc.FindCouponByCode(context.Background(), "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, c.ID, byCode.ID)

	updated, err := svc.UpdateCoupon(context.Background(), c.ID, CouponRequest{
		Code: "SAVE10", Status: "inactive",
	})
	require.NoError(t, err)
	assert.Equal(t, "inactive", updated.Status)

	deleted, err := svc.DeleteCoupon(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, deleted.ID)

	_, err = svc.GetCoupon(context.Background(), c.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CreateCoupon(context.Background(), CouponRequest{})
	assert.Error(t, err, "code is required")
}
