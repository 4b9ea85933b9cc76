package sales

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"backoffice/internal/catalog"
)

type stubCatalog struct {
	mu            sync.Mutex
	defaultsCalls int
	colorID       string
	sizeID        string
	defaultsErr   error
	missing       map[string]bool
}

func (c *stubCatalog) Defaults(context.Context) (string, string, error) {
	c.mu.Lock()
	c.defaultsCalls++
	c.mu.Unlock()
	if c.defaultsErr != nil {
		return "", "", c.defaultsErr
	}
	return c.colorID, c.sizeID, nil
}

func (c *stubCatalog) ProductExists(_ context.Context, id string) (bool, error) {
	return !c.missing[id], nil
}

type stockCall struct {
	productID, colorID, sizeID string
	qty                        int
}

type stubStock struct {
	mu    sync.Mutex
	calls []stockCall
	err   error
}

func (s *stubStock) Decrement(_ context.Context, productID, colorID, sizeID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.calls = append(s.calls, stockCall{productID, colorID, sizeID, qty})
	return nil
}

func newTestService(t *testing.T, cat *stubCatalog, stock *stubStock) (*Service, *LocalStorage) {
	t.Helper()
	storage := NewLocalStorage(nil)
	return NewService(storage, cat, stock, zaptest.NewLogger(t)), storage
}

func validRequest(items ...LineItemRequest) Request {
	return Request{
		CustomerID: "cust-1",
		TotalPrice: decimal.NewFromFloat(150.00),
		Products:   items,
	}
}

func TestCreateSale_RejectsMissingCustomer(t *testing.T) {
	svc, storage := newTestService(t, &stubCatalog{}, &stubStock{})

	req := validRequest()
	req.CustomerID = ""
	_, err := svc.Create(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, storage.sales)
}

func TestCreateSale_RejectsNonPositiveTotal(t *testing.T) {
	svc, storage := newTestService(t, &stubCatalog{}, &stubStock{})

	for _, total := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		req := validRequest()
		req.TotalPrice = total
		_, err := svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	assert.Empty(t, storage.sales)
}

func TestCreateSale_EmptyItemListNeverQueriesCatalog(t *testing.T) {
	cat := &stubCatalog{}
	svc, _ := newTestService(t, cat, &stubStock{})

	sale, err := svc.Create(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Empty(t, sale.LineItems)
	assert.Equal(t, 0, cat.defaultsCalls, "empty item list must not consult the catalog")
}

func TestCreateSale_NoDefaultsFailsPrecondition(t *testing.T) {
	cat := &stubCatalog{defaultsErr: catalog.ErrNoDefaults}
	svc, storage := newTestService(t, cat, &stubStock{})

	_, err := svc.Create(context.Background(), validRequest(LineItemRequest{ProductID: "prod-1"}))

	assert.ErrorIs(t, err, ErrPreconditionFailed)
	assert.Empty(t, storage.items, "no line items may be written")
	assert.Empty(t, storage.sales, "header is rolled back")
}

func TestCreateSale_SubstitutesDefaultsAndFallbacks(t *testing.T) {
	cat := &stubCatalog{colorID: "color-def", sizeID: "size-def"}
	stock := &stubStock{}
	svc, _ := newTestService(t, cat, stock)

	// The documented example: total 150.00, qty 2 @ 100.00 and qty 1 @
	// 50.00, both omitting color and size.
	sale, err := svc.Create(context.Background(), validRequest(
		LineItemRequest{ProductID: "prod-1", Quantity: 2, TotalPrice: decimal.NewFromFloat(100.00)},
		LineItemRequest{ProductID: "prod-2", TotalPrice: decimal.NewFromFloat(50.00)},
	))

	require.NoError(t, err)
	assert.True(t, sale.TotalPrice.Equal(decimal.NewFromFloat(150.00)))
	require.Len(t, sale.LineItems, 2)
	for _, item := range sale.LineItems {
		assert.Equal(t, "color-def", item.ColorID)
		assert.Equal(t, "size-def", item.SizeID)
	}
	assert.Len(t, stock.calls, 2)
}

func TestCreateSale_DefaultsQuantityAndTotal(t *testing.T) {
	cat := &stubCatalog{colorID: "c1", sizeID: "s1"}
	svc, _ := newTestService(t, cat, &stubStock{})

	sale, err := svc.Create(context.Background(), validRequest(
		LineItemRequest{ProductID: "prod-1"},
	))

	require.NoError(t, err)
	require.Len(t, sale.LineItems, 1)
	assert.Equal(t, 1, sale.LineItems[0].Quantity)
	assert.True(t, sale.LineItems[0].TotalPrice.IsZero())
}

func TestCreateSale_KeepsExplicitColorAndSize(t *testing.T) {
	cat := &stubCatalog{colorID: "color-def", sizeID: "size-def"}
	svc, _ := newTestService(t, cat, &stubStock{})

	sale, err := svc.Create(context.Background(), validRequest(
		LineItemRequest{ProductID: "prod-1", ColorID: "color-9", SizeID: "size-9"},
	))

	require.NoError(t, err)
	require.Len(t, sale.LineItems, 1)
	assert.Equal(t, "color-9", sale.LineItems[0].ColorID)
	assert.Equal(t, "size-9", sale.LineItems[0].SizeID)
}

func TestCreateSale_SkipsItemsWithoutProductID(t *testing.T) {
	cat := &stubCatalog{colorID: "c1", sizeID: "s1"}
	stock := &stubStock{}
	svc, _ := newTestService(t, cat, stock)

	sale, err := svc.Create(context.Background(), validRequest(
		LineItemRequest{ProductID: "prod-1", Quantity: 3},
		LineItemRequest{Quantity: 5}, // no product, skipped
	))

	require.NoError(t, err)
	require.Len(t, sale.LineItems, 1)
	assert.Equal(t, "prod-1", sale.LineItems[0].ProductID)
	require.Len(t, stock.calls, 1)
	assert.Equal(t, 3, stock.calls[0].qty)
}

func TestCreateSale_DecrementsInventoryPerItem(t *testing.T) {
	cat := &stubCatalog{colorID: "c1", sizeID: "s1"}
	stock := &stubStock{}
	svc, _ := newTestService(t, cat, stock)

	_, err := svc.Create(context.Background(), validRequest(
		LineItemRequest{ProductID: "prod-1", Quantity: 2, ColorID: "c2", SizeID: "s2"},
		LineItemRequest{ProductID: "prod-2", Quantity: 4},
	))

	require.NoError(t, err)
	require.Len(t, stock.calls, 2)
	byProduct := map[string]stockCall{}
	for _, call := range stock.calls {
		byProduct[call.productID] = call
	}
	assert.Equal(t, stockCall{"prod-1", "c2", "s2", 2}, byProduct["prod-1"])
	assert.Equal(t, stockCall{"prod-2", "c1", "s1", 4}, byProduct["prod-2"])
}

func TestCreateSale_MissingProductRollsBack(t *testing.T) {
	cat := &stubCatalog{colorID: "c1", sizeID: "s1", missing: map[string]bool{"ghost": true}}
	svc, storage := newTestService(t, cat, &stubStock{})

	_, err := svc.Create(context.Background(), validRequest(
		LineItemRequest{ProductID: "ghost"},
	))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, storage.sales)
	assert.Empty(t, storage.items)
}

// brokenStorage fails compensation deletes, leaving partial state behind.
type brokenStorage struct {
	*LocalStorage
	deleteErr error
}

func (b *brokenStorage) DeleteLineItems(context.Context, string) error { return b.deleteErr }

func TestCreateSale_SurfacesPartialWrite(t *testing.T) {
	cat := &stubCatalog{colorID: "c1", sizeID: "s1"}
	stock := &stubStock{err: errors.New("warehouse down")}
	storage := &brokenStorage{
		LocalStorage: NewLocalStorage(nil),
		deleteErr:    errors.New("store unreachable"),
	}
	svc := NewService(storage, cat, stock, zaptest.NewLogger(t))

	_, err := svc.Create(context.Background(), validRequest(
		LineItemRequest{ProductID: "prod-1"},
	))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPartialWrite)
	var pw *PartialWriteError
	require.ErrorAs(t, err, &pw)
	assert.EqualError(t, pw.Cause, "warehouse down")
	assert.EqualError(t, pw.CompensationErr, "store unreachable")
}

func TestUpdateSale_ReplacesAllLineItems(t *testing.T) {
	cat := &stubCatalog{colorID: "c1", sizeID: "s1"}
	svc, _ := newTestService(t, cat, &stubStock{})

	sale, err := svc.Create(context.Background(), validRequest(
		LineItemRequest{ProductID: "prod-1"},
		LineItemRequest{ProductID: "prod-2"},
	))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), sale.ID, validRequest(
		LineItemRequest{ProductID: "prod-3", Quantity: 7},
	))
	require.NoError(t, err)
	require.Len(t, updated.LineItems, 1)
	assert.Equal(t, "prod-3", updated.LineItems[0].ProductID)
	assert.Equal(t, 7, updated.LineItems[0].Quantity)
}

func TestUpdateSale_EmptyListClearsLineItems(t *testing.T) {
	cat := &stubCatalog{colorID: "c1", sizeID: "s1"}
	svc, _ := newTestService(t, cat, &stubStock{})

	sale, err := svc.Create(context.Background(), validRequest(
		LineItemRequest{ProductID: "prod-1"},
	))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), sale.ID, validRequest())
	require.NoError(t, err)
	assert.Empty(t, updated.LineItems)
}

func TestUpdateSale_ClearsOmittedFieldsKeepsCreatedAt(t *testing.T) {
	svc, _ := newTestService(t, &stubCatalog{}, &stubStock{})

	req := validRequest()
	req.EmployeeID = "emp-1"
	req.CouponCode = "SAVE10"
	sale, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), sale.ID, validRequest())
	require.NoError(t, err)
	assert.Empty(t, updated.EmployeeID, "omitted employee must be cleared")
	assert.Empty(t, updated.CouponCode, "omitted coupon must be cleared")
	assert.True(t, updated.CreatedAt.Equal(sale.CreatedAt), "CreatedAt must survive an update")
}

func TestUpdateSale_UnknownID(t *testing.T) {
	svc, _ := newTestService(t, &stubCatalog{}, &stubStock{})

	_, err := svc.Update(context.Background(), "missing", validRequest())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteSale_CascadesAndReturnsPriorState(t *testing.T) {
	cat := &stubCatalog{colorID: "c1", sizeID: "s1"}
	svc, storage := newTestService(t, cat, &stubStock{})

	sale, err := svc.Create(context.Background(), validRequest(
		LineItemRequest{ProductID: "prod-1"},
	))
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.ID, deleted.ID)
	assert.Len(t, deleted.LineItems, 1)

	assert.Empty(t, storage.items)
	_, err = svc.Get(context.Background(), sale.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListByCustomer_MostRecentFirst(t *testing.T) {
	svc, _ := newTestService(t, &stubCatalog{}, &stubStock{})

	first, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	// Another customer's sale must not appear.
	other := validRequest()
	other.CustomerID = "cust-2"
	_, err = svc.Create(context.Background(), other)
	require.NoError(t, err)

	list, err := svc.ListByCustomer(context.Background(), "cust-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.False(t, list[0].CreatedAt.Before(list[1].CreatedAt))
	ids := []string{list[0].ID, list[1].ID}
	assert.ElementsMatch(t, []string{first.ID, second.ID}, ids)
}
