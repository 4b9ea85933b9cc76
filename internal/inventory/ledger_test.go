package inventory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func seededStore(t *testing.T, qty int) *LocalStorage {
	t.Helper()
	store := NewLocalStorage()
	err := store.ReplaceForProduct(context.Background(), "prod-1", []Record{
		{ColorID: "c1", SizeID: "s1", Quantity: qty},
	})
	require.NoError(t, err)
	return store
}

func TestDecrement_ReducesQuantity(t *testing.T) {
	store := seededStore(t, 10)
	ledger := NewLedger(store, AllowNegative, zaptest.NewLogger(t))

	err := ledger.Decrement(context.Background(), "prod-1", "c1", "s1", 3)

	require.NoError(t, err)
	qty, err := ledger.Quantity(context.Background(), "prod-1", "c1", "s1")
	require.NoError(t, err)
	assert.Equal(t, 7, qty)
}

func TestDecrement_UnmatchedKeyIsNoOp(t *testing.T) {
	store := seededStore(t, 10)
	ledger := NewLedger(store, AllowNegative, zaptest.NewLogger(t))

	err := ledger.Decrement(context.Background(), "prod-1", "c1", "s2", 3)

	require.NoError(t, err, "unmatched key completes without error")
	qty, err := ledger.Quantity(context.Background(), "prod-1", "c1", "s1")
	require.NoError(t, err)
	assert.Equal(t, 10, qty, "existing stock is untouched")
}

func TestDecrement_AllowNegativePolicy(t *testing.T) {
	store := seededStore(t, 2)
	ledger := NewLedger(store, AllowNegative, zaptest.NewLogger(t))

	err := ledger.Decrement(context.Background(), "prod-1", "c1", "s1", 5)

	require.NoError(t, err)
	qty, err := ledger.Quantity(context.Background(), "prod-1", "c1", "s1")
	require.NoError(t, err)
	assert.Equal(t, -3, qty, "overselling allowed under the allow policy")
}

func TestDecrement_RejectNegativePolicy(t *testing.T) {
	store := seededStore(t, 2)
	ledger := NewLedger(store, RejectNegative, zaptest.NewLogger(t))

	err := ledger.Decrement(context.Background(), "prod-1", "c1", "s1", 5)

	assert.ErrorIs(t, err, ErrInsufficientStock)
	qty, qerr := ledger.Quantity(context.Background(), "prod-1", "c1", "s1")
	require.NoError(t, qerr)
	assert.Equal(t, 2, qty, "stock unchanged on rejection")
}

func TestDecrement_RejectPolicyConcurrentNeverOversells(t *testing.T) {
	store := seededStore(t, 5)
	ledger := NewLedger(store, RejectNegative, zaptest.NewLogger(t))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		rejected int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := ledger.Decrement(context.Background(), "prod-1", "c1", "s1", 1)
			if err != nil {
				mu.Lock()
				rejected++
				mu.Unlock()
				assert.ErrorIs(t, err, ErrInsufficientStock)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 15, rejected, "exactly the stock on hand may be sold")
	qty, err := ledger.Quantity(context.Background(), "prod-1", "c1", "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, qty, "stock never goes negative under the reject policy")
}

func TestDecrement_RejectPolicyUnmatchedKeyIsStillNoOp(t *testing.T) {
	ledger := NewLedger(NewLocalStorage(), RejectNegative, zaptest.NewLogger(t))

	err := ledger.Decrement(context.Background(), "prod-1", "c1", "s1", 1)

	assert.NoError(t, err)
}

func TestDecrement_RejectsNonPositiveQuantity(t *testing.T) {
	ledger := NewLedger(NewLocalStorage(), AllowNegative, zaptest.NewLogger(t))

	assert.ErrorIs(t, ledger.Decrement(context.Background(), "p", "c", "s", 0), ErrInvalidQuantity)
	assert.ErrorIs(t, ledger.Decrement(context.Background(), "p", "c", "s", -1), ErrInvalidQuantity)
}

func TestReplaceForProduct_SwapsRows(t *testing.T) {
	store := seededStore(t, 10)
	ledger := NewLedger(store, AllowNegative, zaptest.NewLogger(t))

	err := ledger.ReplaceForProduct(context.Background(), "prod-1", []Record{
		{ColorID: "c2", SizeID: "s2", Quantity: 4},
	})
	require.NoError(t, err)

	_, err = ledger.Quantity(context.Background(), "prod-1", "c1", "s1")
	assert.ErrorIs(t, err, ErrNotFound)

	rows, err := ledger.ListForProduct(context.Background(), "prod-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 4, rows[0].Quantity)
}

func TestDeleteForProduct_RemovesAllRows(t *testing.T) {
	store := seededStore(t, 10)
	ledger := NewLedger(store, AllowNegative, zaptest.NewLogger(t))

	require.NoError(t, ledger.DeleteForProduct(context.Background(), "prod-1"))

	rows, err := ledger.ListForProduct(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
