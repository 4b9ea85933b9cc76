package inventory

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when no inventory row matches a key.
var ErrNotFound = errors.New("inventory record not found")

// Record is quantity-on-hand for one (product, color, size) combination.
// Rows are provisioned by stock management and only decremented by sales.
type Record struct {
	ProductID string    `json:"product_id" gorm:"primaryKey;size:36"`
	ColorID   string    `json:"color_id" gorm:"primaryKey;size:36"`
	SizeID    string    `json:"size_id" gorm:"primaryKey;size:36"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the gorm default ("records").
func (Record) TableName() string { return "inventory_records" }

// Key identifies one inventory row.
type Key struct {
	ProductID string
	ColorID   string
	SizeID    string
}

// Storage is the persistence interface for inventory rows.
type Storage interface {
	// Decrement reduces quantity-on-hand for all rows matching the key and
	// reports how many rows matched. Zero matches is not an error.
	Decrement(ctx context.Context, key Key, qty int) (int64, error)
	// DecrementIfAvailable reduces quantity-on-hand only when at least qty
	// is on hand, as a single conditional statement so concurrent callers
	// cannot both pass the guard. Zero matches means the row is absent or
	// stock is insufficient.
	DecrementIfAvailable(ctx context.Context, key Key, qty int) (int64, error)
	// Quantity returns on-hand stock for the key, ErrNotFound if absent.
	Quantity(ctx context.Context, key Key) (int, error)
	ReplaceForProduct(ctx context.Context, productID string, rows []Record) error
	DeleteForProduct(ctx context.Context, productID string) error
	ListForProduct(ctx context.Context, productID string) ([]Record, error)
}

// LocalStorage provides an in-memory implementation of Storage.
type LocalStorage struct {
	mu   sync.RWMutex
	rows map[Key]*Record
}

// NewLocalStorage instantiates a new LocalStorage with no rows.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{rows: map[Key]*Record{}}
}

func (l *LocalStorage) Decrement(_ context.Context, key Key, qty int) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.rows[key]
	if !ok {
		return 0, nil
	}
	r.Quantity -= qty
	r.UpdatedAt = time.Now()
	return 1, nil
}

func (l *LocalStorage) DecrementIfAvailable(_ context.Context, key Key, qty int) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.rows[key]
	if !ok || r.Quantity < qty {
		return 0, nil
	}
	r.Quantity -= qty
	r.UpdatedAt = time.Now()
	return 1, nil
}

func (l *LocalStorage) Quantity(_ context.Context, key Key) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.rows[key]
	if !ok {
		return 0, ErrNotFound
	}
	return r.Quantity, nil
}

func (l *LocalStorage) ReplaceForProduct(_ context.Context, productID string, rows []Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k := range l.rows {
		if k.ProductID == productID {
			delete(l.rows, k)
		}
	}
	for i := range rows {
		r := rows[i]
		r.ProductID = productID
		r.CreatedAt = time.Now()
		r.UpdatedAt = time.Now()
		l.rows[Key{r.ProductID, r.ColorID, r.SizeID}] = &r
	}
	return nil
}

func (l *LocalStorage) DeleteForProduct(_ context.Context, productID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k := range l.rows {
		if k.ProductID == productID {
			delete(l.rows, k)
		}
	}
	return nil
}

func (l *LocalStorage) ListForProduct(_ context.Context, productID string) ([]Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Record
	for k, r := range l.rows {
		if k.ProductID == productID {
			out = append(out, *r)
		}
	}
	return out, nil
}

// Snapshot returns a copy of all rows, for in-memory aggregate queries.
func (l *LocalStorage) Snapshot() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Record, 0, len(l.rows))
	for _, r := range l.rows {
		out = append(out, *r)
	}
	return out
}
