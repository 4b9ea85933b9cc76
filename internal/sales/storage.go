package sales

import (
	"context"
	"sort"
	"sync"

	"backoffice/internal/catalog"
)

// Storage is the persistence interface for sales and their line items.
// Reads return sales expanded with line items and their product/color/size.
type Storage interface {
	CreateSale(ctx context.Context, sale *Sale) error
	// UpdateSale updates header fields in place. ErrNotFound if the sale
	// does not exist.
	UpdateSale(ctx context.Context, sale *Sale) error
	DeleteSale(ctx context.Context, id string) error
	GetSale(ctx context.Context, id string) (*Sale, error)
	ListSales(ctx context.Context) ([]*Sale, error)
	// ListByCustomer returns the customer's sales, most recent first.
	ListByCustomer(ctx context.Context, customerID string) ([]*Sale, error)

	CreateLineItem(ctx context.Context, item *LineItem) error
	// ReplaceLineItems atomically deletes the sale's line items and inserts
	// the given set.
	ReplaceLineItems(ctx context.Context, saleID string, items []*LineItem) error
	DeleteLineItems(ctx context.Context, saleID string) error
}

// LocalStorage provides an in-memory implementation of Storage. Reads join
// against the given catalog storage for product/color/size expansion.
type LocalStorage struct {
	mu      sync.RWMutex
	sales   map[string]*Sale
	items   map[string][]*LineItem
	catalog catalog.Storage
}

// NewLocalStorage instantiates a new LocalStorage. cat may be nil, in
// which case reads skip product/color/size expansion.
func NewLocalStorage(cat catalog.Storage) *LocalStorage {
	return &LocalStorage{
		sales:   map[string]*Sale{},
		items:   map[string][]*LineItem{},
		catalog: cat,
	}
}

func (l *LocalStorage) CreateSale(_ context.Context, sale *Sale) error {
	if sale.ID == "" {
		return ErrEmptyID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	header := *sale
	header.LineItems = nil
	l.sales[sale.ID] = &header
	return nil
}

func (l *LocalStorage) UpdateSale(_ context.Context, sale *Sale) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	existing, ok := l.sales[sale.ID]
	if !ok {
		return ErrNotFound
	}
	header := *sale
	header.LineItems = nil
	header.CreatedAt = existing.CreatedAt
	l.sales[sale.ID] = &header
	return nil
}

func (l *LocalStorage) DeleteSale(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.sales[id]; !ok {
		return ErrNotFound
	}
	delete(l.sales, id)
	return nil
}

func (l *LocalStorage) GetSale(ctx context.Context, id string) (*Sale, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.sales[id]
	if !ok {
		return nil, ErrNotFound
	}
	return l.expand(ctx, s), nil
}

func (l *LocalStorage) ListSales(ctx context.Context) ([]*Sale, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*Sale, 0, len(l.sales))
	for _, s := range l.sales {
		out = append(out, l.expand(ctx, s))
	}
	return out, nil
}

func (l *LocalStorage) ListByCustomer(ctx context.Context, customerID string) ([]*Sale, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []*Sale
	for _, s := range l.sales {
		if s.CustomerID == customerID {
			out = append(out, l.expand(ctx, s))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (l *LocalStorage) CreateLineItem(_ context.Context, item *LineItem) error {
	if item.ID == "" {
		return ErrEmptyID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	copied := *item
	l.items[item.SaleID] = append(l.items[item.SaleID], &copied)
	return nil
}

func (l *LocalStorage) ReplaceLineItems(_ context.Context, saleID string, items []*LineItem) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.items, saleID)
	for _, item := range items {
		copied := *item
		copied.SaleID = saleID
		l.items[saleID] = append(l.items[saleID], &copied)
	}
	return nil
}

func (l *LocalStorage) DeleteLineItems(_ context.Context, saleID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.items, saleID)
	return nil
}

// expand copies the sale with its line items joined against the catalog.
// Caller holds at least a read lock.
func (l *LocalStorage) expand(ctx context.Context, s *Sale) *Sale {
	out := *s
	out.LineItems = make([]*LineItem, 0, len(l.items[s.ID]))
	for _, item := range l.items[s.ID] {
		copied := *item
		if l.catalog != nil {
			copied.Product, _ = l.catalog.GetProduct(ctx, item.ProductID)
			copied.Color, _ = l.catalog.GetColor(ctx, item.ColorID)
			copied.Size, _ = l.catalog.GetSize(ctx, item.SizeID)
		}
		out.LineItems = append(out.LineItems, &copied)
	}
	return &out
}
