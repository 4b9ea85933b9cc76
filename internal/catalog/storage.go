package catalog

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrNotFound is returned when a catalog record does not exist.
var ErrNotFound = errors.New("catalog record not found")

// ErrEmptyID is returned when trying to store a record with an empty ID.
var ErrEmptyID = errors.New("empty record ID")

// Storage is the persistence interface for catalog records.
type Storage interface {
	CreateProduct(ctx context.Context, p *Product) error
	// UpdateProduct replaces every updatable field of the stored record,
	// zero values included. CreatedAt is preserved. UpdateCoupon follows
	// the same contract.
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id string) error
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context) ([]*Product, error)

	CreateColor(ctx context.Context, c *Color) error
	CreateSize(ctx context.Context, s *Size) error
	// FirstColor and FirstSize return the oldest catalog row by creation
	// order, the process-wide default for line items that omit one.
	FirstColor(ctx context.Context) (*Color, error)
	FirstSize(ctx context.Context) (*Size, error)
	GetColor(ctx context.Context, id string) (*Color, error)
	GetSize(ctx context.Context, id string) (*Size, error)

	CreateCoupon(ctx context.Context, c *Coupon) error
	UpdateCoupon(ctx context.Context, c *Coupon) error
	DeleteCoupon(ctx context.Context, id string) error
	GetCoupon(ctx context.Context, id string) (*Coupon, error)
	GetCouponByCode(ctx context.Context, code string) (*Coupon, error)
	ListCoupons(ctx context.Context) ([]*Coupon, error)
}

// LocalStorage provides an in-memory implementation of Storage.
type LocalStorage struct {
	mu       sync.RWMutex
	products map[string]*Product
	colors   map[string]*Color
	sizes    map[string]*Size
	coupons  map[string]*Coupon
}

// NewLocalStorage instantiates a new LocalStorage with empty catalogs.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		products: map[string]*Product{},
		colors:   map[string]*Color{},
		sizes:    map[string]*Size{},
		coupons:  map[string]*Coupon{},
	}
}

func (l *LocalStorage) CreateProduct(_ context.Context, p *Product) error {
	if p.ID == "" {
		return ErrEmptyID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.products[p.ID] = p
	return nil
}

func (l *LocalStorage) UpdateProduct(_ context.Context, p *Product) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	existing, ok := l.products[p.ID]
	if !ok {
		return ErrNotFound
	}
	updated := *p
	updated.CreatedAt = existing.CreatedAt
	l.products[p.ID] = &updated
	return nil
}

func (l *LocalStorage) DeleteProduct(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.products[id]; !ok {
		return ErrNotFound
	}
	delete(l.products, id)
	return nil
}

func (l *LocalStorage) GetProduct(_ context.Context, id string) (*Product, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (l *LocalStorage) ListProducts(_ context.Context) ([]*Product, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*Product, 0, len(l.products))
	for _, p := range l.products {
		out = append(out, p)
	}
	return out, nil
}

func (l *LocalStorage) CreateColor(_ context.Context, c *Color) error {
	if c.ID == "" {
		return ErrEmptyID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.colors[c.ID] = c
	return nil
}

func (l *LocalStorage) CreateSize(_ context.Context, s *Size) error {
	if s.ID == "" {
		return ErrEmptyID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sizes[s.ID] = s
	return nil
}

func (l *LocalStorage) FirstColor(_ context.Context) (*Color, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	all := make([]*Color, 0, len(l.colors))
	for _, c := range l.colors {
		all = append(all, c)
	}
	if len(all) == 0 {
		return nil, ErrNotFound
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return all[0], nil
}

func (l *LocalStorage) FirstSize(_ context.Context) (*Size, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	all := make([]*Size, 0, len(l.sizes))
	for _, s := range l.sizes {
		all = append(all, s)
	}
	if len(all) == 0 {
		return nil, ErrNotFound
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return all[0], nil
}

func (l *LocalStorage) GetColor(_ context.Context, id string) (*Color, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.colors[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (l *LocalStorage) GetSize(_ context.Context, id string) (*Size, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.sizes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (l *LocalStorage) CreateCoupon(_ context.Context, c *Coupon) error {
	if c.ID == "" {
		return ErrEmptyID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.coupons[c.ID] = c
	return nil
}

func (l *LocalStorage) UpdateCoupon(_ context.Context, c *Coupon) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	existing, ok := l.coupons[c.ID]
	if !ok {
		return ErrNotFound
	}
	updated := *c
	updated.CreatedAt = existing.CreatedAt
	l.coupons[c.ID] = &updated
	return nil
}

func (l *LocalStorage) DeleteCoupon(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.coupons[id]; !ok {
		return ErrNotFound
	}
	delete(l.coupons, id)
	return nil
}

func (l *LocalStorage) GetCoupon(_ context.Context, id string) (*Coupon, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.coupons[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (l *LocalStorage) GetCouponByCode(_ context.Context, code string) (*Coupon, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, c := range l.coupons {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

func (l *LocalStorage) ListCoupons(_ context.Context) ([]*Coupon, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*Coupon, 0, len(l.coupons))
	for _, c := range l.coupons {
		out = append(out, c)
	}
	return out, nil
}
