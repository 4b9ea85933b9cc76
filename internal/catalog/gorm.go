package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// GormStorage implements Storage on a gorm-managed database.
type GormStorage struct {
	db *gorm.DB
}

// NewGormStorage creates a Storage backed by the given gorm DB.
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (g *GormStorage) CreateProduct(ctx context.Context, p *Product) error {
	return g.db.WithContext(ctx).Create(p).Error
}

func (g *GormStorage) UpdateProduct(ctx context.Context, p *Product) error {
	// Select("*") writes zero-value fields too, matching LocalStorage's
	// full-replace contract; created_at stays untouched.
	res := g.db.WithContext(ctx).Model(&Product{}).Where("id = ?", p.ID).
		Select("*").Omit("id", "created_at").Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *GormStorage) DeleteProduct(ctx context.Context, id string) error {
	res := g.db.WithContext(ctx).Delete(&Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *GormStorage) GetProduct(ctx context.Context, id string) (*Product, error) {
	var p Product
	if err := g.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (g *GormStorage) ListProducts(ctx context.Context) ([]*Product, error) {
	var out []*Product
	if err := g.db.WithContext(ctx).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (g *GormStorage) CreateColor(ctx context.Context, c *Color) error {
	return g.db.WithContext(ctx).Create(c).Error
}

func (g *GormStorage) CreateSize(ctx context.Context, s *Size) error {
	return g.db.WithContext(ctx).Create(s).Error
}

func (g *GormStorage) FirstColor(ctx context.Context) (*Color, error) {
	var c Color
	err := g.db.WithContext(ctx).Order("created_at asc, id asc").First(&c).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (g *GormStorage) FirstSize(ctx context.Context) (*Size, error) {
	var s Size
	err := g.db.WithContext(ctx).Order("created_at asc, id asc").First(&s).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (g *GormStorage) GetColor(ctx context.Context, id string) (*Color, error) {
	var c Color
	if err := g.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (g *GormStorage) GetSize(ctx context.Context, id string) (*Size, error) {
	var s Size
	if err := g.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (g *GormStorage) CreateCoupon(ctx context.Context, c *Coupon) error {
	return g.db.WithContext(ctx).Create(c).Error
}

func (g *GormStorage) UpdateCoupon(ctx context.Context, c *Coupon) error {
	res := g.db.WithContext(ctx).Model(&Coupon{}).Where("id = ?", c.ID).
		Select("*").Omit("id", "created_at").Updates(c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *GormStorage) DeleteCoupon(ctx context.Context, id string) error {
	res := g.db.WithContext(ctx).Delete(&Coupon{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *GormStorage) GetCoupon(ctx context.Context, id string) (*Coupon, error) {
	var c Coupon
	if err := g.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (g *GormStorage) GetCouponByCode(ctx context.Context, code string) (*Coupon, error) {
	var c Coupon
	if err := g.db.WithContext(ctx).First(&c, "code = ?", code).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (g *GormStorage) ListCoupons(ctx context.Context) ([]*Coupon, error) {
	var out []*Coupon
	if err := g.db.WithContext(ctx).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
