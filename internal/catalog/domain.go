package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable article. Stock per (color, size) lives in the
// inventory ledger, keyed by the product ID.
type Product struct {
	ID               string          `json:"id" gorm:"size:36;primaryKey"`
	SKU              string          `json:"sku" gorm:"uniqueIndex;not null"`
	Status           string          `json:"status" gorm:"index"`
	Name             string          `json:"name" gorm:"not null"`
	CareInstructions string          `json:"care_instructions"`
	ImageURL         string          `json:"image_url"`
	Description      string          `json:"description"`
	Price            decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	CreatedAt        time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// Color is a catalog color option.
type Color struct {
	ID        string    `json:"id" gorm:"size:36;primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Size is a catalog size option.
type Size struct {
	ID        string    `json:"id" gorm:"size:36;primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Coupon is a discount code with a validity window.
type Coupon struct {
	ID        string          `json:"id" gorm:"size:36;primaryKey"`
	Code      string          `json:"code" gorm:"uniqueIndex;not null"`
	Discount  decimal.Decimal `json:"discount" gorm:"type:decimal(10,2)"`
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date" gorm:"index"`
	Status    string          `json:"status" gorm:"index"`
	CreatedAt time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}
