package sales

import (
	"time"

	"github.com/shopspring/decimal"

	"backoffice/internal/catalog"
)

// Sale represents one completed transaction linking a customer to zero or
// more purchased line items. A sale exclusively owns its line items.
type Sale struct {
	ID         string          `json:"id" gorm:"size:36;primaryKey"`
	CustomerID string          `json:"customer_id" gorm:"size:36;not null;index"`
	EmployeeID string          `json:"employee_id,omitempty" gorm:"size:36"`
	TotalPrice decimal.Decimal `json:"total_price" gorm:"type:decimal(10,2)"`
	CouponCode string          `json:"coupon_code,omitempty" gorm:"index"`
	CreatedAt  time.Time       `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt  time.Time       `json:"updated_at" gorm:"autoUpdateTime"`

	LineItems []*LineItem `json:"line_items" gorm:"foreignKey:SaleID"`
}

// LineItem is one (product, color, size, quantity, price) record within a
// sale. Color and size are always resolved on persist: items that omit them
// carry the catalog defaults.
type LineItem struct {
	ID         string          `json:"id" gorm:"size:36;primaryKey"`
	SaleID     string          `json:"sale_id" gorm:"size:36;not null;index"`
	ProductID  string          `json:"product_id" gorm:"size:36;not null"`
	Quantity   int             `json:"quantity"`
	ColorID    string          `json:"color_id" gorm:"size:36;not null"`
	SizeID     string          `json:"size_id" gorm:"size:36;not null"`
	TotalPrice decimal.Decimal `json:"total_price" gorm:"type:decimal(10,2)"`
	CreatedAt  time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `json:"updated_at" gorm:"autoUpdateTime"`

	Product *catalog.Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Color   *catalog.Color   `json:"color,omitempty" gorm:"foreignKey:ColorID"`
	Size    *catalog.Size    `json:"size,omitempty" gorm:"foreignKey:SizeID"`
}

// LineItemRequest is one caller-supplied line item. Only the product is
// required; quantity defaults to 1, total price to 0, color and size to the
// catalog defaults.
type LineItemRequest struct {
	ProductID  string          `json:"product_id"`
	Quantity   int             `json:"quantity"`
	ColorID    string          `json:"color_id"`
	SizeID     string          `json:"size_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Request carries a caller-supplied sale: header fields plus line items.
// Totals are accepted as supplied; pricing policy is the caller's concern.
type Request struct {
	CustomerID string            `json:"customer_id"`
	EmployeeID string            `json:"employee_id"`
	TotalPrice decimal.Decimal   `json:"total_price"`
	CouponCode string            `json:"coupon_code"`
	Products   []LineItemRequest `json:"products"`
}
