package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus is the listing state of a product.
type ProductStatus string

const (
	ProductAvailable ProductStatus = "available"
	ProductPending   ProductStatus = "pending"
	ProductSold      ProductStatus = "sold"
	ProductRemoved   ProductStatus = "removed"
)

// Product is a listed good. The seller never changes; status moves
// available→pending→sold, or available→removed, and nothing leaves
// sold or removed.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	SellerID    string          `json:"seller_id"`
	Status      ProductStatus   `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
