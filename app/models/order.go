package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderPendingShip OrderStatus = "pending-ship"
	OrderShipped     OrderStatus = "shipped"
	OrderCompleted   OrderStatus = "completed"
	OrderCancelled   OrderStatus = "cancelled"
)

// Order records a purchase. SellerID and Price are copied from the
// product when the order is placed, so later product edits never touch
// an existing order. BuyerID is never the seller.
type Order struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	BuyerID    string          `json:"buyer_id"`
	SellerID   string          `json:"seller_id"`
	Price      decimal.Decimal `json:"price"`
	Status     OrderStatus     `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	ShippedAt  *time.Time      `json:"shipped_at,omitempty"`
	ReceivedAt *time.Time      `json:"received_at,omitempty"`
}
