// Package events defines the domain events the lifecycle transitions
// publish. Events are descriptive only — they are emitted after the
// store mutation is applied and never gate the transition itself.
package events

import "github.com/shashiranjanraj/bazaar/app/models"

const (
	KindOrderStatusChanged   = "order.status_changed"
	KindProductStatusChanged = "product.status_changed"
)

// OrderStatusChanged carries an order transition. From is empty when the
// order was just created.
type OrderStatusChanged struct {
	Order models.Order
	From  models.OrderStatus
	To    models.OrderStatus
}

func (OrderStatusChanged) Kind() string { return KindOrderStatusChanged }

// ProductStatusChanged carries a product transition.
type ProductStatusChanged struct {
	Product models.Product
	From    models.ProductStatus
	To      models.ProductStatus
}

func (ProductStatusChanged) Kind() string { return KindProductStatusChanged }
