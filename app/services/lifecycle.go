// Package services holds the business layer: the lifecycle engine for
// product and order state, account management, review gating, and the
// snapshot datastore. Commands call in here; entities are owned by the
// repositories and replaced wholesale on every mutation.
package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/bazaar/app/events"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/event"
	"github.com/shashiranjanraj/bazaar/pkg/id"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/repository"
)

// Lifecycle validates and applies product and order state transitions
// and publishes an event after each one. It is the only writer of
// product status and order status.
type Lifecycle struct {
	products *repository.Repository[models.Product]
	orders   *repository.Repository[models.Order]
	bus      *event.Bus
}

func NewLifecycle(products *repository.Repository[models.Product], orders *repository.Repository[models.Order], bus *event.Bus) *Lifecycle {
	return &Lifecycle{products: products, orders: orders, bus: bus}
}

// ProductUpdate carries optional field edits; nil means keep the old value.
type ProductUpdate struct {
	Name        *string
	Description *string
	Category    *string
	Price       *decimal.Decimal
}

// AddProduct lists a new product for the seller, starting Available.
func (l *Lifecycle) AddProduct(seller models.User, name, description, category string, price decimal.Decimal) (models.Product, error) {
	if !price.IsPositive() {
		return models.Product{}, fmt.Errorf("%w: price must be positive", ErrInvalidArgument)
	}
	now := time.Now()
	p := models.Product{
		ID:          id.New("PRD"),
		Name:        name,
		Description: description,
		Category:    category,
		Price:       price,
		SellerID:    seller.ID,
		Status:      models.ProductAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := l.products.Save(p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// UpdateProduct edits an Available product owned by seller. Nil fields
// in upd are left untouched; UpdatedAt is bumped with the change.
func (l *Lifecycle) UpdateProduct(seller models.User, productID string, upd ProductUpdate) (models.Product, error) {
	p, ok := l.products.FindByID(productID)
	if !ok {
		return models.Product{}, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	if p.SellerID != seller.ID {
		return models.Product{}, fmt.Errorf("product %s: %w", productID, ErrNotOwner)
	}
	if p.Status != models.ProductAvailable {
		return models.Product{}, fmt.Errorf("only available products can be edited: %w", ErrInvalidTransition)
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	if upd.Price != nil {
		if !upd.Price.IsPositive() {
			return models.Product{}, fmt.Errorf("%w: price must be positive", ErrInvalidArgument)
		}
		p.Price = *upd.Price
	}
	p.UpdatedAt = time.Now()
	if err := l.products.Save(p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// RetireProduct soft-retires an Available product owned by seller.
// Reserved and sold items cannot be retired.
func (l *Lifecycle) RetireProduct(seller models.User, productID string) (models.Product, error) {
	p, ok := l.products.FindByID(productID)
	if !ok {
		return models.Product{}, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	if p.SellerID != seller.ID {
		return models.Product{}, fmt.Errorf("product %s: %w", productID, ErrNotOwner)
	}
	if p.Status != models.ProductAvailable {
		return models.Product{}, fmt.Errorf("only available products can be removed: %w", ErrInvalidTransition)
	}
	return l.moveProduct(p, models.ProductRemoved)
}

// PlaceOrder creates an order for buyer against an Available product and
// reserves the product. Seller and price are copied onto the order so
// later product edits never affect it.
func (l *Lifecycle) PlaceOrder(buyer models.User, productID string) (models.Order, error) {
	p, ok := l.products.FindByID(productID)
	if !ok {
		return models.Order{}, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	if p.Status != models.ProductAvailable {
		return models.Order{}, fmt.Errorf("product %s is %s: %w", productID, p.Status, ErrProductUnavailable)
	}
	if p.SellerID == buyer.ID {
		return models.Order{}, ErrSelfTrade
	}

	o := models.Order{
		ID:        id.New("ORD"),
		ProductID: p.ID,
		BuyerID:   buyer.ID,
		SellerID:  p.SellerID,
		Price:     p.Price,
		Status:    models.OrderPendingShip,
		CreatedAt: time.Now(),
	}
	if err := l.orders.Save(o); err != nil {
		return models.Order{}, err
	}
	if _, err := l.moveProduct(p, models.ProductPending); err != nil {
		return models.Order{}, err
	}

	l.bus.Publish(events.OrderStatusChanged{Order: o, To: models.OrderPendingShip})
	return o, nil
}

// ShipOrder moves a PendingShip order to Shipped, recording ShippedAt.
// Only the order's seller may ship.
func (l *Lifecycle) ShipOrder(seller models.User, orderID string) (models.Order, error) {
	o, ok := l.orders.FindByID(orderID)
	if !ok {
		return models.Order{}, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	if o.SellerID != seller.ID {
		return models.Order{}, fmt.Errorf("order %s: %w", orderID, ErrNotOwner)
	}
	if o.Status != models.OrderPendingShip {
		return models.Order{}, fmt.Errorf("order is %s: %w", o.Status, ErrInvalidTransition)
	}

	from := o.Status
	now := time.Now()
	o.Status = models.OrderShipped
	o.ShippedAt = &now
	if err := l.orders.Save(o); err != nil {
		return models.Order{}, err
	}

	l.bus.Publish(events.OrderStatusChanged{Order: o, From: from, To: o.Status})
	return o, nil
}

// ConfirmReceipt moves a Shipped order to Completed, recording
// ReceivedAt, and finalizes the product sale. Only the buyer may confirm.
func (l *Lifecycle) ConfirmReceipt(buyer models.User, orderID string) (models.Order, error) {
	o, ok := l.orders.FindByID(orderID)
	if !ok {
		return models.Order{}, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	if o.BuyerID != buyer.ID {
		return models.Order{}, fmt.Errorf("order %s: %w", orderID, ErrNotOwner)
	}
	if o.Status != models.OrderShipped {
		return models.Order{}, fmt.Errorf("order is %s: %w", o.Status, ErrInvalidTransition)
	}

	from := o.Status
	now := time.Now()
	o.Status = models.OrderCompleted
	o.ReceivedAt = &now
	if err := l.orders.Save(o); err != nil {
		return models.Order{}, err
	}

	if p, ok := l.products.FindByID(o.ProductID); ok && p.Status == models.ProductPending {
		if _, err := l.moveProduct(p, models.ProductSold); err != nil {
			return models.Order{}, err
		}
	} else if !ok {
		logger.Warn("order references a missing product", "order", o.ID, "product", o.ProductID)
	}

	l.bus.Publish(events.OrderStatusChanged{Order: o, From: from, To: o.Status})
	return o, nil
}

// moveProduct applies a product status change. Status and UpdatedAt are
// written together in one Save, then the event goes out.
func (l *Lifecycle) moveProduct(p models.Product, to models.ProductStatus) (models.Product, error) {
	from := p.Status
	p.Status = to
	p.UpdatedAt = time.Now()
	if err := l.products.Save(p); err != nil {
		return models.Product{}, err
	}
	l.bus.Publish(events.ProductStatusChanged{Product: p, From: from, To: to})
	return p, nil
}
