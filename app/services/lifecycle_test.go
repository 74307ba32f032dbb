package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazaar/app/events"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/event"
	"github.com/shashiranjanraj/bazaar/pkg/repository"
)

type fixture struct {
	users    *repository.Repository[models.User]
	products *repository.Repository[models.Product]
	orders   *repository.Repository[models.Order]
	reviews  *repository.Repository[models.Review]
	bus      *event.Bus

	lifecycle *services.Lifecycle
	accounts  *services.Accounts
	reviewSvc *services.Reviews

	buyer  models.User
	seller models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:    repository.New(func(u models.User) string { return u.ID }),
		products: repository.New(func(p models.Product) string { return p.ID }),
		orders:   repository.New(func(o models.Order) string { return o.ID }),
		reviews:  repository.New(func(r models.Review) string { return r.ID }),
		bus:      event.NewBus(),
	}
	f.lifecycle = services.NewLifecycle(f.products, f.orders, f.bus)
	f.accounts = services.NewAccounts(f.users)
	f.reviewSvc = services.NewReviews(f.orders, f.reviews)

	var err error
	f.buyer, err = f.accounts.Register("buyer1", "123456", models.RoleBuyer, "", "")
	require.NoError(t, err)
	f.seller, err = f.accounts.Register("seller1", "123456", models.RoleSeller, "", "")
	require.NoError(t, err)
	return f
}

func (f *fixture) list(t *testing.T, name, price string) models.Product {
	t.Helper()
	p, err := f.lifecycle.AddProduct(f.seller, name, "desc", "misc", mustDecimal(t, price))
	require.NoError(t, err)
	return p
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestAddProduct(t *testing.T) {
	f := newFixture(t)

	p := f.list(t, "Desk lamp", "80.00")

	assert.Equal(t, models.ProductAvailable, p.Status)
	assert.Equal(t, f.seller.ID, p.SellerID)
	assert.True(t, p.Price.Equal(mustDecimal(t, "80.00")))

	stored, ok := f.products.FindByID(p.ID)
	require.True(t, ok)
	assert.Equal(t, p.ID, stored.ID)
}

func TestAddProductRejectsNonPositivePrice(t *testing.T) {
	f := newFixture(t)

	for _, price := range []string{"0", "-5"} {
		_, err := f.lifecycle.AddProduct(f.seller, "x", "", "", mustDecimal(t, price))
		assert.ErrorIs(t, err, services.ErrInvalidArgument, "price %s", price)
	}
	assert.Equal(t, 0, f.products.Count())
}

func TestUpdateProduct(t *testing.T) {
	f := newFixture(t)
	p := f.list(t, "Bicycle", "200.00")

	name := "Road bicycle"
	price := mustDecimal(t, "150.00")
	got, err := f.lifecycle.UpdateProduct(f.seller, p.ID, services.ProductUpdate{Name: &name, Price: &price})
	require.NoError(t, err)

	assert.Equal(t, "Road bicycle", got.Name)
	assert.True(t, got.Price.Equal(price))
	// untouched fields keep their values
	assert.Equal(t, p.Description, got.Description)
	assert.True(t, got.UpdatedAt.After(p.UpdatedAt) || got.UpdatedAt.Equal(p.UpdatedAt))
}

func TestUpdateProductOwnershipAndState(t *testing.T) {
	f := newFixture(t)
	p := f.list(t, "Bicycle", "200.00")

	name := "hijacked"
	_, err := f.lifecycle.UpdateProduct(f.buyer, p.ID, services.ProductUpdate{Name: &name})
	assert.ErrorIs(t, err, services.ErrNotOwner)

	_, err = f.lifecycle.PlaceOrder(f.buyer, p.ID)
	require.NoError(t, err)

	// reserved products can no longer be edited
	_, err = f.lifecycle.UpdateProduct(f.seller, p.ID, services.ProductUpdate{Name: &name})
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	stored, _ := f.products.FindByID(p.ID)
	assert.Equal(t, "Bicycle", stored.Name)
}

func TestRetireProduct(t *testing.T) {
	f := newFixture(t)
	p := f.list(t, "Desk lamp", "80.00")

	got, err := f.lifecycle.RetireProduct(f.seller, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProductRemoved, got.Status)

	// removed products cannot be ordered or retired again
	_, err = f.lifecycle.PlaceOrder(f.buyer, p.ID)
	assert.ErrorIs(t, err, services.ErrProductUnavailable)
	_, err = f.lifecycle.RetireProduct(f.seller, p.ID)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
}

func TestRetireProductOnlyByOwner(t *testing.T) {
	f := newFixture(t)
	p := f.list(t, "Desk lamp", "80.00")

	_, err := f.lifecycle.RetireProduct(f.buyer, p.ID)
	assert.ErrorIs(t, err, services.ErrNotOwner)

	stored, _ := f.products.FindByID(p.ID)
	assert.Equal(t, models.ProductAvailable, stored.Status)
}

func TestPlaceOrderReservesProduct(t *testing.T) {
	f := newFixture(t)
	p := f.list(t, "Java textbook", "50.00")

	o, err := f.lifecycle.PlaceOrder(f.buyer, p.ID)
	require.NoError(t, err)

	assert.Equal(t, models.OrderPendingShip, o.Status)
	assert.Equal(t, f.buyer.ID, o.BuyerID)
	assert.Equal(t, f.seller.ID, o.SellerID)
	assert.True(t, o.Price.Equal(p.Price))

	stored, _ := f.products.FindByID(p.ID)
	assert.Equal(t, models.ProductPending, stored.Status)
}

func TestPlaceOrderPriceIsFrozen(t *testing.T) {
	f := newFixture(t)
	p := f.list(t, "Java textbook", "50.00")
	o, err := f.lifecycle.PlaceOrder(f.buyer, p.ID)
	require.NoError(t, err)

	assert.True(t, o.Price.Equal(mustDecimal(t, "50.00")))
}

func TestPlaceOrderRejectsUnavailableProduct(t *testing.T) {
	f := newFixture(t)
	p := f.list(t, "Java textbook", "50.00")

	_, err := f.lifecycle.PlaceOrder(f.buyer, p.ID)
	require.NoError(t, err)

	before := f.orders.Count()
	_, err = f.lifecycle.PlaceOrder(f.buyer, p.ID)
	assert.ErrorIs(t, err, services.ErrProductUnavailable)
	assert.Equal(t, before, f.orders.Count(), "failed order must not create state")
}

func TestPlaceOrderRejectsSelfTrade(t *testing.T) {
	f := newFixture(t)
	p := f.list(t, "Java textbook", "50.00")

	_, err := f.lifecycle.PlaceOrder(f.seller, p.ID)
	assert.ErrorIs(t, err, services.ErrSelfTrade)

	stored, _ := f.products.FindByID(p.ID)
	assert.Equal(t, models.ProductAvailable, stored.Status)
	assert.Equal(t, 0, f.orders.Count())
}

func TestShipOrder(t *testing.T) {
	f := newFixture(t)
	p := f.list(t, "Java textbook", "50.00")
	o, err := f.lifecycle.PlaceOrder(f.buyer, p.ID)
	require.NoError(t, err)

	shipped, err := f.lifecycle.ShipOrder(f.seller, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, shipped.Status)
	require.NotNil(t, shipped.ShippedAt)

	// only the seller of the order may ship
	_, err = f.lifecycle.ShipOrder(f.buyer, o.ID)
	assert.ErrorIs(t, err, services.ErrNotOwner)

	// shipping twice is an invalid transition
	_, err = f.lifecycle.ShipOrder(f.seller, o.ID)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
}

func TestConfirmReceiptCompletesTheSale(t *testing.T) {
	f := newFixture(t)
	p := f.list(t, "Java textbook", "50.00")
	o, err := f.lifecycle.PlaceOrder(f.buyer, p.ID)
	require.NoError(t, err)
	_, err = f.lifecycle.ShipOrder(f.seller, o.ID)
	require.NoError(t, err)

	done, err := f.lifecycle.ConfirmReceipt(f.buyer, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, done.Status)
	require.NotNil(t, done.ReceivedAt)

	stored, _ := f.products.FindByID(p.ID)
	assert.Equal(t, models.ProductSold, stored.Status)
}

func TestConfirmReceiptGuards(t *testing.T) {
	f := newFixture(t)
	p := f.list(t, "Java textbook", "50.00")
	o, err := f.lifecycle.PlaceOrder(f.buyer, p.ID)
	require.NoError(t, err)

	// cannot confirm before shipping
	_, err = f.lifecycle.ConfirmReceipt(f.buyer, o.ID)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	_, err = f.lifecycle.ShipOrder(f.seller, o.ID)
	require.NoError(t, err)

	// only the buyer may confirm
	_, err = f.lifecycle.ConfirmReceipt(f.seller, o.ID)
	assert.ErrorIs(t, err, services.ErrNotOwner)
}

func TestLifecyclePublishesEvents(t *testing.T) {
	f := newFixture(t)

	var orderTransitions []models.OrderStatus
	var productTransitions []models.ProductStatus
	f.bus.Subscribe(events.KindOrderStatusChanged, func(e event.Event) {
		orderTransitions = append(orderTransitions, e.(events.OrderStatusChanged).To)
	})
	f.bus.Subscribe(events.KindProductStatusChanged, func(e event.Event) {
		productTransitions = append(productTransitions, e.(events.ProductStatusChanged).To)
	})

	p := f.list(t, "Java textbook", "50.00")
	o, err := f.lifecycle.PlaceOrder(f.buyer, p.ID)
	require.NoError(t, err)
	_, err = f.lifecycle.ShipOrder(f.seller, o.ID)
	require.NoError(t, err)
	_, err = f.lifecycle.ConfirmReceipt(f.buyer, o.ID)
	require.NoError(t, err)

	assert.Equal(t, []models.OrderStatus{
		models.OrderPendingShip,
		models.OrderShipped,
		models.OrderCompleted,
	}, orderTransitions)
	assert.Equal(t, []models.ProductStatus{
		models.ProductPending,
		models.ProductSold,
	}, productTransitions)
}

func TestOrderNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.lifecycle.ShipOrder(f.seller, "ORD-missing")
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, err = f.lifecycle.ConfirmReceipt(f.buyer, "ORD-missing")
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, err = f.lifecycle.PlaceOrder(f.buyer, "PRD-missing")
	assert.ErrorIs(t, err, services.ErrNotFound)
}
