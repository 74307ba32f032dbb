package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/app/session"
	"github.com/shashiranjanraj/bazaar/pkg/collection"
	"github.com/shashiranjanraj/bazaar/pkg/command"
	"github.com/shashiranjanraj/bazaar/pkg/repository"
)

// Buyer handles the shopping side: search, product detail, orders from
// the buyer's perspective, and reviews. search/product/order are open to
// every role; sellers and admins get their own overrides for
// product/order registered later.
type Buyer struct {
	products  *repository.Repository[models.Product]
	orders    *repository.Repository[models.Order]
	sess      *session.Session
	lifecycle *services.Lifecycle
	reviews   *services.Reviews
	out       io.Writer
}

func NewBuyer(products *repository.Repository[models.Product], orders *repository.Repository[models.Order], sess *session.Session, lifecycle *services.Lifecycle, reviews *services.Reviews, out io.Writer) *Buyer {
	return &Buyer{products: products, orders: orders, sess: sess, lifecycle: lifecycle, reviews: reviews, out: out}
}

func (c *Buyer) Register(reg *command.Registry) {
	reg.Register("search", "search listed products: [keyword] [minPrice] [maxPrice]", c.search, roleBuyer, roleSeller, roleAdmin)
	reg.Register("product", "product lookup: detail <productID>", c.product, roleBuyer, roleSeller, roleAdmin)
	reg.Register("order", "orders: create <productID> | my | confirm-receive <orderID>", c.order, roleBuyer, roleSeller, roleAdmin)
	reg.Register("review", "reviews: add <orderID> <rating 1-5> <comment...>", c.review, roleBuyer)
}

func (c *Buyer) current() models.User {
	u, _ := c.sess.Current()
	return u
}

func (c *Buyer) search(args []string) error {
	keyword := ""
	if len(args) > 0 {
		keyword = args[0]
	}
	var minPrice, maxPrice *decimal.Decimal
	if len(args) > 1 {
		p, err := decimal.NewFromString(args[1])
		if err != nil {
			return fmt.Errorf("%w: bad minimum price %q", services.ErrInvalidArgument, args[1])
		}
		minPrice = &p
	}
	if len(args) > 2 {
		p, err := decimal.NewFromString(args[2])
		if err != nil {
			return fmt.Errorf("%w: bad maximum price %q", services.ErrInvalidArgument, args[2])
		}
		maxPrice = &p
	}

	results := c.products.FindBy(func(p models.Product) bool {
		if p.Status != models.ProductAvailable {
			return false
		}
		if keyword != "" &&
			!strings.Contains(p.Name, keyword) &&
			!strings.Contains(p.Description, keyword) &&
			!strings.Contains(p.Category, keyword) {
			return false
		}
		if minPrice != nil && p.Price.LessThan(*minPrice) {
			return false
		}
		if maxPrice != nil && p.Price.GreaterThan(*maxPrice) {
			return false
		}
		return true
	})

	if len(results) == 0 {
		fmt.Fprintln(c.out, "no products found")
		return nil
	}
	c.printProducts(results)
	return nil
}

func (c *Buyer) product(args []string) error {
	if len(args) < 1 || args[0] != "detail" {
		return fmt.Errorf("usage: product detail <productID>")
	}
	if len(args) < 2 {
		return fmt.Errorf("usage: product detail <productID>")
	}

	p, ok := c.products.FindByID(args[1])
	if !ok {
		return fmt.Errorf("product %s: %w", args[1], services.ErrNotFound)
	}

	fmt.Fprintf(c.out, "id:          %s\n", p.ID)
	fmt.Fprintf(c.out, "name:        %s\n", p.Name)
	fmt.Fprintf(c.out, "description: %s\n", p.Description)
	fmt.Fprintf(c.out, "category:    %s\n", p.Category)
	fmt.Fprintf(c.out, "price:       %s\n", p.Price)
	fmt.Fprintf(c.out, "status:      %s\n", p.Status)
	fmt.Fprintf(c.out, "seller:      %s\n", p.SellerID)
	fmt.Fprintf(c.out, "listed:      %s\n", formatTime(p.CreatedAt))

	for _, rv := range c.reviews.ForProduct(p.ID) {
		fmt.Fprintf(c.out, "review %s  %s  %s\n", stars(rv.Rating), formatTime(rv.CreatedAt), rv.Comment)
	}
	return nil
}

func (c *Buyer) order(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: order create <productID> | my | confirm-receive <orderID>")
	}
	switch args[0] {
	case "create":
		return c.createOrder(args[1:])
	case "my":
		return c.myOrders()
	case "confirm-receive":
		return c.confirmReceive(args[1:])
	default:
		return fmt.Errorf("unknown order action %q", args[0])
	}
}

func (c *Buyer) createOrder(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: order create <productID>")
	}
	o, err := c.lifecycle.PlaceOrder(c.current(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "order placed: %s for product %s at %s, waiting for shipment\n", o.ID, o.ProductID, o.Price)
	return nil
}

func (c *Buyer) myOrders() error {
	me := c.current()
	orders := c.orders.FindBy(func(o models.Order) bool { return o.BuyerID == me.ID })
	if len(orders) == 0 {
		fmt.Fprintln(c.out, "you have no orders")
		return nil
	}
	c.printOrders(orders, false)
	return nil
}

func (c *Buyer) confirmReceive(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: order confirm-receive <orderID>")
	}
	o, err := c.lifecycle.ConfirmReceipt(c.current(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "receipt confirmed for %s, you can now 'review add %s <rating> <comment>'\n", o.ID, o.ID)
	return nil
}

func (c *Buyer) review(args []string) error {
	if len(args) < 1 || args[0] != "add" {
		return fmt.Errorf("usage: review add <orderID> <rating 1-5> <comment...>")
	}
	if len(args) < 4 {
		return fmt.Errorf("usage: review add <orderID> <rating 1-5> <comment...>")
	}
	rating, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("%w: bad rating %q", services.ErrInvalidArgument, args[2])
	}
	comment := strings.Join(args[3:], " ")

	rv, err := c.reviews.Add(c.current(), args[1], rating, comment)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "review added: %s %s\n", stars(rv.Rating), rv.Comment)
	return nil
}

func (c *Buyer) printProducts(products []models.Product) {
	collection.SortBy(products, func(a, b models.Product) bool { return a.CreatedAt.Before(b.CreatedAt) })
	fmt.Fprintf(c.out, "%-14s %-24s %-12s %-10s %-10s\n", "id", "name", "category", "price", "status")
	for _, p := range products {
		fmt.Fprintf(c.out, "%-14s %-24s %-12s %-10s %-10s\n",
			p.ID, truncate(p.Name, 24), truncate(p.Category, 12), p.Price.String(), p.Status)
	}
	fmt.Fprintf(c.out, "%d product(s)\n", len(products))
}

func (c *Buyer) printOrders(orders []models.Order, withBuyer bool) {
	collection.SortBy(orders, func(a, b models.Order) bool { return a.CreatedAt.Before(b.CreatedAt) })
	if withBuyer {
		fmt.Fprintf(c.out, "%-14s %-14s %-14s %-10s %-12s\n", "id", "product", "buyer", "price", "status")
	} else {
		fmt.Fprintf(c.out, "%-14s %-14s %-10s %-12s\n", "id", "product", "price", "status")
	}
	for _, o := range orders {
		if withBuyer {
			fmt.Fprintf(c.out, "%-14s %-14s %-14s %-10s %-12s\n", o.ID, o.ProductID, o.BuyerID, o.Price.String(), o.Status)
		} else {
			fmt.Fprintf(c.out, "%-14s %-14s %-10s %-12s\n", o.ID, o.ProductID, o.Price.String(), o.Status)
		}
	}
	fmt.Fprintf(c.out, "%d order(s)\n", len(orders))
}
