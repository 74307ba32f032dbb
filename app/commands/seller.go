package commands

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/app/session"
	"github.com/shashiranjanraj/bazaar/pkg/collection"
	"github.com/shashiranjanraj/bazaar/pkg/command"
	"github.com/shashiranjanraj/bazaar/pkg/prompt"
	"github.com/shashiranjanraj/bazaar/pkg/repository"
)

// Seller handles the selling side. Its "product" and "order" operations
// register after Buyer's, so a logged-in seller resolves to these.
type Seller struct {
	orders    *repository.Repository[models.Order]
	products  *repository.Repository[models.Product]
	sess      *session.Session
	lifecycle *services.Lifecycle
	prompt    prompt.Prompter
	out       io.Writer
}

func NewSeller(products *repository.Repository[models.Product], orders *repository.Repository[models.Order], sess *session.Session, lifecycle *services.Lifecycle, p prompt.Prompter, out io.Writer) *Seller {
	return &Seller{products: products, orders: orders, sess: sess, lifecycle: lifecycle, prompt: p, out: out}
}

func (c *Seller) Register(reg *command.Registry) {
	reg.Register("product", "products: add | my | edit <productID> | remove <productID>", c.product, roleSeller)
	reg.Register("order", "orders: for-me | confirm-ship <orderID>", c.order, roleSeller)
}

func (c *Seller) current() models.User {
	u, _ := c.sess.Current()
	return u
}

func (c *Seller) product(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: product add | my | edit <productID> | remove <productID>")
	}
	switch args[0] {
	case "add":
		return c.addProduct()
	case "my":
		return c.myProducts()
	case "edit":
		return c.editProduct(args[1:])
	case "remove":
		return c.removeProduct(args[1:])
	default:
		return fmt.Errorf("unknown product action %q", args[0])
	}
}

func (c *Seller) addProduct() error {
	name, err := c.prompt.Ask("name")
	if err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("%w: name is required", services.ErrInvalidArgument)
	}
	description, err := c.prompt.Ask("description")
	if err != nil {
		return err
	}
	category, err := c.prompt.Ask("category")
	if err != nil {
		return err
	}
	priceStr, err := c.prompt.Ask("price")
	if err != nil {
		return err
	}
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return fmt.Errorf("%w: bad price %q", services.ErrInvalidArgument, priceStr)
	}

	p, err := c.lifecycle.AddProduct(c.current(), name, description, category, price)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "listed %s: %s at %s\n", p.ID, p.Name, p.Price)
	return nil
}

func (c *Seller) myProducts() error {
	me := c.current()
	products := c.products.FindBy(func(p models.Product) bool {
		return p.SellerID == me.ID && p.Status != models.ProductRemoved
	})
	if len(products) == 0 {
		fmt.Fprintln(c.out, "you have no listed products")
		return nil
	}
	collection.SortBy(products, func(a, b models.Product) bool { return a.CreatedAt.Before(b.CreatedAt) })
	fmt.Fprintf(c.out, "%-14s %-24s %-12s %-10s %-10s\n", "id", "name", "category", "price", "status")
	for _, p := range products {
		fmt.Fprintf(c.out, "%-14s %-24s %-12s %-10s %-10s\n",
			p.ID, truncate(p.Name, 24), truncate(p.Category, 12), p.Price.String(), p.Status)
	}
	fmt.Fprintf(c.out, "%d product(s)\n", len(products))
	return nil
}

// editProduct re-prompts every field; a blank answer keeps the old value.
func (c *Seller) editProduct(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: product edit <productID>")
	}
	p, ok := c.products.FindByID(args[0])
	if !ok {
		return fmt.Errorf("product %s: %w", args[0], services.ErrNotFound)
	}

	var upd services.ProductUpdate
	if name, err := c.prompt.Ask(fmt.Sprintf("name [%s]", p.Name)); err != nil {
		return err
	} else if name != "" {
		upd.Name = &name
	}
	if description, err := c.prompt.Ask(fmt.Sprintf("description [%s]", p.Description)); err != nil {
		return err
	} else if description != "" {
		upd.Description = &description
	}
	if category, err := c.prompt.Ask(fmt.Sprintf("category [%s]", p.Category)); err != nil {
		return err
	} else if category != "" {
		upd.Category = &category
	}
	if priceStr, err := c.prompt.Ask(fmt.Sprintf("price [%s]", p.Price)); err != nil {
		return err
	} else if priceStr != "" {
		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return fmt.Errorf("%w: bad price %q", services.ErrInvalidArgument, priceStr)
		}
		upd.Price = &price
	}

	if _, err := c.lifecycle.UpdateProduct(c.current(), p.ID, upd); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "product %s updated\n", p.ID)
	return nil
}

func (c *Seller) removeProduct(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: product remove <productID>")
	}
	p, err := c.lifecycle.RetireProduct(c.current(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "product %s removed from sale\n", p.ID)
	return nil
}

func (c *Seller) order(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: order for-me | confirm-ship <orderID>")
	}
	switch args[0] {
	case "for-me":
		return c.ordersForMe()
	case "confirm-ship":
		return c.confirmShip(args[1:])
	default:
		return fmt.Errorf("unknown order action %q", args[0])
	}
}

func (c *Seller) ordersForMe() error {
	me := c.current()
	orders := c.orders.FindBy(func(o models.Order) bool { return o.SellerID == me.ID })
	if len(orders) == 0 {
		fmt.Fprintln(c.out, "no orders yet")
		return nil
	}
	collection.SortBy(orders, func(a, b models.Order) bool { return a.CreatedAt.Before(b.CreatedAt) })
	fmt.Fprintf(c.out, "%-14s %-14s %-14s %-10s %-12s\n", "id", "product", "buyer", "price", "status")
	for _, o := range orders {
		fmt.Fprintf(c.out, "%-14s %-14s %-14s %-10s %-12s\n", o.ID, o.ProductID, o.BuyerID, o.Price.String(), o.Status)
	}
	fmt.Fprintf(c.out, "%d order(s)\n", len(orders))
	return nil
}

func (c *Seller) confirmShip(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: order confirm-ship <orderID>")
	}
	o, err := c.lifecycle.ShipOrder(c.current(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "order %s shipped, waiting for the buyer to confirm receipt\n", o.ID)
	return nil
}
