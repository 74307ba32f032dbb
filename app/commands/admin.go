package commands

import (
	"fmt"
	"io"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/collection"
	"github.com/shashiranjanraj/bazaar/pkg/command"
	"github.com/shashiranjanraj/bazaar/pkg/repository"
)

// Admin handles oversight: user management plus unfiltered listings of
// products, orders and reviews. Registered last, so a logged-in admin's
// "product"/"order"/"review" resolve here.
type Admin struct {
	users    *repository.Repository[models.User]
	products *repository.Repository[models.Product]
	orders   *repository.Repository[models.Order]
	reviews  *repository.Repository[models.Review]
	accounts *services.Accounts
	out      io.Writer
}

func NewAdmin(users *repository.Repository[models.User], products *repository.Repository[models.Product], orders *repository.Repository[models.Order], reviews *repository.Repository[models.Review], accounts *services.Accounts, out io.Writer) *Admin {
	return &Admin{users: users, products: products, orders: orders, reviews: reviews, accounts: accounts, out: out}
}

func (c *Admin) Register(reg *command.Registry) {
	reg.Register("user", "users: list | ban <userID> | unban <userID>", c.user, roleAdmin)
	reg.Register("product", "list every product: all", c.product, roleAdmin)
	reg.Register("order", "list every order: all", c.order, roleAdmin)
	reg.Register("review", "list every review: all", c.review, roleAdmin)
}

func (c *Admin) user(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: user list | ban <userID> | unban <userID>")
	}
	switch args[0] {
	case "list":
		return c.listUsers()
	case "ban":
		if len(args) < 2 {
			return fmt.Errorf("usage: user ban <userID>")
		}
		u, err := c.accounts.Ban(args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "banned %s\n", u.Username)
		return nil
	case "unban":
		if len(args) < 2 {
			return fmt.Errorf("usage: user unban <userID>")
		}
		u, err := c.accounts.Unban(args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "unbanned %s\n", u.Username)
		return nil
	default:
		return fmt.Errorf("unknown user action %q", args[0])
	}
}

func (c *Admin) listUsers() error {
	users := c.users.FindAll()
	if len(users) == 0 {
		fmt.Fprintln(c.out, "no users")
		return nil
	}
	collection.SortBy(users, func(a, b models.User) bool { return a.CreatedAt.Before(b.CreatedAt) })
	fmt.Fprintf(c.out, "%-14s %-16s %-8s %-8s %-16s\n", "id", "username", "role", "status", "created")
	for _, u := range users {
		status := "active"
		if u.Banned {
			status = "banned"
		}
		fmt.Fprintf(c.out, "%-14s %-16s %-8s %-8s %-16s\n",
			u.ID, truncate(u.Username, 16), u.Role, status, formatTime(u.CreatedAt))
	}
	fmt.Fprintf(c.out, "%d user(s)\n", len(users))
	return nil
}

func (c *Admin) product(args []string) error {
	if len(args) == 0 || args[0] != "all" {
		return fmt.Errorf("usage: product all")
	}
	products := c.products.FindAll()
	if len(products) == 0 {
		fmt.Fprintln(c.out, "no products")
		return nil
	}
	collection.SortBy(products, func(a, b models.Product) bool { return a.CreatedAt.Before(b.CreatedAt) })
	fmt.Fprintf(c.out, "%-14s %-24s %-12s %-10s %-14s %-10s\n", "id", "name", "category", "price", "seller", "status")
	for _, p := range products {
		fmt.Fprintf(c.out, "%-14s %-24s %-12s %-10s %-14s %-10s\n",
			p.ID, truncate(p.Name, 24), truncate(p.Category, 12), p.Price.String(), p.SellerID, p.Status)
	}
	fmt.Fprintf(c.out, "%d product(s)\n", len(products))
	return nil
}

func (c *Admin) order(args []string) error {
	if len(args) == 0 || args[0] != "all" {
		return fmt.Errorf("usage: order all")
	}
	orders := c.orders.FindAll()
	if len(orders) == 0 {
		fmt.Fprintln(c.out, "no orders")
		return nil
	}
	collection.SortBy(orders, func(a, b models.Order) bool { return a.CreatedAt.Before(b.CreatedAt) })
	fmt.Fprintf(c.out, "%-14s %-14s %-14s %-14s %-10s %-12s\n", "id", "product", "buyer", "seller", "price", "status")
	for _, o := range orders {
		fmt.Fprintf(c.out, "%-14s %-14s %-14s %-14s %-10s %-12s\n",
			o.ID, o.ProductID, o.BuyerID, o.SellerID, o.Price.String(), o.Status)
	}
	fmt.Fprintf(c.out, "%d order(s)\n", len(orders))
	return nil
}

func (c *Admin) review(args []string) error {
	if len(args) == 0 || args[0] != "all" {
		return fmt.Errorf("usage: review all")
	}
	reviews := c.reviews.FindAll()
	if len(reviews) == 0 {
		fmt.Fprintln(c.out, "no reviews")
		return nil
	}
	collection.SortBy(reviews, func(a, b models.Review) bool { return a.CreatedAt.Before(b.CreatedAt) })
	fmt.Fprintf(c.out, "%-14s %-14s %-14s %-7s %s\n", "id", "order", "buyer", "rating", "comment")
	for _, rv := range reviews {
		fmt.Fprintf(c.out, "%-14s %-14s %-14s %-7s %s\n",
			rv.ID, rv.OrderID, rv.BuyerID, stars(rv.Rating), truncate(rv.Comment, 40))
	}
	fmt.Fprintf(c.out, "%d review(s)\n", len(reviews))
	return nil
}
