package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/auth"
	"github.com/shashiranjanraj/bazaar/pkg/id"
	"github.com/shashiranjanraj/bazaar/pkg/repository"
)

// SeedDemo populates empty repositories with demo accounts and listings:
// admin/buyer1/seller1 (password "123456") and three products by seller1.
func SeedDemo(users *repository.Repository[models.User], products *repository.Repository[models.Product]) error {
	hash, err := auth.HashPassword("123456")
	if err != nil {
		return fmt.Errorf("seed: hash password: %w", err)
	}

	now := time.Now()
	newUser := func(username string, role models.Role, email string) (models.User, error) {
		u := models.User{
			ID:           id.New("USR"),
			Username:     username,
			PasswordHash: hash,
			Email:        email,
			Role:         role,
			CreatedAt:    now,
		}
		return u, users.Save(u)
	}

	if _, err := newUser("admin", models.RoleAdmin, "admin@campus.edu"); err != nil {
		return err
	}
	if _, err := newUser("buyer1", models.RoleBuyer, "buyer1@campus.edu"); err != nil {
		return err
	}
	seller, err := newUser("seller1", models.RoleSeller, "seller1@campus.edu")
	if err != nil {
		return err
	}

	listings := []struct {
		name, description, category string
		price                       string
	}{
		{"Java textbook", "CS course book, barely used, no notes", "books", "50.00"},
		{"Bicycle", "Campus commuter, two years old, runs fine", "transport", "200.00"},
		{"Desk lamp", "LED lamp with adjustable brightness", "household", "80.00"},
	}
	for _, it := range listings {
		price, err := decimal.NewFromString(it.price)
		if err != nil {
			return fmt.Errorf("seed: price %q: %w", it.price, err)
		}
		p := models.Product{
			ID:          id.New("PRD"),
			Name:        it.name,
			Description: it.description,
			Category:    it.category,
			Price:       price,
			SellerID:    seller.ID,
			Status:      models.ProductAvailable,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := products.Save(p); err != nil {
			return err
		}
	}
	return nil
}
