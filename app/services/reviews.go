package services

import (
	"fmt"
	"time"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/id"
	"github.com/shashiranjanraj/bazaar/pkg/repository"
)

// Reviews gates review submission on order state: only the buyer of a
// Completed order may review it, exactly once. The uniqueness check is a
// check-then-act region, safe under the single-writer dispatch loop.
type Reviews struct {
	orders  *repository.Repository[models.Order]
	reviews *repository.Repository[models.Review]
}

func NewReviews(orders *repository.Repository[models.Order], reviews *repository.Repository[models.Review]) *Reviews {
	return &Reviews{orders: orders, reviews: reviews}
}

// Add creates the review for orderID.
func (r *Reviews) Add(buyer models.User, orderID string, rating int, comment string) (models.Review, error) {
	if rating < 1 || rating > 5 {
		return models.Review{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidArgument)
	}
	o, ok := r.orders.FindByID(orderID)
	if !ok {
		return models.Review{}, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	if o.BuyerID != buyer.ID {
		return models.Review{}, fmt.Errorf("order %s: %w", orderID, ErrNotOwner)
	}
	if o.Status != models.OrderCompleted {
		return models.Review{}, fmt.Errorf("only completed orders can be reviewed: %w", ErrInvalidTransition)
	}
	if existing := r.reviews.FindBy(func(rv models.Review) bool { return rv.OrderID == orderID }); len(existing) > 0 {
		return models.Review{}, ErrDuplicateReview
	}

	rv := models.Review{
		ID:        id.New("REV"),
		OrderID:   o.ID,
		ProductID: o.ProductID,
		BuyerID:   o.BuyerID,
		SellerID:  o.SellerID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	}
	if err := r.reviews.Save(rv); err != nil {
		return models.Review{}, err
	}
	return rv, nil
}

// ForProduct returns all reviews of a product.
func (r *Reviews) ForProduct(productID string) []models.Review {
	return r.reviews.FindBy(func(rv models.Review) bool { return rv.ProductID == productID })
}
