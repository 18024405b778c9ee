package service

import (
	"context"
	"log"

	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/domain"
	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewService struct {
	reviews  repository.ReviewRepository
	orders   repository.OrderRepository
	products repository.ProductRepository
}

func NewReviewService(reviews repository.ReviewRepository, orders repository.OrderRepository, products repository.ProductRepository) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		orders:   orders,
		products: products,
	}
}

// Create adds a review for a product the user has received in a delivered
// order. Admins may review without a purchase. One review per user and
// product, enforced by an existence check.
func (s *ReviewService) Create(ctx context.Context, user *domain.User, productID primitive.ObjectID, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	exists, err := s.reviews.ExistsForUserProduct(ctx, user.ID, productID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	if !user.IsAdmin() {
		delivered, err := s.orders.HasDeliveredOrderWithProduct(ctx, user.ID, productID)
		if err != nil {
			return nil, err
		}
		if !delivered {
			return nil, ErrReviewNotAllowed
		}
	}

	review := &domain.Review{
		ProductID: productID,
		UserID:    user.ID,
		UserName:  user.Name,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	s.refreshRating(ctx, productID)
	return review, nil
}

func (s *ReviewService) ListByProduct(ctx context.Context, productID primitive.ObjectID) ([]*domain.Review, error) {
	return s.reviews.ListByProduct(ctx, productID)
}

// Delete removes a review; only the author or an admin may do so.
func (s *ReviewService) Delete(ctx context.Context, user *domain.User, reviewID primitive.ObjectID) error {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if !user.IsAdmin() && review.UserID != user.ID {
		return ErrForbidden
	}

	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		return err
	}

	s.refreshRating(ctx, review.ProductID)
	return nil
}

func (s *ReviewService) refreshRating(ctx context.Context, productID primitive.ObjectID) {
	average, count, err := s.reviews.AggregateRating(ctx, productID)
	if err != nil {
		log.Printf("aggregate rating error: %v", err)
		return
	}
	if err := s.products.SetRating(ctx, productID, average, count); err != nil {
		log.Printf("set rating error: %v", err)
	}
}
