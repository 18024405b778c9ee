package service

import (
	"context"
	"errors"

	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/domain"
	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidCategory = errors.New("unknown category")
	ErrInvalidGender   = errors.New("unknown gender")
	ErrNoSizes         = errors.New("at least one valid size is required")
	ErrInvalidStock    = errors.New("stock must not be negative")
	ErrMissingName     = errors.New("product name is required")
)

type ProductService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	return s.repo.List(ctx, filter)
}

func (s *ProductService) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, product *domain.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	return s.repo.Create(ctx, product)
}

func (s *ProductService) Update(ctx context.Context, product *domain.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	return s.repo.Update(ctx, product)
}

// Delete is unguarded: products referenced by historical orders can be
// removed, their order lines keep only the snapshot.
func (s *ProductService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.Delete(ctx, id)
}

// SetStock is an absolute write with no locking discipline; it can race with
// checkout decrements, last write wins.
func (s *ProductService) SetStock(ctx context.Context, id primitive.ObjectID, stock int) error {
	if stock < 0 {
		return ErrInvalidStock
	}
	return s.repo.SetStock(ctx, id, stock)
}

func validateProduct(p *domain.Product) error {
	if p.Name == "" {
		return ErrMissingName
	}
	if p.Price < 0 {
		return ErrInvalidPrice
	}
	if !domain.ValidCategory(p.Category) {
		return ErrInvalidCategory
	}
	if !domain.ValidGender(p.Gender) {
		return ErrInvalidGender
	}
	if len(p.Sizes) == 0 {
		return ErrNoSizes
	}
	for _, size := range p.Sizes {
		if !domain.ValidSize(size) {
			return ErrNoSizes
		}
	}
	if p.Stock < 0 {
		return ErrInvalidStock
	}
	return nil
}
