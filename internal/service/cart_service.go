package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/cache"
	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/domain"
	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/repository"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"
)

// CartLine is a cart line decorated with live product data for the UI. The
// price stays the snapshot captured when the line was added.
type CartLine struct {
	domain.CartItem
	Name  string `json:"name"`
	Image string `json:"image"`
	Stock int    `json:"stock"`
}

type CartView struct {
	Items       []CartLine `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type CartService struct {
	repo     repository.CartRepository
	products repository.ProductRepository
	cache    cache.CartCache
	sfg      singleflight.Group // Prevents cache stampede
}

func NewCartService(repo repository.CartRepository, products repository.ProductRepository, cache cache.CartCache) *CartService {
	return &CartService{
		repo:     repo,
		products: products,
		cache:    cache,
	}
}

func (s *CartService) GetCart(ctx context.Context, userID primitive.ObjectID) (*CartView, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(userID.Hex(), func() (interface{}, error) {

		cart, err := s.cache.Get(ctx, userID.Hex())
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		cart, errGet := s.repo.GetCart(ctx, userID)
		if errGet != nil && errors.Is(errGet, repository.ErrCartNotFound) { // absent cart is an empty cart
			return &domain.Cart{
				UserID:    userID,
				Items:     nil,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}, nil
		}
		if errGet != nil {
			return nil, errGet
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), userID.Hex(), cart)
			if errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return s.decorate(ctx, v.(*domain.Cart)), nil
}

// AddItem validates size and stock against the live product, merges with an
// existing product+size line by summing quantities, and refreshes the price
// snapshot to the product's current price on merge.
func (s *CartService) AddItem(ctx context.Context, userID, productID primitive.ObjectID, size string, quantity int) (*CartView, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.HasSize(size) {
		return nil, ErrInvalidSize
	}

	item := domain.CartItem{
		ItemID:    uuid.NewString(),
		ProductID: productID,
		Size:      size,
		Quantity:  quantity,
		Price:     product.Price,
	}

	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		return nil, err
	}
	if cart != nil {
		if line := cart.FindLine(productID, size); line != nil {
			item.ItemID = line.ItemID
			item.Quantity = line.Quantity + quantity
		}
	}

	if item.Quantity > product.Stock {
		return nil, &InsufficientStockError{ProductName: product.Name, Available: product.Stock}
	}

	if err := s.repo.AddItem(ctx, userID, item); err != nil {
		log.Printf("repo add item error: %v", err)
		return nil, err
	}

	s.invalidateCache(userID)
	return s.GetCart(ctx, userID)
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID primitive.ObjectID, itemID string, quantity int) (*CartView, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, repository.ErrItemNotFound
		}
		return nil, err
	}

	line := cart.FindItem(itemID)
	if line == nil {
		return nil, repository.ErrItemNotFound
	}

	product, err := s.products.GetByID(ctx, line.ProductID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Stock {
		return nil, &InsufficientStockError{ProductName: product.Name, Available: product.Stock}
	}

	if err := s.repo.UpdateItemQuantity(ctx, userID, itemID, quantity); err != nil {
		log.Printf("repo update item quantity error: %v", err)
		return nil, err
	}

	s.invalidateCache(userID)
	return s.GetCart(ctx, userID)
}

// RemoveItem is idempotent: removing an absent line (or from an absent cart)
// is a no-op success.
func (s *CartService) RemoveItem(ctx context.Context, userID primitive.ObjectID, itemID string) (*CartView, error) {
	err := s.repo.RemoveItem(ctx, userID, itemID)
	if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		log.Printf("repo remove item error: %v", err)
		return nil, err
	}

	s.invalidateCache(userID)
	return s.GetCart(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) error {
	err := s.repo.DeleteCart(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		log.Printf("repo delete cart error: %v", err)
		return err
	}

	s.invalidateCache(userID)
	return nil
}

// decorate joins each line with live product data and recomputes the total.
// Lines whose product has since been deleted keep their snapshot price and
// report zero stock.
func (s *CartService) decorate(ctx context.Context, cart *domain.Cart) *CartView {
	view := &CartView{
		Items:     make([]CartLine, 0, len(cart.Items)),
		UpdatedAt: cart.UpdatedAt,
	}

	for _, item := range cart.Items {
		line := CartLine{CartItem: item}
		product, err := s.products.GetByID(ctx, item.ProductID)
		if err == nil {
			line.Name = product.Name
			line.Image = product.FirstImage()
			line.Stock = product.Stock
		} else if !errors.Is(err, repository.ErrProductNotFound) {
			log.Printf("decorate cart line error: %v", err)
		}
		view.Items = append(view.Items, line)
		view.TotalAmount += item.Price * float64(item.Quantity)
	}

	return view
}

func (s *CartService) invalidateCache(userID primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	errInvalidate := s.cache.Delete(ctx, userID.Hex())
	if errInvalidate != nil {
		log.Printf("cache invalidate error: %v", errInvalidate)
	}
}
