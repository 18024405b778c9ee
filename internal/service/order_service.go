package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/domain"
	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderLine is a checkout request line. Price is deliberately absent: the
// order snapshots the product's current price, never the client's.
type OrderLine struct {
	ProductID primitive.ObjectID `json:"product"`
	Size      string             `json:"size"`
	Quantity  int                `json:"quantity"`
}

// OrderEvents receives order lifecycle notifications. Publish failures must
// not fail the order; implementations log and move on.
type OrderEvents interface {
	OrderCreated(ctx context.Context, order *domain.Order)
	OrderStatusChanged(ctx context.Context, order *domain.Order)
}

type OrderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	events   OrderEvents
}

func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, events OrderEvents) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		events:   events,
	}
}

// Create converts the request lines into a priced, immutable order. Stock is
// re-validated against the live product per line, and each decrement is
// persisted immediately. The per-line sequence is not transactional: a
// failure partway through leaves earlier decrements in place with no order
// created.
func (s *OrderService) Create(ctx context.Context, userID primitive.ObjectID, lines []OrderLine, shipping domain.ShippingInfo, method domain.PaymentMethod) (*domain.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	if !shipping.Complete() {
		return nil, ErrShippingIncomplete
	}
	if method == "" {
		method = domain.PaymentCashOnDelivery
	}
	if method != domain.PaymentCashOnDelivery {
		return nil, ErrUnsupportedPayment
	}
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	items := make([]domain.OrderItem, 0, len(lines))
	var itemsPrice float64

	for _, line := range lines {
		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product.Stock < line.Quantity {
			return nil, &InsufficientStockError{ProductName: product.Name, Available: product.Stock}
		}

		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Image:     product.FirstImage(),
			Price:     product.Price,
			Size:      line.Size,
			Quantity:  line.Quantity,
		})
		itemsPrice += product.Price * float64(line.Quantity)

		if err := s.products.AdjustStock(ctx, product.ID, -line.Quantity); err != nil {
			return nil, err
		}
	}

	taxPrice := itemsPrice * domain.TaxRate

	order := &domain.Order{
		OrderNumber:  domain.NewOrderNumber(),
		UserID:       userID,
		Items:        items,
		ShippingInfo: shipping,
		Payment: domain.PaymentInfo{
			Method: method,
			Status: domain.PaymentStatusPending,
		},
		ItemsPrice:    itemsPrice,
		TaxPrice:      taxPrice,
		ShippingPrice: domain.ShippingFee,
		TotalPrice:    itemsPrice + taxPrice + domain.ShippingFee,
		Status:        domain.OrderStatusPending,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.events.OrderCreated(ctx, order)
	return order, nil
}

func (s *OrderService) GetByID(ctx context.Context, id, requesterID primitive.ObjectID, isAdmin bool) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && order.UserID != requesterID {
		return nil, ErrForbidden
	}
	return order, nil
}

func (s *OrderService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *OrderService) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.ListAll(ctx)
}

// UpdateStatus sets any known status; transitions are not constrained to
// move forward. Reaching delivered stamps the delivery timestamp.
func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.OrderStatus) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}

	var deliveredAt *time.Time
	if status == domain.OrderStatusDelivered {
		now := time.Now()
		deliveredAt = &now
	}

	order, err := s.orders.UpdateStatus(ctx, id, status, deliveredAt)
	if err != nil {
		return nil, err
	}

	s.events.OrderStatusChanged(ctx, order)
	return order, nil
}

// Delete removes the order and restores stock for every line. Deleting an
// order that is already gone reports not-found and restores nothing, so a
// repeated delete cannot double-restore.
func (s *OrderService) Delete(ctx context.Context, id primitive.ObjectID) error {
	order, err := s.orders.Delete(ctx, id)
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		if err := s.products.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				continue // product deleted since the order was placed
			}
			log.Printf("restore stock for product %s failed: %v", item.ProductID.Hex(), err)
		}
	}

	return nil
}
