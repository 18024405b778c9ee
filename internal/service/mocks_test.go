package service

import (
	"context"
	"sync"
	"time"

	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/cache"
	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/domain"
	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockCartRepository implements repository.CartRepository with an in-memory
// cart per user, mirroring the document-store update semantics.
type MockCartRepository struct {
	mu    sync.Mutex
	Carts map[primitive.ObjectID]*domain.Cart

	GetCalls int

	GetErr    error
	AddErr    error
	UpdateErr error
	RemoveErr error
	DeleteErr error
}

func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{Carts: make(map[primitive.ObjectID]*domain.Cart)}
}

func (m *MockCartRepository) GetCart(_ context.Context, userID primitive.ObjectID) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	cart, ok := m.Carts[userID]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	return copyCart(cart), nil
}

func (m *MockCartRepository) AddItem(_ context.Context, userID primitive.ObjectID, item domain.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AddErr != nil {
		return m.AddErr
	}
	cart, ok := m.Carts[userID]
	if !ok {
		cart = &domain.Cart{ID: primitive.NewObjectID(), UserID: userID, CreatedAt: time.Now()}
		m.Carts[userID] = cart
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	replaced := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == item.ProductID && cart.Items[i].Size == item.Size {
			cart.Items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		cart.Items = append(cart.Items, item)
	}
	cart.UpdatedAt = time.Now()
	return nil
}

func (m *MockCartRepository) UpdateItemQuantity(_ context.Context, userID primitive.ObjectID, itemID string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	cart, ok := m.Carts[userID]
	if !ok {
		return repository.ErrItemNotFound
	}
	for i := range cart.Items {
		if cart.Items[i].ItemID == itemID {
			cart.Items[i].Quantity = quantity
			cart.UpdatedAt = time.Now()
			return nil
		}
	}
	return repository.ErrItemNotFound
}

func (m *MockCartRepository) RemoveItem(_ context.Context, userID primitive.ObjectID, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	cart, ok := m.Carts[userID]
	if !ok {
		return repository.ErrCartNotFound
	}
	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ItemID != itemID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept
	cart.UpdatedAt = time.Now()
	return nil
}

func (m *MockCartRepository) DeleteCart(_ context.Context, userID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.Carts[userID]; !ok {
		return repository.ErrCartNotFound
	}
	delete(m.Carts, userID)
	return nil
}

func copyCart(cart *domain.Cart) *domain.Cart {
	dup := *cart
	dup.Items = append([]domain.CartItem(nil), cart.Items...)
	return &dup
}

// MockProductRepository implements repository.ProductRepository with an
// in-memory catalog. GetBarrier, when set, holds every GetByID call until
// all expected callers have arrived, so concurrent reads observe the same
// stale stock.
type MockProductRepository struct {
	mu       sync.Mutex
	Products map[primitive.ObjectID]*domain.Product

	GetBarrier *sync.WaitGroup

	GetErr    error
	AdjustErr error
}

func NewMockProductRepository(products ...*domain.Product) *MockProductRepository {
	m := &MockProductRepository{Products: make(map[primitive.ObjectID]*domain.Product)}
	for _, p := range products {
		m.Products[p.ID] = p
	}
	return m
}

func (m *MockProductRepository) List(_ context.Context, _ repository.ProductFilter) ([]*domain.Product, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Product, 0, len(m.Products))
	for _, p := range m.Products {
		dup := *p
		out = append(out, &dup)
	}
	return out, int64(len(out)), nil
}

func (m *MockProductRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Product, error) {
	m.mu.Lock()
	if m.GetErr != nil {
		m.mu.Unlock()
		return nil, m.GetErr
	}
	p, ok := m.Products[id]
	if !ok {
		m.mu.Unlock()
		return nil, repository.ErrProductNotFound
	}
	dup := *p
	m.mu.Unlock()
	// The snapshot is taken before parking at the barrier so every caller
	// held here returns the same stale stock once released.
	if m.GetBarrier != nil {
		m.GetBarrier.Done()
		m.GetBarrier.Wait()
	}
	return &dup, nil
}

func (m *MockProductRepository) Create(_ context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	dup := *product
	m.Products[product.ID] = &dup
	return nil
}

func (m *MockProductRepository) Update(_ context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	dup := *product
	m.Products[product.ID] = &dup
	return nil
}

func (m *MockProductRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.Products, id)
	return nil
}

func (m *MockProductRepository) SetStock(_ context.Context, id primitive.ObjectID, stock int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	p.Stock = stock
	return nil
}

func (m *MockProductRepository) AdjustStock(_ context.Context, id primitive.ObjectID, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AdjustErr != nil {
		return m.AdjustErr
	}
	p, ok := m.Products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	p.Stock += delta
	return nil
}

func (m *MockProductRepository) SetRating(_ context.Context, id primitive.ObjectID, average float64, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	p.Rating = domain.Rating{Average: average, Count: count}
	return nil
}

func (m *MockProductRepository) Stock(id primitive.ObjectID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Products[id].Stock
}

// MockOrderRepository implements repository.OrderRepository for testing.
type MockOrderRepository struct {
	mu     sync.Mutex
	Orders map[primitive.ObjectID]*domain.Order

	Delivered    bool // HasDeliveredOrderWithProduct answer
	DeliveredErr error
	CreateErr    error
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{Orders: make(map[primitive.ObjectID]*domain.Order)}
}

func (m *MockOrderRepository) Create(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	dup := *order
	m.Orders[order.ID] = &dup
	return nil
}

func (m *MockOrderRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.Orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	dup := *order
	return &dup, nil
}

func (m *MockOrderRepository) ListByUser(_ context.Context, userID primitive.ObjectID) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Order
	for _, order := range m.Orders {
		if order.UserID == userID {
			dup := *order
			out = append(out, &dup)
		}
	}
	return out, nil
}

func (m *MockOrderRepository) ListAll(_ context.Context) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Order
	for _, order := range m.Orders {
		dup := *order
		out = append(out, &dup)
	}
	return out, nil
}

func (m *MockOrderRepository) UpdateStatus(_ context.Context, id primitive.ObjectID, status domain.OrderStatus, deliveredAt *time.Time) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.Orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	order.Status = status
	if deliveredAt != nil {
		order.DeliveredAt = deliveredAt
	}
	order.UpdatedAt = time.Now()
	dup := *order
	return &dup, nil
}

func (m *MockOrderRepository) Delete(_ context.Context, id primitive.ObjectID) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.Orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	delete(m.Orders, id)
	return order, nil
}

func (m *MockOrderRepository) HasDeliveredOrderWithProduct(_ context.Context, _, _ primitive.ObjectID) (bool, error) {
	return m.Delivered, m.DeliveredErr
}

// MockReviewRepository implements repository.ReviewRepository for testing.
type MockReviewRepository struct {
	mu      sync.Mutex
	Reviews map[primitive.ObjectID]*domain.Review

	CreateErr error
}

func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{Reviews: make(map[primitive.ObjectID]*domain.Review)}
}

func (m *MockReviewRepository) Create(_ context.Context, review *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	review.CreatedAt = time.Now()
	dup := *review
	m.Reviews[review.ID] = &dup
	return nil
}

func (m *MockReviewRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	review, ok := m.Reviews[id]
	if !ok {
		return nil, repository.ErrReviewNotFound
	}
	dup := *review
	return &dup, nil
}

func (m *MockReviewRepository) ListByProduct(_ context.Context, productID primitive.ObjectID) ([]*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Review
	for _, review := range m.Reviews {
		if review.ProductID == productID {
			dup := *review
			out = append(out, &dup)
		}
	}
	return out, nil
}

func (m *MockReviewRepository) ExistsForUserProduct(_ context.Context, userID, productID primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, review := range m.Reviews {
		if review.UserID == userID && review.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockReviewRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Reviews[id]; !ok {
		return repository.ErrReviewNotFound
	}
	delete(m.Reviews, id)
	return nil
}

func (m *MockReviewRepository) AggregateRating(_ context.Context, productID primitive.ObjectID) (float64, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum, count int
	for _, review := range m.Reviews {
		if review.ProductID == productID {
			sum += review.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

// MockUserRepository implements repository.UserRepository for testing.
type MockUserRepository struct {
	mu    sync.Mutex
	Users map[primitive.ObjectID]*domain.User
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[primitive.ObjectID]*domain.User)}
}

func (m *MockUserRepository) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.Users {
		if existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now()
	dup := *user
	m.Users[user.ID] = &dup
	return nil
}

func (m *MockUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.Users {
		if user.Email == email {
			dup := *user
			return &dup, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *MockUserRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.Users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	dup := *user
	return &dup, nil
}

// MockCartCache implements cache.CartCache for testing.
type MockCartCache struct {
	mu      sync.Mutex
	Entries map[string]*domain.Cart
	Deletes []string

	GetErr error
	SetErr error
}

func NewMockCartCache() *MockCartCache {
	return &MockCartCache{Entries: make(map[string]*domain.Cart)}
}

func (m *MockCartCache) Get(_ context.Context, userID string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	cart, ok := m.Entries[userID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return copyCart(cart), nil
}

func (m *MockCartCache) Set(_ context.Context, userID string, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Entries[userID] = copyCart(cart)
	return nil
}

func (m *MockCartCache) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletes = append(m.Deletes, userID)
	delete(m.Entries, userID)
	return nil
}

// MockOrderEvents records published order events.
type MockOrderEvents struct {
	mu            sync.Mutex
	Created       []*domain.Order
	StatusChanged []*domain.Order
}

func (m *MockOrderEvents) OrderCreated(_ context.Context, order *domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Created = append(m.Created, order)
}

func (m *MockOrderEvents) OrderStatusChanged(_ context.Context, order *domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatusChanged = append(m.StatusChanged, order)
}

func (m *MockOrderEvents) CreatedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Created)
}
