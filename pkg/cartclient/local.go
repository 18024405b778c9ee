package cartclient

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// LocalStore keeps the cart in memory, optionally persisted to a JSON file
// between runs. It validates against the product data the caller supplies,
// the same checks the server would apply.
type LocalStore struct {
	mu   sync.Mutex
	path string // empty keeps the cart in memory only
	cart Cart
}

func NewLocalStore(path string) *LocalStore {
	s := &LocalStore{path: path}
	s.load()
	return s
}

func (s *LocalStore) Get(_ context.Context) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(), nil
}

func (s *LocalStore) Add(_ context.Context, product Product, size string, quantity int) (*Cart, error) {
	if err := validateAdd(product, size, quantity); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	newQuantity := quantity
	if line := s.cart.find(product.ID, size); line != nil {
		newQuantity += line.Quantity
	}
	if newQuantity > product.Stock {
		return nil, &RejectedError{Message: fmt.Sprintf("insufficient stock for %s: only %d available", product.Name, product.Stock)}
	}

	if line := s.cart.find(product.ID, size); line != nil {
		// Merge: quantities sum, price and stock snapshots refresh.
		line.Quantity = newQuantity
		line.Price = product.Price
		line.Name = product.Name
		line.Stock = product.Stock
	} else {
		s.cart.Lines = append(s.cart.Lines, Line{
			ProductID: product.ID,
			Name:      product.Name,
			Size:      size,
			Quantity:  quantity,
			Price:     product.Price,
			Stock:     product.Stock,
		})
	}

	s.persist()
	return s.snapshot(), nil
}

func (s *LocalStore) UpdateQuantity(_ context.Context, productID, size string, quantity int) (*Cart, error) {
	if quantity < 1 {
		return nil, &RejectedError{Message: "quantity must be at least 1"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	line := s.cart.find(productID, size)
	if line == nil {
		return nil, &RejectedError{Message: "item not found in cart"}
	}
	if quantity > line.Stock {
		return nil, &RejectedError{Message: fmt.Sprintf("insufficient stock for %s: only %d available", line.Name, line.Stock)}
	}
	line.Quantity = quantity

	s.persist()
	return s.snapshot(), nil
}

// Remove is idempotent: removing an absent line is a no-op success.
func (s *LocalStore) Remove(_ context.Context, productID, size string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, line := range s.cart.Lines {
		if line.ProductID == productID && line.Size == size {
			s.cart.Lines = append(s.cart.Lines[:i], s.cart.Lines[i+1:]...)
			break
		}
	}

	s.persist()
	return s.snapshot(), nil
}

func (s *LocalStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Lines = nil
	s.persist()
	return nil
}

func (s *LocalStore) snapshot() *Cart {
	lines := make([]Line, len(s.cart.Lines))
	copy(lines, s.cart.Lines)
	return &Cart{Lines: lines}
}

func (s *LocalStore) load() {
	if s.path == "" {
		return
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return // first run or unreadable file starts empty
	}
	var cart Cart
	if json.Unmarshal(data, &cart) == nil {
		s.cart = cart
	}
}

func (s *LocalStore) persist() {
	if s.path == "" {
		return
	}
	data, err := json.Marshal(s.cart)
	if err != nil {
		return
	}
	_ = os.WriteFile(s.path, data, 0o600)
}
