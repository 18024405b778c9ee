// Package cartclient presents a single logical cart backed by two stores:
// the authenticated server cart and a local offline cart. A reconciler
// tries the server first and falls back to local storage when the server is
// unreachable, so the shopper keeps a working cart across outages.
package cartclient

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnreachable classifies transport-level failures: the server could not
// be reached at all. Only this class triggers local fallback.
var ErrUnreachable = errors.New("server unreachable")

// RejectedError is a business-rule rejection from the server (insufficient
// stock, bad size, ...). Its message is surfaced verbatim and never
// triggers fallback.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	return e.Message
}

// Product carries the catalog data the client already holds when adding to
// the cart.
type Product struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Stock int      `json:"stock"`
	Sizes []string `json:"sizes"`
}

// Line is one cart line. Price and Stock are snapshots captured when the
// line was added or last merged; Stock bounds later quantity updates.
type Line struct {
	ItemID    string  `json:"itemId,omitempty"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name,omitempty"`
	Size      string  `json:"size"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Stock     int     `json:"stock,omitempty"`
}

type Cart struct {
	Lines []Line `json:"items"`
}

// Total is recomputed on every call; it is never cached across mutations.
func (c *Cart) Total() float64 {
	var total float64
	for _, line := range c.Lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

func (c *Cart) find(productID, size string) *Line {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID && c.Lines[i].Size == size {
			return &c.Lines[i]
		}
	}
	return nil
}

// Store is one cart backing. Operations are keyed by product+size, the
// client-side line identity.
type Store interface {
	Get(ctx context.Context) (*Cart, error)
	Add(ctx context.Context, product Product, size string, quantity int) (*Cart, error)
	UpdateQuantity(ctx context.Context, productID, size string, quantity int) (*Cart, error)
	Remove(ctx context.Context, productID, size string) (*Cart, error)
	Clear(ctx context.Context) error
}

func validateAdd(product Product, size string, quantity int) error {
	if quantity < 1 {
		return &RejectedError{Message: "quantity must be at least 1"}
	}
	offered := false
	for _, s := range product.Sizes {
		if s == size {
			offered = true
			break
		}
	}
	if !offered {
		return &RejectedError{Message: fmt.Sprintf("size %s is not offered for %s", size, product.Name)}
	}
	return nil
}
