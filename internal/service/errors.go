package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrInvalidSize        = errors.New("size is not offered for this product")
	ErrEmptyOrder         = errors.New("order must contain at least one item")
	ErrShippingIncomplete = errors.New("all shipping fields are required")
	ErrUnsupportedPayment = errors.New("only cash-on-delivery is supported")
	ErrInvalidStatus      = errors.New("unknown order status")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrDuplicateReview    = errors.New("you have already reviewed this product")
	ErrReviewNotAllowed   = errors.New("only customers with a delivered order containing this product can review it")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrForbidden          = errors.New("you are not allowed to access this resource")
)

// InsufficientStockError names the offending product so the message can be
// surfaced verbatim to the shopper.
type InsufficientStockError struct {
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: only %d available", e.ProductName, e.Available)
}
