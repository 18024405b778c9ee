package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureIndexes creates the indexes every collection relies on. Safe to call
// on every startup; Mongo treats existing indexes as a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	carts := &mongoCartRepository{collection: db.Collection("carts")}
	if err := carts.CreateIndexes(ctx); err != nil {
		return fmt.Errorf("carts: %w", err)
	}

	orders := &mongoOrderRepository{collection: db.Collection("orders")}
	if err := orders.CreateIndexes(ctx); err != nil {
		return fmt.Errorf("orders: %w", err)
	}

	users := &mongoUserRepository{collection: db.Collection("users")}
	if err := users.CreateIndexes(ctx); err != nil {
		return fmt.Errorf("users: %w", err)
	}

	return nil
}
