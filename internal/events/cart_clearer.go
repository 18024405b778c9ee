package events

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/cache"
	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/repository"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartClearer empties a shopper's server cart once their order is placed.
// It consumes order.created events so a checkout from any client clears the
// persisted cart.
type CartClearer struct {
	repo   repository.CartRepository
	cache  cache.CartCache
	reader *kafka.Reader
}

func NewCartClearer(repo repository.CartRepository, cartCache cache.CartCache, brokers ...string) *CartClearer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    Topic,
		GroupID:  "cart-clearer",
		MaxBytes: 10e6, // 10MB
	})
	return &CartClearer{repo: repo, cache: cartCache, reader: reader}
}

func (c *CartClearer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *CartClearer) Close() {
	if err := c.reader.Close(); err != nil {
		log.Printf("error closing kafka reader: %v", err)
	}
}

func (c *CartClearer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Printf("error reading message: %v", err)
		return
	}

	c.handle(ctx, m.Value)
}

func (c *CartClearer) handle(ctx context.Context, payload []byte) {
	var event OrderEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		log.Printf("error parsing message: %v", err)
		return
	}

	if event.Type != TypeOrderCreated {
		return
	}

	userID, err := primitive.ObjectIDFromHex(event.UserID)
	if err != nil {
		log.Printf("invalid user_id %q: %v", event.UserID, err)
		return
	}

	errDelete := c.repo.DeleteCart(ctx, userID)
	if errDelete != nil && !errors.Is(errDelete, repository.ErrCartNotFound) {
		log.Printf("failed to delete cart: %v", errDelete)
	}

	if errCache := c.cache.Delete(ctx, event.UserID); errCache != nil {
		log.Printf("failed to delete cached cart: %v", errCache)
	}
}
