package cartclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RemoteStore talks to the server cart API with a bearer token. Transport
// failures and 5xx responses are classified ErrUnreachable; 4xx responses
// carry the server's business message back verbatim.
type RemoteStore struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewRemoteStore(baseURL, token string) *RemoteStore {
	return &RemoteStore{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *RemoteStore) Get(ctx context.Context) (*Cart, error) {
	return s.doCart(ctx, http.MethodGet, "/api/v1/cart", nil)
}

func (s *RemoteStore) Add(ctx context.Context, product Product, size string, quantity int) (*Cart, error) {
	body := map[string]interface{}{
		"productId": product.ID,
		"size":      size,
		"quantity":  quantity,
	}
	return s.doCart(ctx, http.MethodPost, "/api/v1/cart/items", body)
}

func (s *RemoteStore) UpdateQuantity(ctx context.Context, productID, size string, quantity int) (*Cart, error) {
	itemID, err := s.findItemID(ctx, productID, size)
	if err != nil {
		return nil, err
	}
	body := map[string]interface{}{"quantity": quantity}
	return s.doCart(ctx, http.MethodPut, "/api/v1/cart/items/"+itemID, body)
}

func (s *RemoteStore) Remove(ctx context.Context, productID, size string) (*Cart, error) {
	itemID, err := s.findItemID(ctx, productID, size)
	if err != nil {
		if rejected, ok := err.(*RejectedError); ok && rejected.Status == 0 {
			// Line not present remotely: removal is a no-op success.
			return s.Get(ctx)
		}
		return nil, err
	}
	return s.doCart(ctx, http.MethodDelete, "/api/v1/cart/items/"+itemID, nil)
}

func (s *RemoteStore) Clear(ctx context.Context) error {
	_, err := s.doCart(ctx, http.MethodDelete, "/api/v1/cart", nil)
	return err
}

func (s *RemoteStore) findItemID(ctx context.Context, productID, size string) (string, error) {
	cart, err := s.Get(ctx)
	if err != nil {
		return "", err
	}
	if line := cart.find(productID, size); line != nil {
		return line.ItemID, nil
	}
	return "", &RejectedError{Message: "item not found in cart"}
}

func (s *RemoteStore) doCart(ctx context.Context, method, path string, body interface{}) (*Cart, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: server returned %d", ErrUnreachable, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		var errBody struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		if errBody.Message == "" {
			errBody.Message = http.StatusText(resp.StatusCode)
		}
		return nil, &RejectedError{Status: resp.StatusCode, Message: errBody.Message}
	}

	var cart Cart
	if err := json.NewDecoder(resp.Body).Decode(&cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return &cart, nil
}
