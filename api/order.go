package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/babakneza/shopsession"
)

// OrderClient implements [shopsession.OrderAPI] against the commerce
// backend.
type OrderClient struct {
	*Client
}

// NewOrderClient wraps a base client with the order endpoints.
func NewOrderClient(c *Client) *OrderClient {
	return &OrderClient{Client: c}
}

type createOrderRequest struct {
	CustomerID string `json:"customer_id"`
	shopsession.OrderPayload
}

// CreateOrder submits an order. The payload's idempotency key is sent as the
// Idempotency-Key header so a retried call for the same logical order cannot
// create a second one; a key is generated when the caller supplied none.
func (c *OrderClient) CreateOrder(ctx context.Context, customerID, accessToken string, payload shopsession.OrderPayload) (*shopsession.Order, error) {
	key := payload.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}

	var out shopsession.Order
	err := c.doWith(ctx, http.MethodPost, "/orders", accessToken,
		map[string]string{"Idempotency-Key": key},
		createOrderRequest{CustomerID: customerID, OrderPayload: payload},
		&out,
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
