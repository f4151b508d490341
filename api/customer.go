package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/babakneza/shopsession"
)

// CustomerClient implements [shopsession.CustomerAPI] against the commerce
// backend.
type CustomerClient struct {
	*Client
}

// NewCustomerClient wraps a base client with the customer profile endpoints.
func NewCustomerClient(c *Client) *CustomerClient {
	return &CustomerClient{Client: c}
}

type createCustomerRequest struct {
	UserID string            `json:"user_id"`
	Extra  map[string]string `json:"extra,omitempty"`
}

// Get looks up the customer profile linked to userID. A missing profile is
// not an error: it returns (nil, nil) so callers can fall through to Create.
func (c *CustomerClient) Get(ctx context.Context, userID, accessToken string) (*shopsession.CustomerProfile, error) {
	var out shopsession.CustomerProfile
	err := c.do(ctx, http.MethodGet, "/customers/by-user/"+url.PathEscape(userID), accessToken, nil, &out)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CustomerClient) Create(ctx context.Context, userID, accessToken string, extra map[string]string) (*shopsession.CustomerProfile, error) {
	var out shopsession.CustomerProfile
	err := c.do(ctx, http.MethodPost, "/customers", accessToken, createCustomerRequest{
		UserID: userID,
		Extra:  extra,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CustomerClient) Update(ctx context.Context, customerID, accessToken string, patch shopsession.ProfilePatch) (*shopsession.CustomerProfile, error) {
	var out shopsession.CustomerProfile
	err := c.do(ctx, http.MethodPatch, "/customers/"+url.PathEscape(customerID), accessToken, patch, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
