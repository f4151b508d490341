package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/babakneza/shopsession"
)

// PayPalClient implements [shopsession.PaymentAPI] against the payment
// provider's checkout API. The storefront backend proxies provider
// authentication; this client only carries the order shapes the checkout
// wizard needs.
type PayPalClient struct {
	*Client
}

// NewPayPalClient creates a client for cfg.PayPalBaseURL.
func NewPayPalClient(cfg shopsession.APIConfig, logger zerolog.Logger) *PayPalClient {
	return &PayPalClient{Client: newClient(cfg.PayPalBaseURL, cfg, logger)}
}

type paypalAmount struct {
	Value        string `json:"value"`
	CurrencyCode string `json:"currency_code"`
}

type paypalPurchaseUnit struct {
	Amount paypalAmount `json:"amount"`
}

type paypalCreateOrderRequest struct {
	Intent        string               `json:"intent"`
	PurchaseUnits []paypalPurchaseUnit `json:"purchase_units"`
}

type paypalLink struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

type paypalOrderResponse struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Links  []paypalLink `json:"links"`
}

type paypalCaptureResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID string `json:"id"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

func (c *PayPalClient) CreatePayPalOrder(ctx context.Context, total, currency string) (*shopsession.PayPalOrder, error) {
	var out paypalOrderResponse
	err := c.do(ctx, http.MethodPost, "/v2/checkout/orders", "", paypalCreateOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []paypalPurchaseUnit{
			{Amount: paypalAmount{Value: total, CurrencyCode: currency}},
		},
	}, &out)
	if err != nil {
		return nil, err
	}

	order := &shopsession.PayPalOrder{
		ID:     out.ID,
		Status: out.Status,
	}
	for _, link := range out.Links {
		if link.Rel == "approve" {
			order.ApproveURL = link.Href
			break
		}
	}
	return order, nil
}

func (c *PayPalClient) CapturePayPalOrder(ctx context.Context, orderID string) (*shopsession.PayPalCapture, error) {
	var out paypalCaptureResponse
	path := "/v2/checkout/orders/" + url.PathEscape(orderID) + "/capture"
	if err := c.do(ctx, http.MethodPost, path, "", struct{}{}, &out); err != nil {
		return nil, err
	}

	capture := &shopsession.PayPalCapture{
		ID:     out.ID,
		Status: out.Status,
	}
	if len(out.PurchaseUnits) > 0 && len(out.PurchaseUnits[0].Payments.Captures) > 0 {
		capture.CaptureID = out.PurchaseUnits[0].Payments.Captures[0].ID
	}
	return capture, nil
}
