// Package checkout drives the final step of the checkout wizard: creating
// the order against the commerce backend, optionally wrapped in a PayPal
// approve/capture cycle.
//
// Order creation carries a stricter retry policy than the general request
// guard: an authentication failure triggers exactly one forced
// refresh-and-retry with a short settle delay, reusing the same idempotency
// key, and is never retried more than once.
package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/babakneza/shopsession"
)

// Session is the slice of the session manager checkout needs.
// *shopsession.Manager satisfies it.
type Session interface {
	AccessToken() string
	CustomerID() string
	RefreshNow(ctx context.Context) error
	FetchCustomerProfile(ctx context.Context)
}

// Service places orders for the authenticated session.
type Service struct {
	orders      shopsession.OrderAPI
	payments    shopsession.PaymentAPI
	session     Session
	settleDelay time.Duration
	log         zerolog.Logger
}

// Config carries the Service dependencies.
type Config struct {
	Orders   shopsession.OrderAPI
	Payments shopsession.PaymentAPI
	Session  Session
	// SettleDelay is the pause before the single refresh-and-retry cycle.
	SettleDelay time.Duration
	Logger      zerolog.Logger
}

// NewService validates cfg and returns a Service.
func NewService(cfg Config) (*Service, error) {
	if cfg.Orders == nil {
		return nil, errors.New("order API required")
	}
	if cfg.Session == nil {
		return nil, errors.New("session required")
	}
	if cfg.SettleDelay < 0 {
		return nil, errors.New("settle delay must not be negative")
	}

	return &Service{
		orders:      cfg.Orders,
		payments:    cfg.Payments,
		session:     cfg.Session,
		settleDelay: cfg.SettleDelay,
		log:         cfg.Logger,
	}, nil
}

// PlaceOrder creates the order for the session's linked customer. A missing
// customer link is backfilled once before giving up with
// [shopsession.ErrNoCustomerProfile].
//
// On an authentication failure the call waits the settle delay, forces one
// token refresh, and retries exactly once with the same idempotency key; a
// second failure is returned to the caller.
func (s *Service) PlaceOrder(ctx context.Context, payload shopsession.OrderPayload) (*shopsession.Order, error) {
	customerID := s.session.CustomerID()
	if customerID == "" {
		s.session.FetchCustomerProfile(ctx)
		customerID = s.session.CustomerID()
	}
	if customerID == "" {
		return nil, shopsession.ErrNoCustomerProfile
	}

	if payload.IdempotencyKey == "" {
		payload.IdempotencyKey = uuid.NewString()
	}

	order, err := s.orders.CreateOrder(ctx, customerID, s.session.AccessToken(), payload)
	if !errors.Is(err, shopsession.ErrAuthFailed) {
		return order, err
	}

	s.log.Info().Str("customer_id", customerID).Msg("order creation hit auth failure, refreshing once")
	if err := s.settle(ctx); err != nil {
		return nil, err
	}
	if refreshErr := s.session.RefreshNow(ctx); refreshErr != nil {
		return nil, refreshErr
	}

	// Same idempotency key: if the first attempt actually succeeded
	// server-side, the backend returns that order instead of a duplicate.
	return s.orders.CreateOrder(ctx, customerID, s.session.AccessToken(), payload)
}

// StartPayPal creates the provider-side order the buyer approves.
func (s *Service) StartPayPal(ctx context.Context, total, currency string) (*shopsession.PayPalOrder, error) {
	if s.payments == nil {
		return nil, errors.New("payment API not configured")
	}
	return s.payments.CreatePayPalOrder(ctx, total, currency)
}

// CompletePayPal captures the approved provider order and places the
// storefront order referencing the capture.
func (s *Service) CompletePayPal(ctx context.Context, paypalOrderID string, payload shopsession.OrderPayload) (*shopsession.Order, error) {
	if s.payments == nil {
		return nil, errors.New("payment API not configured")
	}

	capture, err := s.payments.CapturePayPalOrder(ctx, paypalOrderID)
	if err != nil {
		return nil, err
	}

	payload.PaymentRef = capture.CaptureID
	if payload.PaymentRef == "" {
		payload.PaymentRef = capture.ID
	}
	return s.PlaceOrder(ctx, payload)
}

func (s *Service) settle(ctx context.Context) error {
	if s.settleDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.settleDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
