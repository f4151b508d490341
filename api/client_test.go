package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/babakneza/shopsession"
)

func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	return NewClient(shopsession.APIConfig{
		BaseURL:  srv.URL,
		Timeout:  5 * time.Second,
		RetryMax: 0,
	}, zerolog.Nop())
}

func TestLoginDecodesTokenResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body["email"] != "a@b.test" {
			t.Errorf("email = %v", body["email"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "acc-1",
			"refresh_token": "ref-1",
			"expires":       600,
			"user":          map[string]any{"id": "u1", "email": "a@b.test"},
		})
	}))
	defer srv.Close()

	auth := NewAuthClient(testClient(t, srv))
	resp, err := auth.Login(context.Background(), shopsession.Credentials{
		Email:    "a@b.test",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.AccessToken != "acc-1" || resp.RefreshToken != "ref-1" {
		t.Fatalf("tokens = %q / %q", resp.AccessToken, resp.RefreshToken)
	}
	if resp.ExpiresIn != 600 {
		t.Fatalf("ExpiresIn = %d, want 600", resp.ExpiresIn)
	}
	if resp.User == nil || resp.User.ID != "u1" {
		t.Fatalf("user = %+v", resp.User)
	}
}

func TestUnauthorizedMapsToErrAuthFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	auth := NewAuthClient(testClient(t, srv))
	_, err := auth.Refresh(context.Background(), "stale")
	if !errors.Is(err, shopsession.ErrAuthFailed) {
		t.Fatalf("err = %v, want ErrAuthFailed", err)
	}
}

func TestServerErrorMapsToErrUpstreamUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"message": "maintenance"})
	}))
	defer srv.Close()

	auth := NewAuthClient(testClient(t, srv))
	_, err := auth.CurrentUser(context.Background(), "tok")
	if !errors.Is(err, shopsession.ErrUpstreamUnavailable) {
		t.Fatalf("err = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestBadRequestCarriesStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"message": "email taken"})
	}))
	defer srv.Close()

	auth := NewAuthClient(testClient(t, srv))
	_, err := auth.Register(context.Background(), shopsession.Registration{
		Email: "a@b.test", Password: "secret123", FirstName: "A", LastName: "B",
	})

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err = %v, want StatusError", err)
	}
	if statusErr.Code != http.StatusUnprocessableEntity || statusErr.Message != "email taken" {
		t.Fatalf("status error = %+v", statusErr)
	}
}

func TestBearerTokenSent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]string{"id": "u1"})
	}))
	defer srv.Close()

	auth := NewAuthClient(testClient(t, srv))
	if _, err := auth.CurrentUser(context.Background(), "tok-7"); err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if got != "Bearer tok-7" {
		t.Fatalf("authorization header = %q", got)
	}
}

func TestCustomerGetMissingProfileIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	customers := NewCustomerClient(testClient(t, srv))
	profile, err := customers.Get(context.Background(), "u1", "tok")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if profile != nil {
		t.Fatalf("profile = %+v, want nil for missing profile", profile)
	}
}

func TestCreateOrderSendsIdempotencyKey(t *testing.T) {
	var keys []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		json.NewEncoder(w).Encode(map[string]string{"id": "o1", "status": "pending"})
	}))
	defer srv.Close()

	orders := NewOrderClient(testClient(t, srv))
	payload := shopsession.OrderPayload{
		Currency:       "EUR",
		Total:          "10.00",
		IdempotencyKey: "key-1",
	}

	for i := 0; i < 2; i++ {
		if _, err := orders.CreateOrder(context.Background(), "cust-1", "tok", payload); err != nil {
			t.Fatalf("CreateOrder %d: %v", i, err)
		}
	}

	if len(keys) != 2 || keys[0] != "key-1" || keys[1] != "key-1" {
		t.Fatalf("idempotency keys = %v, want the caller's key on every attempt", keys)
	}
}

func TestCreateOrderGeneratesKeyWhenAbsent(t *testing.T) {
	var key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key = r.Header.Get("Idempotency-Key")
		json.NewEncoder(w).Encode(map[string]string{"id": "o1"})
	}))
	defer srv.Close()

	orders := NewOrderClient(testClient(t, srv))
	if _, err := orders.CreateOrder(context.Background(), "cust-1", "tok", shopsession.OrderPayload{}); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if key == "" {
		t.Fatal("no idempotency key generated")
	}
}

func TestPayPalCreateOrderMapsApproveLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "pp-1",
			"status": "CREATED",
			"links": []map[string]string{
				{"href": "https://paypal.test/self", "rel": "self"},
				{"href": "https://paypal.test/approve", "rel": "approve"},
			},
		})
	}))
	defer srv.Close()

	pp := NewPayPalClient(shopsession.APIConfig{
		PayPalBaseURL: srv.URL,
		Timeout:       5 * time.Second,
	}, zerolog.Nop())

	order, err := pp.CreatePayPalOrder(context.Background(), "10.00", "EUR")
	if err != nil {
		t.Fatalf("CreatePayPalOrder: %v", err)
	}
	if order.ApproveURL != "https://paypal.test/approve" {
		t.Fatalf("approve URL = %q", order.ApproveURL)
	}
}

func TestPayPalCaptureExtractsCaptureID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/checkout/orders/pp-1/capture" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "pp-1",
			"status": "COMPLETED",
			"purchase_units": []map[string]any{
				{"payments": map[string]any{"captures": []map[string]string{{"id": "cap-9"}}}},
			},
		})
	}))
	defer srv.Close()

	pp := NewPayPalClient(shopsession.APIConfig{
		PayPalBaseURL: srv.URL,
		Timeout:       5 * time.Second,
	}, zerolog.Nop())

	capture, err := pp.CapturePayPalOrder(context.Background(), "pp-1")
	if err != nil {
		t.Fatalf("CapturePayPalOrder: %v", err)
	}
	if capture.CaptureID != "cap-9" {
		t.Fatalf("capture ID = %q", capture.CaptureID)
	}
}
