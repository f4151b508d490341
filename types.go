package shopsession

import (
	"context"
	"io"

	internalevents "github.com/babakneza/shopsession/internal/events"
	"github.com/babakneza/shopsession/session"
)

// User is the identity record of the authenticated account.
type User = session.User

// Credentials is the input for [Manager.Login].
type Credentials struct {
	Email      string `validate:"required,email"`
	Password   string `validate:"required,min=8"`
	RememberMe bool
}

// Registration is the input for [Manager.Register].
type Registration struct {
	Email      string `validate:"required,email"`
	Password   string `validate:"required,min=8"`
	FirstName  string `validate:"required"`
	LastName   string `validate:"required"`
	RememberMe bool
}

// TokenResponse is the shape returned by the auth service for login,
// register, and refresh. ExpiresIn is the access token lifetime in seconds;
// when the service omits it, the expiry is derived from the token's exp
// claim where possible.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires,omitempty"`
	User         *User  `json:"user,omitempty"`
}

// ProfilePatch is the input for [Manager.UpdateProfile]. Nil fields are left
// untouched. Identity fields go to the auth service; Phone goes to the
// linked customer profile.
type ProfilePatch struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty"`
}

// CustomerProfile is the commerce-domain record linked to the identity user.
// It is fetched or created lazily after first login and is optional: features
// that need it retry the backfill rather than failing the session.
type CustomerProfile struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Address is a shipping or billing address on an order.
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Line1     string `json:"line1"`
	Line2     string `json:"line2,omitempty"`
	City      string `json:"city"`
	Country   string `json:"country"`
	Phone     string `json:"phone,omitempty"`
}

// LineItem is a single cart entry on an order payload.
type LineItem struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// OrderPayload is the input for order creation. IdempotencyKey makes the
// checkout retry policy safe against duplicate order creation; when empty,
// one is generated before the first attempt.
type OrderPayload struct {
	Items          []LineItem `json:"items"`
	Shipping       Address    `json:"shipping"`
	Billing        *Address   `json:"billing,omitempty"`
	PaymentRef     string     `json:"payment_ref,omitempty"`
	Currency       string     `json:"currency"`
	Total          string     `json:"total"`
	IdempotencyKey string     `json:"-"`
}

// Order is the record returned by the order service after creation.
type Order struct {
	ID          string `json:"id"`
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
	Total       string `json:"total"`
	Currency    string `json:"currency"`
}

// PayPalOrder is the provider-side order created before user approval.
type PayPalOrder struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	ApproveURL string `json:"approve_url,omitempty"`
}

// PayPalCapture is the result of capturing an approved provider order.
type PayPalCapture struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	CaptureID string `json:"capture_id,omitempty"`
}

// AuthAPI is the external auth service collaborator. Implementations must
// return an error matching [ErrAuthFailed] on authentication-failure
// responses so retry policies can detect it.
type AuthAPI interface {
	Login(ctx context.Context, creds Credentials) (*TokenResponse, error)
	Register(ctx context.Context, reg Registration) (*TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	CurrentUser(ctx context.Context, accessToken string) (*User, error)
	UpdateCurrentUser(ctx context.Context, accessToken string, patch ProfilePatch) (*User, error)
}

// CustomerAPI is the external customer profile collaborator. Get returns
// (nil, nil) when no profile exists for the user.
type CustomerAPI interface {
	Get(ctx context.Context, userID, accessToken string) (*CustomerProfile, error)
	Create(ctx context.Context, userID, accessToken string, extra map[string]string) (*CustomerProfile, error)
	Update(ctx context.Context, customerID, accessToken string, patch ProfilePatch) (*CustomerProfile, error)
}

// OrderAPI is the external order service collaborator. CreateOrder must send
// the payload's idempotency key so a retried call cannot create a second
// order.
type OrderAPI interface {
	CreateOrder(ctx context.Context, customerID, accessToken string, payload OrderPayload) (*Order, error)
}

// PaymentAPI is the external payment provider collaborator.
type PaymentAPI interface {
	CreatePayPalOrder(ctx context.Context, total, currency string) (*PayPalOrder, error)
	CapturePayPalOrder(ctx context.Context, orderID string) (*PayPalCapture, error)
}

// Event is a structured session lifecycle event emitted by the manager.
type Event = internalevents.Event

// EventSink receives [Event] values from the manager's event dispatcher.
type EventSink = internalevents.Sink

// NoOpSink is an [EventSink] that silently discards all events.
type NoOpSink = internalevents.NoOpSink

// ChannelSink is a buffered channel-based [EventSink].
type ChannelSink = internalevents.ChannelSink

// JSONWriterSink is an [EventSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalevents.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalevents.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalevents.NewJSONWriterSink(w)
}
