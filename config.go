package shopsession

import (
	"errors"
	"time"
)

// Config defines the tunable behavior of a [Manager].
//
// Config instances are intended to be configured during initialization and
// then treated as immutable.
type Config struct {
	Token    TokenConfig
	Storage  StorageConfig
	API      APIConfig
	Checkout CheckoutConfig
	Metrics  MetricsConfig
	Events   EventsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig controls expiry tracking and proactive refresh.
type TokenConfig struct {
	// RefreshBuffer is the safety margin before actual expiry at which a
	// proactive refresh is triggered. It must cover one full refresh round
	// trip plus clock skew; too small a buffer lets requests race an
	// about-to-expire token.
	RefreshBuffer time.Duration
	// MinLength is the minimum access token length accepted during
	// hydration. Shorter stored tokens are treated as corrupt.
	MinLength int
	// FallbackTimer is the conservative refresh delay armed when a hydrated
	// session carries no expiry metadata at all. Purely a safety net against
	// a timer never being armed.
	FallbackTimer time.Duration
}

/*
====================================
STORAGE CONFIG
====================================
*/

// StorageConfig controls the durable snapshot location.
type StorageConfig struct {
	// Key is the fixed durable-storage key the snapshot is written under.
	Key string
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig controls the HTTP collaborator clients in the api sub-package.
type APIConfig struct {
	BaseURL       string
	PayPalBaseURL string
	Timeout       time.Duration
	// RetryMax bounds transport-level retries for transient failures.
	// Authentication failures are never retried at this layer.
	RetryMax int
}

/*
====================================
CHECKOUT CONFIG
====================================
*/

// CheckoutConfig controls the order-creation retry policy.
type CheckoutConfig struct {
	// SettleDelay is the pause between an authentication failure during
	// order creation and the single forced refresh-and-retry cycle.
	SettleDelay time.Duration
}

/*
====================================
OBSERVABILITY CONFIG
====================================
*/

// MetricsConfig controls the in-process metrics system.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// EventsConfig controls the session event dispatcher.
type EventsConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			RefreshBuffer: 3 * time.Minute,
			MinLength:     8,
			FallbackTimer: 48 * time.Hour,
		},
		Storage: StorageConfig{
			Key: "shopsession:state",
		},
		API: APIConfig{
			Timeout:  15 * time.Second,
			RetryMax: 2,
		},
		Checkout: CheckoutConfig{
			SettleDelay: 250 * time.Millisecond,
		},
		Events: EventsConfig{
			BufferSize: 64,
			DropIfFull: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are value types; a shallow copy is a deep copy.
	return cfg
}

// Validate checks the configuration for values the manager cannot operate
// with.
func (c Config) Validate() error {
	if c.Token.RefreshBuffer <= 0 {
		return errors.New("Token.RefreshBuffer must be positive")
	}
	if c.Token.MinLength < 1 {
		return errors.New("Token.MinLength must be at least 1")
	}
	if c.Token.FallbackTimer <= 0 {
		return errors.New("Token.FallbackTimer must be positive")
	}
	if c.Storage.Key == "" {
		return errors.New("Storage.Key must not be empty")
	}
	if c.API.Timeout <= 0 {
		return errors.New("API.Timeout must be positive")
	}
	if c.API.RetryMax < 0 {
		return errors.New("API.RetryMax must not be negative")
	}
	if c.Checkout.SettleDelay < 0 {
		return errors.New("Checkout.SettleDelay must not be negative")
	}
	if c.Events.Enabled && c.Events.BufferSize <= 0 {
		return errors.New("Events.BufferSize must be positive when events are enabled")
	}
	return nil
}
