package shopsession

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type envConfig struct {
	APIBaseURL    string        `env:"SHOPSESSION_API_BASE_URL"`
	PayPalBaseURL string        `env:"SHOPSESSION_PAYPAL_BASE_URL"`
	APITimeout    time.Duration `env:"SHOPSESSION_API_TIMEOUT" envDefault:"15s"`
	APIRetryMax   int           `env:"SHOPSESSION_API_RETRY_MAX" envDefault:"2"`
	StorageKey    string        `env:"SHOPSESSION_STORAGE_KEY" envDefault:"shopsession:state"`
	RefreshBuffer time.Duration `env:"SHOPSESSION_REFRESH_BUFFER" envDefault:"3m"`
	FallbackTimer time.Duration `env:"SHOPSESSION_FALLBACK_TIMER" envDefault:"48h"`
	SettleDelay   time.Duration `env:"SHOPSESSION_SETTLE_DELAY" envDefault:"250ms"`
	MetricsOn     bool          `env:"SHOPSESSION_METRICS_ENABLED"`
	EventsOn      bool          `env:"SHOPSESSION_EVENTS_ENABLED"`
}

// ConfigFromEnv builds a Config from SHOPSESSION_* environment variables on
// top of the package defaults.
func ConfigFromEnv() (Config, error) {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return Config{}, err
	}

	cfg := defaultConfig()
	cfg.API.BaseURL = ec.APIBaseURL
	cfg.API.PayPalBaseURL = ec.PayPalBaseURL
	cfg.API.Timeout = ec.APITimeout
	cfg.API.RetryMax = ec.APIRetryMax
	cfg.Storage.Key = ec.StorageKey
	cfg.Token.RefreshBuffer = ec.RefreshBuffer
	cfg.Token.FallbackTimer = ec.FallbackTimer
	cfg.Checkout.SettleDelay = ec.SettleDelay
	cfg.Metrics.Enabled = ec.MetricsOn
	cfg.Events.Enabled = ec.EventsOn

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
