package shopsession

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/babakneza/shopsession/internal/scheduler"
	"github.com/babakneza/shopsession/session"
)

// Builder assembles a [Manager]. Builder instances are intended to be
// configured during initialization and then discarded; Build may be called
// once.
type Builder struct {
	config Config

	auth      AuthAPI
	customers CustomerAPI
	store     session.Store
	logger    *zerolog.Logger
	sink      EventSink

	built bool
}

// New returns a Builder carrying the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the configuration wholesale.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithAuthAPI sets the auth service collaborator. Required.
func (b *Builder) WithAuthAPI(auth AuthAPI) *Builder {
	b.auth = auth
	return b
}

// WithCustomerAPI sets the customer profile collaborator. Optional; without
// it the customer backfill is skipped entirely.
func (b *Builder) WithCustomerAPI(customers CustomerAPI) *Builder {
	b.customers = customers
	return b
}

// WithStore sets the durable snapshot storage. Required.
func (b *Builder) WithStore(store session.Store) *Builder {
	b.store = store
	return b
}

// WithLogger sets the structured logger. Silent by default.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = &logger
	return b
}

// WithEventSink sets the sink session lifecycle events are dispatched to and
// enables event dispatch.
func (b *Builder) WithEventSink(sink EventSink) *Builder {
	b.sink = sink
	b.config.Events.Enabled = true
	return b
}

// WithMetricsEnabled toggles the in-process metrics system.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and wiring and returns the Manager.
func (b *Builder) Build() (*Manager, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.auth == nil {
		return nil, errors.New("auth API required")
	}
	if b.store == nil {
		return nil, errors.New("session store required")
	}

	logger := zerolog.Nop()
	if b.logger != nil {
		logger = *b.logger
	}

	m := &Manager{
		config:    cfg,
		auth:      b.auth,
		customers: b.customers,
		store:     b.store,
		sched:     scheduler.New(),
		log:       logger,
		metrics:   NewMetrics(cfg.Metrics),
		events:    newEventDispatcher(cfg.Events, b.sink),
		reauth:    NewReauthNotifier(8),
		validate:  validator.New(),
	}

	b.built = true
	return m, nil
}
