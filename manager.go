package shopsession

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	internalevents "github.com/babakneza/shopsession/internal/events"
	"github.com/babakneza/shopsession/internal/scheduler"
	"github.com/babakneza/shopsession/internal/tokenclock"
	"github.com/babakneza/shopsession/session"
)

// Manager is the authoritative in-memory representation of the authenticated
// session. It owns all mutation entry points (login, register, logout,
// refresh, profile update), mirrors every mutation to durable storage, and
// keeps the single proactive refresh timer armed.
//
// A Manager is safe for concurrent use. Methods that force a refresh leave
// the freshest token in the manager; callers must re-read it through
// [Manager.AccessToken] after the call returns rather than rely on a value
// captured before it.
type Manager struct {
	config    Config
	auth      AuthAPI
	customers CustomerAPI
	store     session.Store
	sched     *scheduler.Scheduler
	log       zerolog.Logger
	metrics   *Metrics
	events    *internalevents.Dispatcher
	reauth    *ReauthNotifier
	validate  *validator.Validate
	nowFn     func() time.Time

	mu          sync.Mutex
	sess        session.Session
	profile     *CustomerProfile
	loading     bool
	lastErr     error
	redirectURL string
	hydrated    bool
	generation  uint64

	// refreshDone is non-nil while a refresh network call is in flight;
	// concurrent refresh callers wait on it instead of issuing their own.
	refreshDone chan struct{}
	refreshErr  error
}

// Snapshot is a point-in-time value copy of the session state. Mutating a
// Snapshot has no effect on the manager.
type Snapshot struct {
	User            *User
	AccessToken     string
	RefreshToken    string
	TokenExpiresAt  time.Time
	IsAuthenticated bool
	RememberMe      bool
	CustomerID      string
	CustomerProfile *CustomerProfile
	Loading         bool
	Err             error
	RedirectURL     string
	Hydrated        bool
}

func (m *Manager) now() time.Time {
	if m.nowFn != nil {
		return m.nowFn()
	}
	return time.Now()
}

// Snapshot returns a value copy of the current session state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		AccessToken:     m.sess.AccessToken,
		RefreshToken:    m.sess.RefreshToken,
		TokenExpiresAt:  tokenclock.ExpiryTime(m.sess.TokenExpiresAt),
		IsAuthenticated: m.sess.IsAuthenticated,
		RememberMe:      m.sess.RememberMe,
		CustomerID:      m.sess.CustomerID,
		Loading:         m.loading,
		Err:             m.lastErr,
		RedirectURL:     m.redirectURL,
		Hydrated:        m.hydrated,
	}
	if m.sess.User != nil {
		u := *m.sess.User
		snap.User = &u
	}
	if m.profile != nil {
		p := *m.profile
		snap.CustomerProfile = &p
	}
	return snap
}

// AccessToken returns the current access token, or empty when anonymous.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess.AccessToken
}

// CustomerID returns the linked customer id, or empty when none is linked
// yet.
func (m *Manager) CustomerID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess.CustomerID
}

// IsAuthenticated reports whether the session currently holds a usable
// authentication.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess.IsAuthenticated
}

// Hydrated reports whether the first reconstruction attempt from durable
// storage has completed. Consumers must not act on the session before this
// is true.
func (m *Manager) Hydrated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hydrated
}

// IsTokenExpired reports whether the access token is missing, expired, or
// within the refresh buffer.
func (m *Manager) IsTokenExpired() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess.AccessToken == "" {
		return true
	}
	return tokenclock.IsExpired(m.now(), m.sess.TokenExpiresAt, m.config.Token.RefreshBuffer)
}

// SetRedirectURL stores a transient post-login navigation target. It is
// never persisted.
func (m *Manager) SetRedirectURL(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redirectURL = url
}

// ConsumeRedirectURL returns and clears the post-login navigation target.
func (m *Manager) ConsumeRedirectURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	url := m.redirectURL
	m.redirectURL = ""
	return url
}

// Reauth returns the re-authentication incident notifier.
func (m *Manager) Reauth() *ReauthNotifier {
	return m.reauth
}

// MetricsSnapshot returns a point-in-time copy of all metrics.
func (m *Manager) MetricsSnapshot() MetricsSnapshot {
	return m.metrics.Snapshot()
}

// Close cancels the refresh timer and flushes the event dispatcher. The
// manager must not be used afterwards.
func (m *Manager) Close() {
	m.sched.Cancel()
	m.events.Close()
}

// Login authenticates against the auth service and replaces the session
// wholesale on success. A response without an access token fails with
// [ErrNoToken] and leaves the session unset. Customer profile backfill runs
// after login and is non-fatal: its failure leaves CustomerID empty to be
// retried later by dependent features.
func (m *Manager) Login(ctx context.Context, creds Credentials) error {
	if err := m.validate.Struct(creds); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	m.setLoading()
	resp, err := m.auth.Login(ctx, creds)
	if err != nil {
		m.finishLoading(err)
		m.metrics.Inc(MetricLoginFailure)
		m.emit(ctx, eventLoginFailure, false, err)
		return err
	}

	if err := m.completeAuth(ctx, resp, creds.RememberMe); err != nil {
		m.metrics.Inc(MetricLoginFailure)
		m.emit(ctx, eventLoginFailure, false, err)
		return err
	}

	m.metrics.Inc(MetricLoginSuccess)
	m.emit(ctx, eventLoginSuccess, true, nil)

	m.ensureCustomer(ctx, false)
	return nil
}

// Register creates an account and authenticates it under the same token
// contract as Login. The customer profile is always created rather than
// fetched first, since the account is new; failure of that step is non-fatal.
func (m *Manager) Register(ctx context.Context, reg Registration) error {
	if err := m.validate.Struct(reg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	m.setLoading()
	resp, err := m.auth.Register(ctx, reg)
	if err != nil {
		m.finishLoading(err)
		m.metrics.Inc(MetricRegisterFailure)
		m.emit(ctx, eventRegisterFailure, false, err)
		return err
	}

	if err := m.completeAuth(ctx, resp, reg.RememberMe); err != nil {
		m.metrics.Inc(MetricRegisterFailure)
		m.emit(ctx, eventRegisterFailure, false, err)
		return err
	}

	m.metrics.Inc(MetricRegisterSuccess)
	m.emit(ctx, eventRegisterSuccess, true, nil)

	m.ensureCustomer(ctx, true)
	return nil
}

// Logout invalidates the refresh token server-side on a best-effort basis
// and clears the local session unconditionally: a network failure never
// prevents local logout. The refresh timer is cancelled.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	refreshToken := m.sess.RefreshToken
	m.mu.Unlock()

	if refreshToken != "" {
		if err := m.auth.Logout(ctx, refreshToken); err != nil {
			m.log.Warn().Err(err).Msg("remote logout failed, clearing local session anyway")
		}
	}

	m.mu.Lock()
	m.clearLocked(ctx)
	m.mu.Unlock()

	m.metrics.Inc(MetricLogout)
	m.emit(ctx, eventLogout, true, nil)
}

func (m *Manager) completeAuth(ctx context.Context, resp *TokenResponse, remember bool) error {
	if resp == nil || resp.AccessToken == "" {
		m.finishLoading(ErrNoToken)
		return ErrNoToken
	}

	now := m.now()
	ttl := tokenTTL(now, resp)
	var expiresAt int64
	if ttl > 0 {
		expiresAt = tokenclock.ComputeExpiry(now, ttl)
	}

	m.mu.Lock()
	m.generation++
	m.sess = session.Session{
		User:            resp.User,
		AccessToken:     resp.AccessToken,
		RefreshToken:    resp.RefreshToken,
		IsAuthenticated: true,
		RememberMe:      remember,
		TokenExpiresAt:  expiresAt,
	}
	m.profile = nil
	m.loading = false
	m.lastErr = nil
	m.persistLocked(ctx)
	m.mu.Unlock()

	m.reauth.Reset()
	m.armRefresh(ttl)
	return nil
}

// clearLocked resets the session to anonymous, cancels the refresh timer,
// and removes the stored snapshot. Callers must hold m.mu. Bumping the
// generation invalidates any refresh still in flight.
func (m *Manager) clearLocked(ctx context.Context) {
	m.generation++
	m.sess = session.Session{}
	m.profile = nil
	m.loading = false
	m.lastErr = nil
	m.redirectURL = ""
	m.sched.Cancel()

	if err := m.store.Clear(ctx); err != nil {
		m.log.Warn().Err(err).Msg("clearing stored session failed")
	}
}

// persistLocked mirrors the durable subset of the session to storage.
// Callers must hold m.mu. Persistence failure is logged, never propagated:
// the in-memory session stays authoritative.
func (m *Manager) persistLocked(ctx context.Context) {
	data, err := session.Encode(m.sess)
	if err != nil {
		m.log.Error().Err(err).Msg("encoding session snapshot failed")
		return
	}
	if err := m.store.Save(ctx, data); err != nil {
		m.log.Warn().Err(err).Msg("persisting session snapshot failed")
	}
}

// armRefresh schedules the proactive refresh one buffer before expiry. An
// unknown lifetime falls back to the conservative safety-net timer.
func (m *Manager) armRefresh(ttl time.Duration) {
	delay := ttl - m.config.Token.RefreshBuffer
	if ttl <= 0 {
		delay = m.config.Token.FallbackTimer
	}
	m.sched.Arm(delay, m.scheduledRefresh)
}

func (m *Manager) scheduledRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), m.config.API.Timeout)
	defer cancel()

	if err := m.RefreshIfNeeded(ctx); err != nil {
		m.log.Warn().Err(err).Msg("scheduled token refresh failed")
	}
}

func (m *Manager) setLoading() {
	m.mu.Lock()
	m.loading = true
	m.lastErr = nil
	m.mu.Unlock()
}

func (m *Manager) finishLoading(err error) {
	m.mu.Lock()
	m.loading = false
	m.lastErr = err
	m.mu.Unlock()
}
