package shopsession

import (
	"context"
	"fmt"

	"github.com/babakneza/shopsession/internal/tokenclock"
)

// RefreshIfNeeded exchanges the refresh token for new credentials when the
// access token is within the refresh buffer. It is idempotent and cheap to
// call speculatively: with no refresh token, or a token not yet near expiry,
// it performs zero network calls. Concurrent callers share one in-flight
// refresh instead of issuing duplicates.
//
// A failed refresh is session-fatal: the entire session is cleared and
// [ErrSessionExpired] is returned.
func (m *Manager) RefreshIfNeeded(ctx context.Context) error {
	return m.refresh(ctx, false)
}

// RefreshNow forces a refresh regardless of the expiry buffer, for callers
// that just observed an authentication failure with a token the clock still
// considers valid. It is a no-op without a refresh token. After it returns,
// callers must re-read the token from the manager.
func (m *Manager) RefreshNow(ctx context.Context) error {
	return m.refresh(ctx, true)
}

func (m *Manager) refresh(ctx context.Context, force bool) error {
	m.mu.Lock()

	if m.sess.RefreshToken == "" {
		m.mu.Unlock()
		return nil
	}
	if !force && !tokenclock.IsExpired(m.now(), m.sess.TokenExpiresAt, m.config.Token.RefreshBuffer) {
		m.mu.Unlock()
		m.metrics.Inc(MetricRefreshSkipped)
		return nil
	}

	if m.refreshDone != nil {
		done := m.refreshDone
		m.mu.Unlock()
		m.metrics.Inc(MetricRefreshCoalesced)

		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}

		m.mu.Lock()
		err := m.refreshErr
		m.mu.Unlock()
		return err
	}

	done := make(chan struct{})
	m.refreshDone = done
	gen := m.generation
	refreshToken := m.sess.RefreshToken
	m.mu.Unlock()

	started := m.now()
	resp, err := m.auth.Refresh(ctx, refreshToken)
	m.metrics.Observe(MetricRefreshLatency, m.now().Sub(started))

	if err == nil && (resp == nil || resp.AccessToken == "") {
		err = ErrNoToken
	}

	m.mu.Lock()

	if m.generation != gen {
		// The session was cleared or replaced while the refresh was in
		// flight. Writing the result now would resurrect stale credentials.
		m.settleRefreshLocked(nil, done)
		m.mu.Unlock()
		return nil
	}

	if err != nil {
		m.clearLocked(ctx)
		failure := fmt.Errorf("%w: %v", ErrSessionExpired, err)
		m.settleRefreshLocked(failure, done)
		m.mu.Unlock()

		m.metrics.Inc(MetricRefreshFailure)
		m.emit(ctx, eventRefreshFailure, false, err)
		if m.reauth.Notify("token refresh failed") {
			m.metrics.Inc(MetricReauthRequired)
			m.emit(ctx, eventReauthRequired, false, err)
		}
		return failure
	}

	now := m.now()
	ttl := tokenTTL(now, resp)
	m.sess.AccessToken = resp.AccessToken
	if resp.RefreshToken != "" {
		m.sess.RefreshToken = resp.RefreshToken
	}
	if ttl > 0 {
		m.sess.TokenExpiresAt = tokenclock.ComputeExpiry(now, ttl)
	} else {
		m.sess.TokenExpiresAt = 0
	}
	m.sess.IsAuthenticated = true
	m.persistLocked(ctx)
	m.settleRefreshLocked(nil, done)
	m.mu.Unlock()

	m.armRefresh(ttl)
	m.metrics.Inc(MetricRefreshSuccess)
	m.emit(ctx, eventRefreshSuccess, true, nil)
	return nil
}

// settleRefreshLocked publishes the refresh outcome to coalesced waiters and
// releases the in-flight slot. Callers must hold m.mu.
func (m *Manager) settleRefreshLocked(err error, done chan struct{}) {
	m.refreshErr = err
	m.refreshDone = nil
	close(done)
}
