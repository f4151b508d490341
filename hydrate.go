package shopsession

import (
	"context"
	"time"

	"github.com/babakneza/shopsession/internal/tokenclock"
	"github.com/babakneza/shopsession/session"
)

// Initialize reconstructs the session from durable storage. It is the single
// explicit rehydration entry point and must be invoked once at application
// start, before the manager serves other callers.
//
// Initialize never fails: a missing, unreadable, or corrupt snapshot
// degrades to an empty session. Hydration is marked complete on every path
// so consumers never block waiting for it. When the reconstructed session is
// authenticated, the refresh timer is re-armed from the time actually
// remaining, not the full lifetime; an already-expired token triggers a
// slightly deferred refresh instead of blocking startup.
func (m *Manager) Initialize(ctx context.Context) Snapshot {
	data, err := m.store.Load(ctx)
	switch {
	case err != nil:
		m.log.Warn().Err(err).Msg("loading stored session failed, starting anonymous")
		m.metrics.Inc(MetricHydrateEmpty)
		m.markHydrated()

	case len(data) == 0:
		m.metrics.Inc(MetricHydrateEmpty)
		m.markHydrated()

	default:
		m.rehydrate(ctx, data)
	}

	m.emit(ctx, eventHydrateComplete, true, nil)
	return m.Snapshot()
}

func (m *Manager) rehydrate(ctx context.Context, data []byte) {
	stored, version, err := session.Decode(data)
	if err != nil {
		m.log.Warn().Err(err).Msg("stored session unreadable, starting anonymous")
		m.metrics.Inc(MetricHydrateCorrupt)
		m.emit(ctx, eventHydrateCorrupt, false, err)
		m.markHydrated()
		return
	}

	now := m.now()
	migrated := session.Migrate(stored, version, now, m.config.Token.MinLength)
	downgraded := stored.IsAuthenticated && !migrated.IsAuthenticated

	m.mu.Lock()
	m.generation++
	m.sess = migrated
	m.hydrated = true
	m.persistLocked(ctx)
	m.mu.Unlock()

	if downgraded {
		m.log.Info().Msg("stored session failed integrity check, downgraded to anonymous")
		m.metrics.Inc(MetricHydrateDowngraded)
		m.emit(ctx, eventHydrateDowngraded, false, nil)
	}
	m.metrics.Inc(MetricHydrateSuccess)

	m.armAfterHydration(now)
}

func (m *Manager) armAfterHydration(now time.Time) {
	m.mu.Lock()
	sess := m.sess
	m.mu.Unlock()

	if !sess.IsAuthenticated {
		return
	}

	switch {
	case sess.TokenExpiresAt == 0:
		// No expiry metadata survived; the safety-net timer guarantees a
		// refresh is always eventually scheduled.
		m.sched.Arm(m.config.Token.FallbackTimer, m.scheduledRefresh)

	case !tokenclock.IsExpired(now, sess.TokenExpiresAt, 0):
		remaining := tokenclock.Remaining(now, sess.TokenExpiresAt)
		m.sched.Arm(remaining-m.config.Token.RefreshBuffer, m.scheduledRefresh)

	case sess.RefreshToken != "":
		m.sched.Arm(time.Second, m.scheduledRefresh)
	}
}

func (m *Manager) markHydrated() {
	m.mu.Lock()
	m.hydrated = true
	m.mu.Unlock()
}
