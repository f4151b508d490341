package shopsession

import (
	"context"

	internalevents "github.com/babakneza/shopsession/internal/events"
)

const (
	eventLoginSuccess           = "login_success"
	eventLoginFailure           = "login_failure"
	eventRegisterSuccess        = "register_success"
	eventRegisterFailure        = "register_failure"
	eventLogout                 = "logout"
	eventRefreshSuccess         = "refresh_success"
	eventRefreshFailure         = "refresh_failure"
	eventHydrateComplete        = "hydrate_complete"
	eventHydrateCorrupt         = "hydrate_corrupt"
	eventHydrateDowngraded      = "hydrate_downgraded"
	eventReauthRequired         = "reauth_required"
	eventCustomerBackfillFailed = "customer_backfill_failed"
	eventProfileUpdateSuccess   = "profile_update_success"
	eventProfileUpdateFailure   = "profile_update_failure"
)

func newEventDispatcher(cfg EventsConfig, sink EventSink) *internalevents.Dispatcher {
	return internalevents.NewDispatcher(internalevents.Config{
		Enabled:    cfg.Enabled,
		BufferSize: cfg.BufferSize,
		DropIfFull: cfg.DropIfFull,
	}, sink)
}

func (m *Manager) emit(ctx context.Context, eventType string, success bool, err error) {
	if m.events == nil {
		return
	}

	event := Event{
		Timestamp: m.now(),
		EventType: eventType,
		Success:   success,
	}
	if err != nil {
		event.Error = err.Error()
	}

	m.mu.Lock()
	if m.sess.User != nil {
		event.UserID = m.sess.User.ID
	}
	event.CustomerID = m.sess.CustomerID
	m.mu.Unlock()

	m.events.Emit(ctx, event)
}

// EventsDropped reports how many session events were discarded because the
// dispatcher buffer was full.
func (m *Manager) EventsDropped() uint64 {
	return m.events.Dropped()
}
