package shopsession

import (
	"sync"
	"time"
)

// ReauthEvent signals that the user must authenticate again. Exactly one
// event is published per authentication-loss incident no matter how many
// concurrent requests observed the failure.
type ReauthEvent struct {
	Incident uint64
	Reason   string
	At       time.Time
}

// ReauthNotifier is the explicit notification channel the session layer
// publishes re-authentication incidents to. The UI layer is expected to hold
// exactly one subscriber on Events and route the user to a login surface once
// per event.
type ReauthNotifier struct {
	mu       sync.Mutex
	events   chan ReauthEvent
	incident uint64
	open     bool
}

// NewReauthNotifier creates a notifier with the given event buffer capacity.
func NewReauthNotifier(buffer int) *ReauthNotifier {
	if buffer <= 0 {
		buffer = 1
	}
	return &ReauthNotifier{
		events: make(chan ReauthEvent, buffer),
	}
}

// Notify opens a re-authentication incident. Calls while an incident is
// already open are coalesced into it and publish nothing. The send never
// blocks; with no subscriber the event is dropped, not queued behind a stall.
func (n *ReauthNotifier) Notify(reason string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.open {
		return false
	}
	n.open = true
	n.incident++

	select {
	case n.events <- ReauthEvent{Incident: n.incident, Reason: reason, At: time.Now()}:
	default:
	}
	return true
}

// Reset closes the current incident. The next Notify publishes a fresh
// event. Called by the manager after any successful authentication.
func (n *ReauthNotifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.open = false
}

// Events returns the incident channel.
func (n *ReauthNotifier) Events() <-chan ReauthEvent {
	return n.events
}
