package shopsession

import (
	"context"
	"errors"
	"testing"
)

func TestLogoutClearsEverything(t *testing.T) {
	auth := &fakeAuth{}
	store := &memStore{}
	m, _ := newTestManager(t, auth, nil, store)
	loginAuthed(t, m, auth)
	m.SetRedirectURL("/account")

	m.Logout(context.Background())

	snap := m.Snapshot()
	if snap.IsAuthenticated || snap.AccessToken != "" || snap.User != nil {
		t.Fatalf("session not cleared: %+v", snap)
	}
	if snap.RedirectURL != "" {
		t.Fatal("redirect target survived logout")
	}
	if _, _, _, logouts, _ := auth.counts(); logouts != 1 {
		t.Fatalf("remote logout calls = %d", logouts)
	}
	if store.clears == 0 {
		t.Fatal("stored snapshot not cleared")
	}
	if _, armed := m.sched.Pending(); armed {
		t.Fatal("refresh timer still armed after logout")
	}
	if got := m.metrics.Value(MetricLogout); got != 1 {
		t.Fatalf("logout metric = %d", got)
	}
}

func TestLogoutClearsLocallyWhenRemoteFails(t *testing.T) {
	auth := &fakeAuth{logoutErr: errors.New("auth service down")}
	store := &memStore{}
	m, _ := newTestManager(t, auth, nil, store)
	loginAuthed(t, m, auth)

	m.Logout(context.Background())

	if m.IsAuthenticated() {
		t.Fatal("remote failure blocked local logout")
	}
	if store.clears == 0 {
		t.Fatal("stored snapshot not cleared")
	}
}

func TestLogoutWithoutRefreshTokenSkipsRemoteCall(t *testing.T) {
	auth := &fakeAuth{}
	m, _ := newTestManager(t, auth, nil, &memStore{})

	m.Logout(context.Background())

	if _, _, _, logouts, _ := auth.counts(); logouts != 0 {
		t.Fatalf("remote logout calls = %d, nothing to invalidate", logouts)
	}
}
