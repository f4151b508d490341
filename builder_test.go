package shopsession

import (
	"context"
	"testing"
	"time"
)

func TestBuildRequiresAuthAPI(t *testing.T) {
	_, err := New().WithStore(&memStore{}).Build()
	if err == nil {
		t.Fatal("expected error without an auth API")
	}
}

func TestBuildRequiresStore(t *testing.T) {
	_, err := New().WithAuthAPI(&fakeAuth{}).Build()
	if err == nil {
		t.Fatal("expected error without a store")
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Token.RefreshBuffer = 0

	_, err := New().
		WithConfig(cfg).
		WithAuthAPI(&fakeAuth{}).
		WithStore(&memStore{}).
		Build()
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	b := New().WithAuthAPI(&fakeAuth{}).WithStore(&memStore{})

	m, err := b.Build()
	if err != nil {
		t.Fatalf("first Build: %v", err)
	}
	defer m.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected error on second Build")
	}
}

func TestWithEventSinkEnablesDispatch(t *testing.T) {
	sink := NewChannelSink(8)
	auth := &fakeAuth{loginResp: okTokenResponse(600)}

	m, err := New().
		WithAuthAPI(auth).
		WithStore(&memStore{}).
		WithEventSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer m.Close()

	if err := m.Login(context.Background(), validCreds()); err != nil {
		t.Fatalf("Login: %v", err)
	}

	select {
	case ev := <-sink.Events():
		if ev.EventType != "login_success" {
			t.Fatalf("event type = %q", ev.EventType)
		}
		if ev.UserID != "u1" {
			t.Fatalf("user id = %q", ev.UserID)
		}
	case <-time.After(time.Second):
		t.Fatal("no event dispatched")
	}
}
