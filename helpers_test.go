package shopsession

import (
	"context"
	"sync"
	"testing"
	"time"
)

// testClock is a settable clock so expiry and timer math are exact.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type refreshResult struct {
	resp *TokenResponse
	err  error
}

type userResult struct {
	user *User
	err  error
}

type fakeAuth struct {
	mu sync.Mutex

	loginResp *TokenResponse
	loginErr  error

	registerResp *TokenResponse
	registerErr  error

	refreshResults []refreshResult
	// refreshGate, when non-nil, blocks Refresh until closed. refreshStarted
	// receives one value per Refresh entry so tests can rendezvous.
	refreshGate    chan struct{}
	refreshStarted chan struct{}

	logoutErr error

	updateUserResults []userResult

	loginCalls      int
	registerCalls   int
	refreshCalls    int
	logoutCalls     int
	updateUserCalls int
	refreshTokens   []string
	updateTokens    []string
}

func (f *fakeAuth) Login(ctx context.Context, creds Credentials) (*TokenResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginCalls++
	return f.loginResp, f.loginErr
}

func (f *fakeAuth) Register(ctx context.Context, reg Registration) (*TokenResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registerCalls++
	return f.registerResp, f.registerErr
}

func (f *fakeAuth) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	f.mu.Lock()
	f.refreshCalls++
	f.refreshTokens = append(f.refreshTokens, refreshToken)
	var result refreshResult
	if len(f.refreshResults) > 0 {
		result = f.refreshResults[0]
		f.refreshResults = f.refreshResults[1:]
	}
	started := f.refreshStarted
	gate := f.refreshGate
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	return result.resp, result.err
}

func (f *fakeAuth) Logout(ctx context.Context, refreshToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeAuth) CurrentUser(ctx context.Context, accessToken string) (*User, error) {
	return nil, nil
}

func (f *fakeAuth) UpdateCurrentUser(ctx context.Context, accessToken string, patch ProfilePatch) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateUserCalls++
	f.updateTokens = append(f.updateTokens, accessToken)
	var result userResult
	if len(f.updateUserResults) > 0 {
		result = f.updateUserResults[0]
		f.updateUserResults = f.updateUserResults[1:]
	}
	return result.user, result.err
}

func (f *fakeAuth) counts() (login, register, refresh, logout, update int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginCalls, f.registerCalls, f.refreshCalls, f.logoutCalls, f.updateUserCalls
}

type fakeCustomers struct {
	mu sync.Mutex

	getProfile *CustomerProfile
	getErr     error

	createProfile *CustomerProfile
	createErr     error

	updateProfile *CustomerProfile
	updateErr     error

	getCalls    int
	createCalls int
	updateCalls int
}

func (f *fakeCustomers) Get(ctx context.Context, userID, accessToken string) (*CustomerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	return f.getProfile, f.getErr
}

func (f *fakeCustomers) Create(ctx context.Context, userID, accessToken string, extra map[string]string) (*CustomerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	return f.createProfile, f.createErr
}

func (f *fakeCustomers) Update(ctx context.Context, customerID, accessToken string, patch ProfilePatch) (*CustomerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	return f.updateProfile, f.updateErr
}

// memStore is an in-memory session.Store for tests.
type memStore struct {
	mu      sync.Mutex
	data    []byte
	loadErr error
	saveErr error

	saves  int
	clears int
}

func (s *memStore) Load(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.data, nil
}

func (s *memStore) Save(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.data = append([]byte(nil), data...)
	s.saves++
	return nil
}

func (s *memStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	s.clears++
	return nil
}

func (s *memStore) stored() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

func newTestManager(t *testing.T, auth *fakeAuth, customers *fakeCustomers, store *memStore) (*Manager, *testClock) {
	t.Helper()

	b := New().
		WithAuthAPI(auth).
		WithStore(store).
		WithMetricsEnabled(true)
	if customers != nil {
		b.WithCustomerAPI(customers)
	}

	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(m.Close)

	clock := newTestClock()
	m.nowFn = clock.Now
	return m, clock
}

func okTokenResponse(expiresIn int64) *TokenResponse {
	return &TokenResponse{
		AccessToken:  "access-token-1",
		RefreshToken: "refresh-token-1",
		ExpiresIn:    expiresIn,
		User:         &User{ID: "u1", Email: "a@b.test", FirstName: "Ada"},
	}
}

func validCreds() Credentials {
	return Credentials{Email: "a@b.test", Password: "secret123"}
}

func loginAuthed(t *testing.T, m *Manager, auth *fakeAuth) {
	t.Helper()
	auth.mu.Lock()
	if auth.loginResp == nil {
		auth.loginResp = okTokenResponse(600)
	}
	auth.mu.Unlock()
	if err := m.Login(context.Background(), validCreds()); err != nil {
		t.Fatalf("Login: %v", err)
	}
}
