package shopsession

import (
	"context"
	"errors"
	"fmt"
)

// UpdateProfile pushes a profile change in two phases: the identity record
// through the auth service, then the linked customer profile. If the identity
// update reports an authentication failure, exactly one forced refresh and
// one retry are attempted; a second failure is surfaced, not retried again.
//
// Phase two requires a linked customer id and fails with
// [ErrNoCustomerProfile] when none exists. Results are merged into the
// session rather than replacing it.
func (m *Manager) UpdateProfile(ctx context.Context, patch ProfilePatch) error {
	if err := m.validate.Struct(patch); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	m.mu.Lock()
	if !m.sess.IsAuthenticated || m.sess.AccessToken == "" {
		m.mu.Unlock()
		return ErrNotAuthenticated
	}
	token := m.sess.AccessToken
	m.mu.Unlock()

	user, err := m.auth.UpdateCurrentUser(ctx, token, patch)
	if errors.Is(err, ErrAuthFailed) {
		m.metrics.Inc(MetricProfileUpdateRetry)
		if refreshErr := m.RefreshNow(ctx); refreshErr != nil {
			m.metrics.Inc(MetricProfileUpdateFailure)
			m.emit(ctx, eventProfileUpdateFailure, false, refreshErr)
			return refreshErr
		}
		// The refresh replaced the token; the captured one is stale.
		token = m.AccessToken()
		user, err = m.auth.UpdateCurrentUser(ctx, token, patch)
	}
	if err != nil {
		m.finishLoading(err)
		m.metrics.Inc(MetricProfileUpdateFailure)
		m.emit(ctx, eventProfileUpdateFailure, false, err)
		return err
	}

	m.mu.Lock()
	m.mergeUserLocked(user)
	customerID := m.sess.CustomerID
	m.persistLocked(ctx)
	m.mu.Unlock()

	if customerID == "" {
		m.metrics.Inc(MetricProfileUpdateFailure)
		m.emit(ctx, eventProfileUpdateFailure, false, ErrNoCustomerProfile)
		return ErrNoCustomerProfile
	}

	profile, err := m.customers.Update(ctx, customerID, token, patch)
	if err != nil {
		m.metrics.Inc(MetricProfileUpdateFailure)
		m.emit(ctx, eventProfileUpdateFailure, false, err)
		return err
	}

	m.mu.Lock()
	m.profile = profile
	m.mu.Unlock()

	m.metrics.Inc(MetricProfileUpdateSuccess)
	m.emit(ctx, eventProfileUpdateSuccess, true, nil)
	return nil
}

// FetchCustomerProfile backfills the linked customer profile when a feature
// discovers it is missing. It is best-effort and silent: failures are logged
// and counted, never returned.
func (m *Manager) FetchCustomerProfile(ctx context.Context) {
	m.ensureCustomer(ctx, false)
}

// ensureCustomer links the commerce profile to the session. With createOnly
// set the lookup is skipped and a profile is created outright (fresh
// registrations have nothing to find). Never fails the caller.
func (m *Manager) ensureCustomer(ctx context.Context, createOnly bool) {
	m.mu.Lock()
	user := m.sess.User
	token := m.sess.AccessToken
	gen := m.generation
	m.mu.Unlock()

	if m.customers == nil || user == nil || token == "" {
		return
	}

	var profile *CustomerProfile
	var err error
	if !createOnly {
		profile, err = m.customers.Get(ctx, user.ID, token)
	}
	if err == nil && profile == nil {
		profile, err = m.customers.Create(ctx, user.ID, token, nil)
	}
	if err != nil {
		m.log.Warn().Err(err).Str("user_id", user.ID).Msg("customer profile backfill failed")
		m.metrics.Inc(MetricCustomerBackfillFailure)
		m.emit(ctx, eventCustomerBackfillFailed, false, err)
		return
	}

	m.mu.Lock()
	if m.generation == gen {
		m.sess.CustomerID = profile.ID
		m.profile = profile
		m.persistLocked(ctx)
	}
	m.mu.Unlock()
}

// mergeUserLocked folds an updated identity record into the session without
// touching tokens or customer linkage. Callers must hold m.mu.
func (m *Manager) mergeUserLocked(user *User) {
	if user == nil {
		return
	}
	if m.sess.User == nil {
		u := *user
		m.sess.User = &u
		return
	}
	if user.ID != "" {
		m.sess.User.ID = user.ID
	}
	if user.Email != "" {
		m.sess.User.Email = user.Email
	}
	if user.FirstName != "" {
		m.sess.User.FirstName = user.FirstName
	}
	if user.LastName != "" {
		m.sess.User.LastName = user.LastName
	}
	m.sess.User.EmailVerified = user.EmailVerified
}
