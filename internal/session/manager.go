// Package session wraps the identity provider's sign-in/sign-up/sign-out
// and exposes the current user as a reactive stream.
package session

import (
	"context"
	"sync"

	"parcel-track-api-server/internal/apperr"
	"parcel-track-api-server/internal/models"
)

// Identity is the slice of the identity provider the manager consumes.
type Identity interface {
	SignIn(ctx context.Context, email, password string) (*models.UserProfile, error)
	SignUp(ctx context.Context, email, password, name string) (*models.UserProfile, error)
	FindByEmail(ctx context.Context, email string) (*models.UserProfile, error)
	Token(profile *models.UserProfile) (string, error)
}

// AuditLog records login attempts. Implementations must not fail the login
// path; errors are their own to log.
type AuditLog interface {
	LogAttempt(ctx context.Context, userID string, success bool, failureReason, ipAddress, userAgent string)
}

// Attempt carries the client metadata attached to audit records.
type Attempt struct {
	IPAddress string
	UserAgent string
}

// Manager tracks one logical session: the current user is a single
// process-wide value and the subscription stream reports changes to it,
// so a sign-out publishes nil to every subscriber. Per-request identity
// is carried by the JWT and resolved in the auth middleware; the stream
// exists for in-process consumers that follow that one session.
type Manager struct {
	identity Identity
	audit    AuditLog

	mu      sync.Mutex
	current *models.UserProfile
	subs    map[int]chan *models.UserProfile
	nextID  int
}

func NewManager(identity Identity, audit AuditLog) *Manager {
	return &Manager{
		identity: identity,
		audit:    audit,
		subs:     make(map[int]chan *models.UserProfile),
	}
}

// SignIn authenticates and, on success, publishes the new current user to
// every subscriber and returns a signed token. Failed attempts against an
// existing account are recorded in the audit trail.
func (m *Manager) SignIn(ctx context.Context, email, password string, at Attempt) (*models.UserProfile, string, error) {
	profile, err := m.identity.SignIn(ctx, email, password)
	if err != nil {
		if m.audit != nil && apperr.IsKind(err, apperr.KindInvalidCredentials) {
			// A failure can only be attributed when the account exists.
			if existing, ferr := m.identity.FindByEmail(ctx, email); ferr == nil {
				m.audit.LogAttempt(ctx, existing.UID, false, "invalid password", at.IPAddress, at.UserAgent)
			}
		}
		return nil, "", err
	}

	if m.audit != nil {
		m.audit.LogAttempt(ctx, profile.UID, true, "", at.IPAddress, at.UserAgent)
	}

	token, err := m.identity.Token(profile)
	if err != nil {
		return nil, "", err
	}

	m.publish(profile)
	return profile, token, nil
}

// SignUp creates the account and signs the new user in.
func (m *Manager) SignUp(ctx context.Context, email, password, name string, at Attempt) (*models.UserProfile, string, error) {
	profile, err := m.identity.SignUp(ctx, email, password, name)
	if err != nil {
		return nil, "", err
	}

	if m.audit != nil {
		m.audit.LogAttempt(ctx, profile.UID, true, "", at.IPAddress, at.UserAgent)
	}

	token, err := m.identity.Token(profile)
	if err != nil {
		return nil, "", err
	}

	m.publish(profile)
	return profile, token, nil
}

// SignOut clears the current user. The local state is always cleared, even
// when there is nothing remote to revoke: the user's intent is to leave.
func (m *Manager) SignOut(ctx context.Context) {
	m.publish(nil)
}

// Current returns the latest published user, nil when signed out.
func (m *Manager) Current() *models.UserProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Subscribe returns a channel that immediately carries the latest value and
// then every subsequent change, and a cancel function that releases the
// subscription. The channel has latest-value-wins semantics: a slow
// consumer only ever misses intermediate states, never the newest one.
func (m *Manager) Subscribe() (<-chan *models.UserProfile, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	ch := make(chan *models.UserProfile, 1)
	ch <- m.current
	m.subs[id] = ch

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if sub, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (m *Manager) publish(profile *models.UserProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = profile
	for _, ch := range m.subs {
		// Drop the stale value if the subscriber has not consumed it yet.
		select {
		case <-ch:
		default:
		}
		ch <- profile
	}
}
