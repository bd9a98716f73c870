// internal/domain/session/manager.go
package session

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-gateway/internal/backend"
	"github.com/your-org/storefront-gateway/internal/domain/identity"
	"github.com/your-org/storefront-gateway/internal/pkg/auth"
)

// Manager establishes and tracks the viewer's identity by running an
// ordered list of credential strategies, and broadcasts identity
// changes to its observers (the cart store subscribes at bootstrap).
//
// Independent auth flows can overlap: a logout clicked while a
// startup CheckAuthStatus is still in flight must not be overwritten
// when the slow probe finally resolves. Every flow takes a ticket from
// a monotonic sequence when it starts, and a resolution is discarded
// if a newer flow has started since.
type Manager struct {
	log        *logrus.Entry
	client     *backend.Client
	tokens     *auth.TokenStore
	strategies []CredentialStrategy

	seq atomic.Uint64

	mu            sync.Mutex
	user          *backend.User
	authenticated bool
	listeners     []func(identity.Identity)
}

// NewManager creates a session manager with the given strategy order
func NewManager(client *backend.Client, tokens *auth.TokenStore, log *logrus.Entry, strategies ...CredentialStrategy) *Manager {
	return &Manager{
		log:        log,
		client:     client,
		tokens:     tokens,
		strategies: strategies,
	}
}

// OnIdentityChanged registers an observer. Observers run synchronously
// after every resolution, successful or not.
func (m *Manager) OnIdentityChanged(fn func(identity.Identity)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// CurrentUser returns the authenticated user, if any
func (m *Manager) CurrentUser() (*backend.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.authenticated {
		return nil, false
	}
	user := *m.user
	return &user, true
}

// IsAuthenticated reports whether a user identity is active
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authenticated
}

// BearerToken returns the stored access token for callers that proxy
// authenticated backend requests
func (m *Manager) BearerToken(ctx context.Context) (string, bool) {
	return m.tokens.Token(ctx)
}

// CheckAuthStatus runs the credential strategies in order and adopts
// the first resolved identity; when every strategy comes up empty the
// viewer is the guest. Strategy failures (network, backend down) are
// logged and treated as "nothing usable" rather than surfaced: an
// unreachable backend leaves an anonymous but working storefront.
func (m *Manager) CheckAuthStatus(ctx context.Context) identity.Identity {
	ticket := m.seq.Add(1)

	for _, strategy := range m.strategies {
		user, err := strategy.Resolve(ctx)
		if err != nil {
			m.log.WithError(err).WithField("strategy", strategy.Name()).
				Warn("Credential strategy failed")
			continue
		}
		if user == nil {
			continue
		}

		resolved := identity.User(strconv.FormatInt(user.ID, 10))
		if m.adopt(ticket, user, resolved) {
			m.log.WithFields(logrus.Fields{
				"strategy": strategy.Name(),
				"identity": resolved.String(),
			}).Info("Authenticated")
		}
		return resolved
	}

	m.adopt(ticket, nil, identity.Guest())
	return identity.Guest()
}

// Login exchanges credentials for a token, stores it, and then re-runs
// the credential chain rather than trusting the login response body for
// identity. The error is user-facing (rejected credentials, backend
// unreachable) and leaves the session state untouched.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.seq.Add(1)

	response, err := m.client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if token := response.Token(); token != "" {
		m.tokens.Store(ctx, token)
	}

	m.CheckAuthStatus(ctx)
	return nil
}

// Logout clears the stored token, best-effort invalidates the cookie
// session, and adopts the guest identity. The backend call failing is
// non-fatal: local state is cleared regardless.
func (m *Manager) Logout(ctx context.Context) {
	ticket := m.seq.Add(1)

	bearer, _ := m.tokens.Token(ctx)
	m.tokens.Clear(ctx)

	if err := m.client.Logout(ctx, bearer); err != nil {
		m.log.WithError(err).Warn("Backend logout failed, clearing local session anyway")
	}

	m.adopt(ticket, nil, identity.Guest())
}

// adopt installs a resolution unless a newer flow has started since the
// ticket was taken. Returns false when the resolution was stale.
func (m *Manager) adopt(ticket uint64, user *backend.User, id identity.Identity) bool {
	if ticket != m.seq.Load() {
		m.log.WithField("identity", id.String()).Debug("Discarding stale auth resolution")
		return false
	}

	m.mu.Lock()
	m.user = user
	m.authenticated = user != nil
	listeners := make([]func(identity.Identity), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(id)
	}
	return true
}
