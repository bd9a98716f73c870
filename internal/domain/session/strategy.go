// internal/domain/session/strategy.go
package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-gateway/internal/backend"
	"github.com/your-org/storefront-gateway/internal/pkg/auth"
)

// CredentialStrategy is one way of proving who the viewer is. The
// manager tries strategies in order and short-circuits on the first
// resolved user. Returning (nil, nil) means this strategy has nothing
// usable (no credentials, or credentials the backend rejected) and the
// next one should be tried.
type CredentialStrategy interface {
	Name() string
	Resolve(ctx context.Context) (*backend.User, error)
}

// BearerTokenStrategy authenticates with the stored access token
type BearerTokenStrategy struct {
	tokens *auth.TokenStore
	client *backend.Client
	log    *logrus.Entry
}

// NewBearerTokenStrategy creates the bearer-token strategy
func NewBearerTokenStrategy(tokens *auth.TokenStore, client *backend.Client, log *logrus.Entry) *BearerTokenStrategy {
	return &BearerTokenStrategy{
		tokens: tokens,
		client: client,
		log:    log,
	}
}

// Name identifies the strategy in logs
func (s *BearerTokenStrategy) Name() string {
	return "bearer_token"
}

// Resolve probes the current-user endpoint with the stored token. An
// expired token is discarded locally without a network round-trip; a
// token the backend rejects with 401 is discarded before falling
// through to the next strategy.
func (s *BearerTokenStrategy) Resolve(ctx context.Context) (*backend.User, error) {
	token, ok := s.tokens.Token(ctx)
	if !ok {
		return nil, nil
	}

	if tokenExpired(token) {
		s.log.Debug("Stored access token is expired, discarding it")
		s.tokens.Clear(ctx)
		return nil, nil
	}

	user, err := s.client.CurrentUser(ctx, token)
	if errors.Is(err, backend.ErrUnauthorized) {
		s.log.Debug("Access token rejected, trying session auth")
		s.tokens.Clear(ctx)
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return user, nil
}

// tokenExpired inspects the token's exp claim without verifying the
// signature; verification is the backend's job, this only avoids a
// probe that is guaranteed to fail. Tokens that are not parseable JWTs
// are probed anyway.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}

	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return false
	}
	return expiry.Before(time.Now())
}

// CookieSessionStrategy authenticates with the ambient cookie session
type CookieSessionStrategy struct {
	client *backend.Client
	log    *logrus.Entry
}

// NewCookieSessionStrategy creates the cookie-session strategy
func NewCookieSessionStrategy(client *backend.Client, log *logrus.Entry) *CookieSessionStrategy {
	return &CookieSessionStrategy{
		client: client,
		log:    log,
	}
}

// Name identifies the strategy in logs
func (s *CookieSessionStrategy) Name() string {
	return "cookie_session"
}

// Resolve probes the current-user endpoint with only the cookie jar
func (s *CookieSessionStrategy) Resolve(ctx context.Context) (*backend.User, error) {
	user, err := s.client.CurrentUser(ctx, "")
	if errors.Is(err, backend.ErrUnauthorized) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return user, nil
}
