// internal/domain/session/strategy_test.go
package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-gateway/internal/backend"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 42,
		"exp":     expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)
	return signed
}

func TestTokenExpired(t *testing.T) {
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 42}).
		SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{name: "expired", token: signedToken(t, time.Now().Add(-time.Hour)), want: true},
		{name: "still valid", token: signedToken(t, time.Now().Add(time.Hour)), want: false},
		{name: "not a jwt", token: "opaque-session-token", want: false},
		{name: "no exp claim", token: noExp, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenExpired(tt.token))
		})
	}
}

func TestBearerStrategySkipsProbeForExpiredToken(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, tokens := newTestDeps(t, server.URL)
	ctx := context.Background()
	tokens.Store(ctx, signedToken(t, time.Now().Add(-time.Hour)))

	strategy := NewBearerTokenStrategy(tokens, client, testLogger())

	user, err := strategy.Resolve(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	// Guaranteed-stale token is dropped locally, never sent
	assert.Equal(t, int64(0), requests.Load())
	_, ok := tokens.Token(ctx)
	assert.False(t, ok)
}

func TestBearerStrategyProbesOpaqueToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer opaque-session-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(backend.User{ID: 42})
	}))
	defer server.Close()

	client, tokens := newTestDeps(t, server.URL)
	ctx := context.Background()
	tokens.Store(ctx, "opaque-session-token")

	strategy := NewBearerTokenStrategy(tokens, client, testLogger())

	user, err := strategy.Resolve(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, int64(42), user.ID)
}

func TestBearerStrategyNoTokenFallsThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without a stored token")
	}))
	defer server.Close()

	client, tokens := newTestDeps(t, server.URL)

	strategy := NewBearerTokenStrategy(tokens, client, testLogger())

	user, err := strategy.Resolve(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestCookieStrategyUnauthorizedFallsThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client, _ := newTestDeps(t, server.URL)

	strategy := NewCookieSessionStrategy(client, testLogger())

	user, err := strategy.Resolve(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
}
