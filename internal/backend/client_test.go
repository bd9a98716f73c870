// internal/backend/client_test.go
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-gateway/internal/config"
)

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	cfg := &config.Config{}
	cfg.Backend.AuthBaseURL = baseURL
	cfg.Backend.StoreBaseURL = baseURL
	cfg.Backend.ServicesBaseURL = baseURL
	cfg.Backend.RequestTimeout = 5 * time.Second

	client, err := NewClient(cfg, testLogger())
	require.NoError(t, err)
	return client
}

func TestCurrentUserSendsBearer(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(User{ID: 42, Email: "jo@example.com", Name: "Jo", Role: "customer"})
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	user, err := client.CurrentUser(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, "Jo", user.Name)
}

func TestCurrentUserOmitsEmptyBearer(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(User{ID: 1})
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	_, err := client.CurrentUser(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestCurrentUserUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	_, err := client.CurrentUser(context.Background(), "stale")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCookieJarKeepsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login/":
			http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "s3cr3t"})
			json.NewEncoder(w).Encode(LoginResponse{Access: "tok"})
		case "/api/auth/user/":
			cookie, err := r.Cookie("sessionid")
			if err != nil || cookie.Value != "s3cr3t" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(User{ID: 7})
		}
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	_, err := client.Login(context.Background(), "jo@example.com", "pw")
	require.NoError(t, err)

	// No bearer: only the jar authenticates the probe
	user, err := client.CurrentUser(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
}

func TestLoginResponseTokenFallback(t *testing.T) {
	tests := []struct {
		name     string
		response LoginResponse
		want     string
	}{
		{name: "access field", response: LoginResponse{Access: "a"}, want: "a"},
		{name: "legacy access_token field", response: LoginResponse{AccessToken: "b"}, want: "b"},
		{name: "access wins over legacy", response: LoginResponse{Access: "a", AccessToken: "b"}, want: "a"},
		{name: "neither", response: LoginResponse{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.response.Token())
		})
	}
}

func TestLogoutIgnoresBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"detail": "logged out"}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	assert.NoError(t, client.Logout(context.Background(), "tok"))
}

func TestUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	_, err := client.Products(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnauthorized))
	assert.Contains(t, err.Error(), "502")
}

func TestProductsDecoding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/", r.URL.Path)
		w.Write([]byte(`[{"id": 1, "name": "Case", "slug": "case", "price": "19.99", "category": {"id": 2, "name": "Accessories", "slug": "accessories"}}]`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	products, err := client.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Case", products[0].Name)
	assert.Equal(t, "19.99", products[0].Price)
	assert.Equal(t, "Accessories", products[0].Category.Name)
}
