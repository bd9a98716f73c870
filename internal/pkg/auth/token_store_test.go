// internal/pkg/auth/token_store_test.go
package auth

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-gateway/internal/infrastructure/storage"
)

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func TestTokenStorePlaintext(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewMemory()

	tokens, err := NewTokenStore(adapter, "", testLogger())
	require.NoError(t, err)

	_, ok := tokens.Token(ctx)
	assert.False(t, ok)

	tokens.Store(ctx, "my-access-token")

	token, ok := tokens.Token(ctx)
	require.True(t, ok)
	assert.Equal(t, "my-access-token", token)

	// The raw stored value is the token itself
	raw, ok, err := adapter.Get(ctx, storage.TokenKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "my-access-token", raw)

	tokens.Clear(ctx)
	_, ok = tokens.Token(ctx)
	assert.False(t, ok)
}

func TestTokenStoreSealed(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewMemory()

	tokens, err := NewTokenStore(adapter, "kiosk-device-secret", testLogger())
	require.NoError(t, err)

	tokens.Store(ctx, "my-access-token")

	// The raw stored value must not contain the token
	raw, ok, err := adapter.Get(ctx, storage.TokenKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, raw, "my-access-token")
	assert.Contains(t, raw, sealedPrefix)

	token, ok := tokens.Token(ctx)
	require.True(t, ok)
	assert.Equal(t, "my-access-token", token)
}

func TestTokenStoreUnreadableSealedValueIsCleared(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewMemory()

	tokens, err := NewTokenStore(adapter, "kiosk-device-secret", testLogger())
	require.NoError(t, err)

	require.NoError(t, adapter.Set(ctx, storage.TokenKey, sealedPrefix+"not base64 at all"))

	_, ok := tokens.Token(ctx)
	assert.False(t, ok)

	// The garbage value was cleared, not left to fail again
	_, ok, err = adapter.Get(ctx, storage.TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenStoreWrongSecretTreatedAsAbsent(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewMemory()

	sealer, err := NewTokenStore(adapter, "secret-one", testLogger())
	require.NoError(t, err)
	sealer.Store(ctx, "my-access-token")

	opener, err := NewTokenStore(adapter, "secret-two", testLogger())
	require.NoError(t, err)

	_, ok := opener.Token(ctx)
	assert.False(t, ok)
}

func TestTokenStoreReadsPlaintextAfterSealingEnabled(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewMemory()

	// Token written before sealing was configured
	plain, err := NewTokenStore(adapter, "", testLogger())
	require.NoError(t, err)
	plain.Store(ctx, "my-access-token")

	sealed, err := NewTokenStore(adapter, "kiosk-device-secret", testLogger())
	require.NoError(t, err)

	token, ok := sealed.Token(ctx)
	require.True(t, ok)
	assert.Equal(t, "my-access-token", token)
}
