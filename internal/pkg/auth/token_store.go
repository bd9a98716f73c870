// internal/pkg/auth/token_store.go
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/your-org/storefront-gateway/internal/infrastructure/storage"
)

// sealedPrefix marks values written with at-rest encryption enabled
const sealedPrefix = "sealed:"

// TokenStore persists the bearer access token under its well-known
// storage key. When a seal secret is configured the token is encrypted
// at rest, since kiosk storage is easier to walk up to than a browser
// profile. A stored token that no longer decrypts is treated as absent
// and cleared.
type TokenStore struct {
	storage storage.Adapter
	log     *logrus.Entry
	aead    interface {
		Seal(dst, nonce, plaintext, additionalData []byte) []byte
		Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
	}
}

// NewTokenStore creates a token store. An empty secret disables sealing.
func NewTokenStore(adapter storage.Adapter, sealSecret string, log *logrus.Entry) (*TokenStore, error) {
	t := &TokenStore{
		storage: adapter,
		log:     log,
	}

	if sealSecret != "" {
		key := sha256.Sum256([]byte(sealSecret))
		aead, err := chacha20poly1305.NewX(key[:])
		if err != nil {
			return nil, fmt.Errorf("failed to initialize token sealing: %w", err)
		}
		t.aead = aead
	}

	return t, nil
}

// Token returns the stored bearer token, or false when none is usable
func (t *TokenStore) Token(ctx context.Context) (string, bool) {
	value, ok, err := t.storage.Get(ctx, storage.TokenKey)
	if err != nil {
		t.log.WithError(err).Warn("Failed to read stored access token")
		return "", false
	}
	if !ok || value == "" {
		return "", false
	}

	if len(value) >= len(sealedPrefix) && value[:len(sealedPrefix)] == sealedPrefix {
		token, err := t.unseal(value[len(sealedPrefix):])
		if err != nil {
			t.log.WithError(err).Warn("Stored access token is unreadable, clearing it")
			t.Clear(ctx)
			return "", false
		}
		return token, true
	}

	if t.aead != nil {
		// Plaintext token left over from before sealing was enabled.
		// Usable once; it gets re-sealed on the next Store.
		return value, true
	}

	return value, true
}

// Store persists the bearer token, sealing it when configured.
// Failures are logged and swallowed: losing durability only costs a
// re-login on the next start.
func (t *TokenStore) Store(ctx context.Context, token string) {
	value := token
	if t.aead != nil {
		sealed, err := t.seal(token)
		if err != nil {
			t.log.WithError(err).Warn("Failed to seal access token, not persisting it")
			return
		}
		value = sealedPrefix + sealed
	}

	if err := t.storage.Set(ctx, storage.TokenKey, value); err != nil {
		t.log.WithError(err).Warn("Failed to persist access token")
	}
}

// Clear removes the stored bearer token
func (t *TokenStore) Clear(ctx context.Context) {
	if err := t.storage.Delete(ctx, storage.TokenKey); err != nil {
		t.log.WithError(err).Warn("Failed to clear access token")
	}
}

func (t *TokenStore) seal(token string) (string, error) {
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := t.aead.Seal(nonce, nonce, []byte(token), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (t *TokenStore) unseal(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	if len(sealed) < chacha20poly1305.NonceSizeX {
		return "", fmt.Errorf("sealed token too short")
	}

	nonce, ciphertext := sealed[:chacha20poly1305.NonceSizeX], sealed[chacha20poly1305.NonceSizeX:]
	token, err := t.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}
	return string(token), nil
}
