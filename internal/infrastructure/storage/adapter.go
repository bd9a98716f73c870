// internal/infrastructure/storage/adapter.go
package storage

import "context"

// Well-known storage keys
const (
	CartKey  = "cart-storage"
	TokenKey = "access_token"
)

// Adapter is a durable string key-value store. Implementations are
// best-effort: the stores built on top treat write failures as
// non-fatal and keep serving from memory.
type Adapter interface {
	// Get returns the value for key; the boolean is false when the key
	// is absent.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes value under key, overwriting any prior value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
