// Package metadata implements the client's local key/value store. It keeps
// the session, the per-username recovery verifier cache, and the pending
// password-sync marker between runs.
package metadata

import "context"

// Repository is a persistent string-keyed blob store.
//
// Contract:
//   - Get returns common.ErrorNotFound when the key is absent.
//   - Set overwrites any existing value for the key.
//   - Delete is a no-op for absent keys.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	List(ctx context.Context) (map[string][]byte, error)
}
