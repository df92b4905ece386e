// Package metadata stores small key/value settings next to the journal
// (the saved remote profile, the sealing salt). Values are opaque bytes;
// GetJSON and SetJSON cover the common case of structured values.
package metadata

import "context"

// Repository is a key/value store. Get returns (nil, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
