// Package store provides the persistence layer: a small key-value port
// with interchangeable backends, and a collection layer above it that
// knows about users, transactions and the session pointer.
package store

import "context"

// KV is the storage port. Values are opaque byte blobs; a missing key is
// reported via the bool, not an error. Implementations assume a single
// logical writer at a time.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}
