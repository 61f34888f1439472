package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"openears-backend/internal/store"
)

// Denylist tracks revoked auth tokens over the storage port so logout
// invalidation works on every backend. Tokens are stored by digest, not
// verbatim.
type Denylist struct {
	store *store.Store
	clock Clock
}

func NewDenylist(st *store.Store, clock Clock) *Denylist {
	return &Denylist{store: st, clock: clock}
}

func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Add revokes a token for the given remaining lifetime.
func (d *Denylist) Add(ctx context.Context, token string, ttl time.Duration) error {
	return d.store.Deny(ctx, digest(token), d.clock.Now().Add(ttl))
}

// Contains reports whether the token is currently revoked.
func (d *Denylist) Contains(ctx context.Context, token string) (bool, error) {
	return d.store.IsDenied(ctx, digest(token), d.clock.Now())
}
