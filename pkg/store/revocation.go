package store

import (
	"context"
	"time"
)

// RevocationStore tracks token ids invalidated before their natural expiry.
// Logout writes here; the auth middleware reads on every protected request.
type RevocationStore interface {
	// Revoke marks jti invalid for ttl. A non-positive ttl is a no-op since
	// the token is already expired.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	IsRevoked(ctx context.Context, jti string) (bool, error)
}
