package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// RevocationRepository is the in-memory fallback for the token revocation
// store, used when Redis is unreachable. Entries expire with the token.
type RevocationRepository struct {
	cache *cache.Cache
}

func NewRevocationRepository() *RevocationRepository {
	// Default expiration matches the access token lifetime; expired entries
	// are purged every 10 minutes.
	c := cache.New(24*time.Hour, 10*time.Minute)
	return &RevocationRepository{
		cache: c,
	}
}

func (r *RevocationRepository) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	r.cache.Set(jti, struct{}{}, ttl)
	return nil
}

func (r *RevocationRepository) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, found := r.cache.Get(jti)
	return found, nil
}
