package cache

import (
	"context"
	"errors"
	"time"
)

// TokenStore tracks revoked JWT IDs and single-use password reset tokens.
type TokenStore struct {
	cache Cache
}

func NewTokenStore(c Cache) *TokenStore {
	return &TokenStore{cache: c}
}

// Revoke marks jti as revoked until ttl elapses, which should match the
// token's remaining lifetime. Already expired tokens are ignored.
func (s *TokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, "revoked:"+jti, true, ttl)
}

func (s *TokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	found, err := s.cache.Get(ctx, "revoked:"+jti, &revoked)
	if err != nil {
		return false, err
	}
	return found && revoked, nil
}

func (s *TokenStore) PutResetToken(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	return s.cache.Set(ctx, "reset:"+token, userID, ttl)
}

// ConsumeResetToken returns the user the token was issued for and deletes it.
// A second call with the same token returns ErrMiss.
func (s *TokenStore) ConsumeResetToken(ctx context.Context, token string) (uint, error) {
	var userID uint
	if err := s.cache.Take(ctx, "reset:"+token, &userID); err != nil {
		return 0, err
	}
	if userID == 0 {
		return 0, errors.New("reset token has no user")
	}
	return userID, nil
}
