package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/boglefolio/internal/domain"
)

// SessionStore implements usecase.SessionStore using Redis. Expiry is
// delegated to Redis key TTLs.
type SessionStore struct {
	client *redis.Client
	prefix string
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: "session:",
	}
}

// Create stores a new session and returns its opaque token.
func (s *SessionStore) Create(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	token := hex.EncodeToString(buf)

	if err := s.client.Set(ctx, s.prefix+token, userID, ttl).Err(); err != nil {
		return "", err
	}

	return token, nil
}

// Get resolves a session token to the user ID. Unknown or expired tokens
// yield domain.ErrSessionExpired.
func (s *SessionStore) Get(ctx context.Context, token string) (string, error) {
	userID, err := s.client.Get(ctx, s.prefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrSessionExpired
	}
	if err != nil {
		return "", err
	}

	return userID, nil
}

// Delete removes a session.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.prefix+token).Err()
}
