// Package session persists the signed-in identity between requests, the
// server-side counterpart of the client's persisted auth state.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

// Session holds the identity attached to a signed-in user
type Session struct {
	UserID   uuid.UUID `json:"userId"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Roles    []string  `json:"roles"`
	TenantID string    `json:"tenantId"`
}

// Store keeps sessions in Redis under a per-user key. Session-scoped
// values share the same prefix so Clear can remove them together.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a session store with the given lifetime
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func sessionKey(userID uuid.UUID) string {
	return "session:" + userID.String()
}

// Set stores the session, replacing any previous one for the user
func (s *Store) Set(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(sess.UserID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get retrieves the session for a user
func (s *Store) Get(ctx context.Context, userID uuid.UUID) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

// SetValue stores a session-scoped value for the user. It lives under the
// session prefix and disappears with the session.
func (s *Store) SetValue(ctx context.Context, userID uuid.UUID, key, value string) error {
	if err := s.client.Set(ctx, sessionKey(userID)+":"+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session value: %w", err)
	}
	return nil
}

// GetValue retrieves a session-scoped value
func (s *Store) GetValue(ctx context.Context, userID uuid.UUID, key string) (string, error) {
	value, err := s.client.Get(ctx, sessionKey(userID)+":"+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("failed to load session value: %w", err)
	}
	return value, nil
}

// Clear removes the session and every session-scoped value for the user
func (s *Store) Clear(ctx context.Context, userID uuid.UUID) error {
	var (
		cursor uint64
		keys   []string
	)
	pattern := sessionKey(userID) + "*"

	for {
		batch, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan session keys: %w", err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
