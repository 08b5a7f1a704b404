package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lapulperia/lapulperia-backend/pkg/config"
	redisclient "github.com/lapulperia/lapulperia-backend/pkg/redis"
)

// ErrSessionNotFound covers missing and expired sessions alike; Redis TTL
// enforces expiry so a lapsed token simply stops resolving.
var ErrSessionNotFound = errors.New("session not found")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(token string) string
}

// Manager maps opaque session tokens issued by the identity provider to the
// owning user id. It is consulted on every authenticated request.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// Resolver exposes the read-only surface needed by middleware.
type Resolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.SessionConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{
		store: client,
		keyer: client,
		ttl:   cfg.TTL,
	}, nil
}

// Create stores the token-to-user mapping for the configured TTL.
func (m *Manager) Create(ctx context.Context, token, userID string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("session token is required")
	}
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user id is required")
	}
	return m.store.Set(ctx, m.keyer.SessionKey(token), userID, m.ttl)
}

// Resolve returns the user id owning the token.
func (m *Manager) Resolve(ctx context.Context, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", ErrSessionNotFound
	}
	userID, err := m.store.Get(ctx, m.keyer.SessionKey(token))
	if err != nil {
		if errors.Is(err, redisclient.ErrNotFound) {
			return "", ErrSessionNotFound
		}
		return "", err
	}
	return userID, nil
}

// Revoke deletes the session mapping; safe to call for unknown tokens.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return m.store.Del(ctx, m.keyer.SessionKey(token))
}

// TTL reports the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}
