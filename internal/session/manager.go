// Package session issues and verifies the signed tokens that carry a user's
// login. Each token is an HS256 JWT whose jti is registered in Redis for the
// token's lifetime; logout deletes the registration, so a revoked token stops
// working before it expires. Without Redis the manager degrades to
// signature-and-expiry checks only.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"memoir/internal/observability"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrInvalidSession is returned for any token that cannot be accepted:
// malformed, wrongly signed, expired, or revoked. Callers surface one
// generic unauthorized response for all of them.
var ErrInvalidSession = errors.New("invalid or expired session")

const (
	// DefaultTTL bounds a session's lifetime regardless of activity.
	DefaultTTL = 24 * time.Hour

	keyPrefix = "session:"
)

// Manager issues, verifies and revokes session tokens.
type Manager struct {
	secret []byte
	redis  *redis.Client
	ttl    time.Duration
}

// NewManager builds a Manager signing with secret. redis may be nil.
func NewManager(secret string, rdb *redis.Client) *Manager {
	return &Manager{
		secret: []byte(secret),
		redis:  rdb,
		ttl:    DefaultTTL,
	}
}

// Issue creates a token for userID and registers its jti.
func (m *Manager) Issue(ctx context.Context, userID uint) (string, error) {
	id := uuid.NewString()
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"jti": id,
		"iat": now.Unix(),
		"exp": now.Add(m.ttl).Unix(),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}

	if m.redis != nil {
		key := keyPrefix + id
		val := strconv.FormatUint(uint64(userID), 10)
		if err := m.redis.Set(ctx, key, val, m.ttl).Err(); err != nil {
			return "", fmt.Errorf("registering session: %w", err)
		}
	}

	observability.SessionEvents.WithLabelValues("created").Inc()
	return signed, nil
}

// Verify checks the token's signature and expiry, confirms the jti is still
// registered, and returns the user id it was issued for.
func (m *Manager) Verify(ctx context.Context, tokenString string) (uint, error) {
	userID, jti, err := m.parse(tokenString)
	if err != nil {
		observability.SessionEvents.WithLabelValues("rejected").Inc()
		return 0, ErrInvalidSession
	}

	if m.redis != nil {
		n, err := m.redis.Exists(ctx, keyPrefix+jti).Result()
		if err != nil {
			return 0, fmt.Errorf("checking session registry: %w", err)
		}
		if n == 0 {
			observability.SessionEvents.WithLabelValues("rejected").Inc()
			return 0, ErrInvalidSession
		}
	}

	return userID, nil
}

// Revoke forgets the token's registration. Revoking an already-invalid token
// is not an error; logout is idempotent.
func (m *Manager) Revoke(ctx context.Context, tokenString string) error {
	_, jti, err := m.parse(tokenString)
	if err != nil {
		return nil
	}
	if m.redis != nil {
		if err := m.redis.Del(ctx, keyPrefix+jti).Err(); err != nil {
			return fmt.Errorf("revoking session: %w", err)
		}
	}
	observability.SessionEvents.WithLabelValues("revoked").Inc()
	return nil
}

func (m *Manager) parse(tokenString string) (uint, string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, "", ErrInvalidSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", ErrInvalidSession
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, "", ErrInvalidSession
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, "", ErrInvalidSession
	}

	jti, ok := claims["jti"].(string)
	if !ok {
		return 0, "", ErrInvalidSession
	}

	return uint(userID), jti, nil
}
