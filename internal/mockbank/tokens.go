package mockbank

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrTokenRejected covers expired, revoked and malformed tokens alike; the
// client only ever sees a 401.
var ErrTokenRejected = errors.New("token rejected")

// Claims is the payload carried by issued bearer tokens.
type Claims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenRegistry issues signed bearer tokens and keeps them registered in
// redis with a TTL, so logout and expiry revoke a token server-side the way
// the real API does.
type TokenRegistry struct {
	client *redis.Client
	secret []byte
	ttl    time.Duration
}

// NewTokenRegistry builds a registry around the given redis client.
func NewTokenRegistry(client *redis.Client, secret string, ttl time.Duration) *TokenRegistry {
	return &TokenRegistry{client: client, secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the user and registers it.
func (r *TokenRegistry) Issue(ctx context.Context, username string, roles []string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(r.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	if err := r.client.Set(ctx, r.key(claims.ID), username, r.ttl).Err(); err != nil {
		return "", fmt.Errorf("register token: %w", err)
	}
	return token, nil
}

// Validate parses the token and checks it is still registered.
func (r *TokenRegistry) Validate(ctx context.Context, token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return r.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, ErrTokenRejected
	}
	if err := r.client.Get(ctx, r.key(claims.ID)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTokenRejected
		}
		return nil, fmt.Errorf("check token registry: %w", err)
	}
	return claims, nil
}

// Revoke drops the token from the registry. Unknown tokens are a no-op.
func (r *TokenRegistry) Revoke(ctx context.Context, token string) error {
	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return r.secret, nil
	}); err != nil {
		return nil
	}
	return r.client.Del(ctx, r.key(claims.ID)).Err()
}

func (r *TokenRegistry) key(id string) string {
	return "mockbank:token:" + id
}
