package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/msomdec/todo-list/internal/domain"
)

// JWTSessions implements domain.SessionManager with HS256-signed JWTs.
// Each token carries a random ID so logout can revoke it before it expires.
type JWTSessions struct {
	secret  []byte
	ttl     time.Duration
	revoked RevocationStore
}

var _ domain.SessionManager = (*JWTSessions)(nil)

// NewJWTSessions creates a session manager that signs tokens with secret
// and keeps them valid for ttl.
func NewJWTSessions(secret string, ttl time.Duration, revoked RevocationStore) *JWTSessions {
	return &JWTSessions{
		secret:  []byte(secret),
		ttl:     ttl,
		revoked: revoked,
	}
}

// TTL returns how long issued tokens stay valid.
func (s *JWTSessions) TTL() time.Duration {
	return s.ttl
}

func (s *JWTSessions) Create(_ context.Context, userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func (s *JWTSessions) Resolve(ctx context.Context, token string) (int64, error) {
	claims, err := s.parse(token)
	if err != nil {
		return 0, domain.ErrUnauthorized
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return 0, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return 0, domain.ErrUnauthorized
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, domain.ErrUnauthorized
	}
	return userID, nil
}

func (s *JWTSessions) Destroy(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		// Nothing to revoke; an invalid token cannot be resolved anyway.
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	slog.Debug("session destroyed", "jti", claims.ID)
	return nil
}

func (s *JWTSessions) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.ID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
