package domain

import "context"

// SessionManager issues and validates the opaque tokens that identify a
// logged-in user between requests.
type SessionManager interface {
	// Create starts a session for the user and returns its token.
	Create(ctx context.Context, userID int64) (string, error)
	// Resolve returns the user ID bound to a live session token.
	// It returns ErrUnauthorized for invalid, expired or destroyed tokens.
	Resolve(ctx context.Context, token string) (int64, error)
	// Destroy ends the session. Destroying an invalid token is a no-op.
	Destroy(ctx context.Context, token string) error
}
