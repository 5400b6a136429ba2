package domain

import (
	"context"
	"time"
)

// MaxEmailLength bounds the stored email address.
const MaxEmailLength = 180

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// User represents a registered user of the application.
type User struct {
	ID           int64
	Email        string // trimmed and lowercased
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
