package domain

import (
	"context"
	"time"
)

// User is the identity record a session points at. Users are created by the
// seeding tool; the API only reads them at login.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Session binds an opaque bearer token to a user.
type Session struct {
	ID        string
	UserID    int64
	Token     string
	CreatedAt time.Time
	ExpiresAt *time.Time // nil means the session never expires
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

// UserRepository is the credential store used at login.
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, user *User) error
}

// SessionRepository persists sessions. GetSessionByToken returns (nil, nil)
// when no row matches.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *Session) error
	GetSessionByToken(ctx context.Context, token string) (*Session, error)
	DeleteSessionByToken(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}
