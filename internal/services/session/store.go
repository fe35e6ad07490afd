package session

import (
	"context"
	"time"
)

// Session associates an opaque token with a username
type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is no longer valid at now
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store keeps sessions between requests
type Store interface {
	Save(ctx context.Context, sess *Session) error
	// Get returns model.ErrInvalidSession when the token is unknown or expired
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	// CleanExpired removes expired sessions and reports how many were dropped
	CleanExpired(ctx context.Context) (int, error)
}
