package session

import (
	"context"
	"time"

	"social-login/internal/auth"
)

// Session is the server-side record behind a session cookie.
// It only exists once a login has succeeded.
type Session struct {
	SessionID string         `json:"session_id"`
	Identity  *auth.Identity `json:"identity,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// Authenticated reports whether the session carries an unexpired identity.
func (s *Session) Authenticated(now time.Time) bool {
	return s != nil && s.Identity != nil && now.Before(s.ExpiresAt)
}

// Store defines how sessions are stored and retrieved.
// Get returns (nil, nil) when the session does not exist.
// Delete of an unknown id is not an error.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}
