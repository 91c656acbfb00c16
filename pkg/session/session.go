// Package session persists the login produced by the GitHub device
// authorization flow.
//
// The CLI keeps exactly one session: the token saved by `statsmith
// login` and read back whenever ACCESS_TOKEN is not set. A session is
// a plain JSON file with owner-only permissions; there is no expiry
// because device-flow tokens do not expire on their own, they are
// revoked from the account settings or replaced by a new login.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no session has been saved yet.
var ErrNotFound = errors.New("no saved session")

// Session is one saved login.
type Session struct {
	// Login is the GitHub account the token belongs to.
	Login string `json:"login"`

	// Token is the OAuth access token.
	Token string `json:"token"`

	// CreatedAt records when the login completed.
	CreatedAt time.Time `json:"created_at"`
}

// New creates a session for the given account and token, stamped with
// the current time.
func New(login, token string) *Session {
	return &Session{
		Login:     login,
		Token:     token,
		CreatedAt: time.Now().UTC(),
	}
}

// Store persists at most one session.
type Store interface {
	// Load returns the saved session, or ErrNotFound when none exists.
	Load(ctx context.Context) (*Session, error)

	// Save writes the session, replacing any previous one.
	Save(ctx context.Context, s *Session) error

	// Delete removes the saved session. Deleting an absent session is
	// not an error.
	Delete(ctx context.Context) error

	// Path reports where the session is stored, for display purposes.
	Path() string
}
