package auth

import (
	"context"
	"errors"
)

var ErrNoSession = errors.New("no active session")

// Identity is the signed-in user attached to a browser session.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

type EventType string

const (
	EventSignedIn  EventType = "SIGNED_IN"
	EventSignedOut EventType = "SIGNED_OUT"
)

// Event is delivered to subscribers on sign-in and sign-out so that
// collaborators (order history, greetings) can refresh their view.
type Event struct {
	Type     EventType
	Identity *Identity
}

type SessionProvider interface {
	// GetCurrentUser resolves a bearer token to an identity. Returns
	// ErrNoSession for unknown or expired tokens.
	GetCurrentUser(ctx context.Context, token string) (*Identity, error)
	SignIn(ctx context.Context, identity Identity) (string, error)
	SignOut(ctx context.Context, token string) error
	Subscribe() <-chan Event
}
