package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/casekit/casekit/pkg/grants"
)

// User is the authenticated identity as reported by the auth provider.
type User struct {
	ID    uuid.UUID
	Email string
}

// Session is opaque proof of authentication owned by the auth provider.
// Its lifetime is independent of this package.
type Session struct {
	Token     string
	User      *User
	ExpiresAt time.Time
}

// Profile is the application-level record attached to a user.
// One profile exists per authenticated user; it is loaded once per session
// establishment and reloaded on every session change.
type Profile struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	FullName  string
	Role      grants.Role
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChangeEvent describes an auth-state transition reported by the provider.
type ChangeEvent string

const (
	// SessionEstablished signals a new or replaced authenticated session.
	SessionEstablished ChangeEvent = "session_established"

	// SessionCleared signals the session is gone (sign-out or expiry).
	SessionCleared ChangeEvent = "session_cleared"
)

// ChangeHandler receives auth-state transitions. The session is nil for
// SessionCleared. Handlers must not perform blocking work; the provider may
// invoke them while holding internal locks.
type ChangeHandler func(event ChangeEvent, s *Session)

// AuthProvider is the external authentication system.
type AuthProvider interface {
	// CurrentSession returns the existing session, or nil when there is none.
	CurrentSession(ctx context.Context) (*Session, error)

	// OnChange registers a handler for auth-state transitions and returns
	// a stop function that removes the registration.
	OnChange(handler ChangeHandler) (stop func())

	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password, fullName string) (*Session, error)
	SignOut(ctx context.Context) error
}

// ProfileStore loads user profiles from the durable store.
type ProfileStore interface {
	// GetProfile returns the profile for the user, or ErrProfileNotFound.
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
}
