// Package session owns per-visitor storefront state and the authentication submission flow.
package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrSubmitInProgress   = errors.New("a submission is already in progress")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountExists      = errors.New("an account with this email already exists")
	ErrNotSignedIn        = errors.New("not signed in")
	ErrRestoreTimeout     = errors.New("session restore did not finish in time")
)

type Role string

const (
	RoleBuyer Role = "buyer"
	RoleAdmin Role = "admin"
)

const (
	DefaultCompany = "Corporate Partner"
	DefaultName    = "User"
)

// User is the signed-in buyer shown by the storefront.
type User struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Company string    `json:"company"`
	Role    Role      `json:"role"`
}

// Token is the credential pair issued by the identity provider.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Identity is what the identity provider knows about a user from the token alone.
type Identity struct {
	UserID   uuid.UUID
	Email    string
	Name     string
	Username string
}

// DisplayName prefers the sign-up name, then the username, then the email local part.
func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	if i.Username != "" {
		return i.Username
	}
	if local, _, _ := strings.Cut(i.Email, "@"); local != "" {
		return local
	}
	return DefaultName
}

// AuthSession is an authenticated identity together with its token.
type AuthSession struct {
	Identity Identity
	Token    Token
}

// Metadata is attached to an account at sign-up.
type Metadata struct {
	Username string
}

type EventType string

const (
	EventSignedIn       EventType = "signed_in"
	EventTokenRefreshed EventType = "token_refreshed"
	EventSignedOut      EventType = "signed_out"
)

// Event is an authentication state change emitted by the provider.
type Event struct {
	Type   EventType
	UserID uuid.UUID
}

// AuthProvider is the external authentication and session capability.
type AuthProvider interface {
	SignUp(ctx context.Context, email, password string, metadata Metadata) (*AuthSession, error)
	SignIn(ctx context.Context, email, password string) (*AuthSession, error)
	SignOut(ctx context.Context, token Token) error
	// CurrentSession resolves an existing access token into a session.
	CurrentSession(ctx context.Context, accessToken string) (*AuthSession, error)
	Refresh(ctx context.Context, token Token) (*AuthSession, error)
	// Subscribe registers fn for auth state changes and returns a function that removes it.
	Subscribe(fn func(Event)) (unsubscribe func())
}
