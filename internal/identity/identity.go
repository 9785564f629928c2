// Package identity defines the contract the service expects from the hosted
// identity provider: token verification, credential sign-in and sign-up,
// session invalidation, and privileged account updates by id.
//
// The provider owns credentials and tokens. Nothing in this package stores
// passwords or issues tokens.
package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Sentinel errors returned by Provider implementations. Callers branch on
// these with errors.Is and never on provider message text.
var (
	// ErrInvalidToken means the bearer token could not be resolved to a principal.
	ErrInvalidToken = errors.New("identity: invalid or expired token")
	// ErrInvalidCredentials means the email and password pair was rejected.
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	// ErrEmailTaken means the email is already registered with the provider.
	ErrEmailTaken = errors.New("identity: email already registered")
	// ErrUserNotFound means a privileged update targeted an unknown principal.
	ErrUserNotFound = errors.New("identity: user not found")
)

// Principal is the provider-side identity of an authenticated caller.
type Principal struct {
	ID    uuid.UUID
	Email string
}

// Session carries the credentials issued by the provider on sign-in.
type Session struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int
}

// SignUpResult is returned by a successful registration. Session is nil when
// the provider requires email confirmation before issuing tokens.
type SignUpResult struct {
	Principal Principal
	Session   *Session
}

// SignInResult is returned by a successful credential sign-in.
type SignInResult struct {
	Principal Principal
	Session   Session
}

// AdminUserUpdate holds the attributes a privileged update may change.
// Nil fields are left untouched.
type AdminUserUpdate struct {
	Email    *string
	Password *string
}

// Provider is the identity provider adapter.
type Provider interface {
	// VerifyToken resolves a bearer token to a principal.
	VerifyToken(ctx context.Context, token string) (Principal, error)
	// SignUp registers a principal. Metadata is attached to the account and
	// read by the profile materialization trigger.
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (SignUpResult, error)
	// SignInWithPassword verifies credentials and issues a session.
	SignInWithPassword(ctx context.Context, email, password string) (SignInResult, error)
	// SignOut invalidates the session identified by token.
	SignOut(ctx context.Context, token string) error
	// UpdateUserByID performs a privileged update of the principal.
	UpdateUserByID(ctx context.Context, id uuid.UUID, update AdminUserUpdate) error
}
