// Package identitytest provides an in-memory identity.Provider for tests.
package identitytest

import (
	"context"
	"strings"
	"sync"

	"user_management_backend/internal/identity"

	"github.com/google/uuid"
)

type account struct {
	principal identity.Principal
	password  string
}

// Provider keeps accounts and issued tokens in memory.
type Provider struct {
	mu       sync.Mutex
	accounts map[string]*account
	tokens   map[string]identity.Principal

	// OnSignUp runs after an account is created, standing in for the
	// database trigger that materializes the profile.
	OnSignUp func(p identity.Principal, metadata map[string]any)

	// Per-call failure injection.
	VerifyErr  error
	SignInErr  error
	SignOutErr error
	UpdateErr  error

	SignedOut []string
	Updates   []identity.AdminUserUpdate

	verifyCalls int
}

// NewProvider creates an empty provider.
func NewProvider() *Provider {
	return &Provider{
		accounts: make(map[string]*account),
		tokens:   make(map[string]identity.Principal),
	}
}

// AddAccount registers credentials directly and returns the principal.
func (p *Provider) AddAccount(email, password string) identity.Principal {
	p.mu.Lock()
	defer p.mu.Unlock()
	principal := identity.Principal{ID: uuid.New(), Email: email}
	p.accounts[strings.ToLower(email)] = &account{principal: principal, password: password}
	return principal
}

// IssueToken returns a valid access token for principal.
func (p *Provider) IssueToken(principal identity.Principal) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.issue(principal)
}

// Password returns the stored password for the account with id.
func (p *Provider) Password(id uuid.UUID) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if acc := p.byID(id); acc != nil {
		return acc.password
	}
	return ""
}

// Verifications returns how many times VerifyToken was called.
func (p *Provider) Verifications() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.verifyCalls
}

// Email returns the provider-side email for the account with id.
func (p *Provider) Email(id uuid.UUID) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if acc := p.byID(id); acc != nil {
		return acc.principal.Email
	}
	return ""
}

func (p *Provider) VerifyToken(_ context.Context, token string) (identity.Principal, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.verifyCalls++
	if p.VerifyErr != nil {
		return identity.Principal{}, p.VerifyErr
	}
	principal, ok := p.tokens[token]
	if !ok {
		return identity.Principal{}, identity.ErrInvalidToken
	}
	return principal, nil
}

func (p *Provider) SignUp(_ context.Context, email, password string, metadata map[string]any) (identity.SignUpResult, error) {
	p.mu.Lock()
	key := strings.ToLower(email)
	if _, exists := p.accounts[key]; exists {
		p.mu.Unlock()
		return identity.SignUpResult{}, identity.ErrEmailTaken
	}
	principal := identity.Principal{ID: uuid.New(), Email: email}
	p.accounts[key] = &account{principal: principal, password: password}
	session := p.session(principal)
	hook := p.OnSignUp
	p.mu.Unlock()

	if hook != nil {
		hook(principal, metadata)
	}
	return identity.SignUpResult{Principal: principal, Session: &session}, nil
}

func (p *Provider) SignInWithPassword(_ context.Context, email, password string) (identity.SignInResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.SignInErr != nil {
		return identity.SignInResult{}, p.SignInErr
	}
	acc, ok := p.accounts[strings.ToLower(email)]
	if !ok || acc.password != password {
		return identity.SignInResult{}, identity.ErrInvalidCredentials
	}
	return identity.SignInResult{Principal: acc.principal, Session: p.session(acc.principal)}, nil
}

func (p *Provider) SignOut(_ context.Context, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.SignedOut = append(p.SignedOut, token)
	if p.SignOutErr != nil {
		return p.SignOutErr
	}
	delete(p.tokens, token)
	return nil
}

func (p *Provider) UpdateUserByID(_ context.Context, id uuid.UUID, update identity.AdminUserUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Updates = append(p.Updates, update)
	if p.UpdateErr != nil {
		return p.UpdateErr
	}
	acc := p.byID(id)
	if acc == nil {
		return identity.ErrUserNotFound
	}
	if update.Email != nil {
		delete(p.accounts, strings.ToLower(acc.principal.Email))
		acc.principal.Email = *update.Email
		p.accounts[strings.ToLower(*update.Email)] = acc
	}
	if update.Password != nil {
		acc.password = *update.Password
	}
	return nil
}

func (p *Provider) session(principal identity.Principal) identity.Session {
	return identity.Session{
		AccessToken:  p.issue(principal),
		RefreshToken: uuid.NewString(),
		TokenType:    "bearer",
		ExpiresIn:    3600,
	}
}

func (p *Provider) issue(principal identity.Principal) string {
	token := "tok-" + uuid.NewString()
	p.tokens[token] = principal
	return token
}

func (p *Provider) byID(id uuid.UUID) *account {
	for _, acc := range p.accounts {
		if acc.principal.ID == id {
			return acc
		}
	}
	return nil
}

var _ identity.Provider = (*Provider)(nil)
