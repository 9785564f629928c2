package gotrue

import (
	"errors"

	"user_management_backend/internal/identity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const authenticatedAudience = "authenticated"

// Verifier checks provider-issued HS256 access tokens without a network call.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

// accessClaims are the claims the provider puts in access tokens.
type accessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// NewVerifier creates a verifier for tokens signed with secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithAudience(authenticatedAudience),
		),
	}
}

// Verify parses and validates token. Every failure maps to identity.ErrInvalidToken.
func (v *Verifier) Verify(token string) (identity.Principal, error) {
	claims := &accessClaims{}
	parsed, err := v.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return identity.Principal{}, identity.ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return identity.Principal{}, identity.ErrInvalidToken
	}
	return identity.Principal{ID: id, Email: claims.Email}, nil
}
