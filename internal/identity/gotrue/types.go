package gotrue

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"

	"user_management_backend/internal/identity"

	"github.com/google/uuid"
)

type apiUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (u apiUser) principal() (identity.Principal, error) {
	id, err := uuid.Parse(u.ID)
	if err != nil {
		return identity.Principal{}, fmt.Errorf("gotrue: invalid user id %q: %w", u.ID, err)
	}
	return identity.Principal{ID: id, Email: u.Email}, nil
}

type sessionResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
	User         *apiUser `json:"user"`
}

func (s sessionResponse) session() identity.Session {
	return identity.Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		ExpiresIn:    s.ExpiresIn,
	}
}

// signUpResponse covers both shapes of the signup reply: a session with a
// nested user, or the user object itself.
type signUpResponse struct {
	apiUser
	sessionResponse
}

// UnmarshalJSON decodes both embedded views from the same document. Without
// it the promoted fields would be ambiguous to encoding/json.
func (r *signUpResponse) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &r.apiUser); err != nil {
		return err
	}
	return json.Unmarshal(data, &r.sessionResponse)
}

// apiError is a non-2xx provider reply. Newer GoTrue versions send
// {code, error_code, msg}; the token endpoint still sends the OAuth shape
// {error, error_description}.
type apiError struct {
	Status           int    `json:"-"`
	Code             int    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	OAuthError       string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e *apiError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.ErrorDescription
	}
	code := e.ErrorCode
	if code == "" {
		code = e.OAuthError
	}
	return fmt.Sprintf("gotrue: status %d (%s): %s", e.Status, code, msg)
}

func (e *apiError) hasCode(codes ...string) bool {
	return slices.Contains(codes, e.ErrorCode) || slices.Contains(codes, e.OAuthError)
}

func (e *apiError) isAuthFailure() bool {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return true
	}
	return e.hasCode(codeBadJWT, codeSessionNotFound, codeUserNotFound)
}

func decodeError(resp *http.Response) *apiError {
	apiErr := &apiError{}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = json.Unmarshal(data, apiErr)
	apiErr.Status = resp.StatusCode
	return apiErr
}
