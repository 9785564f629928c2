package httpkit

import (
	"context"

	"user_management_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextIdentityKey is the gin context key for the authenticated identity.
const ContextIdentityKey = "identity"

// Identity represents the authenticated caller.
// It abstracts identity extraction from the web framework so handlers can
// read who is calling without knowing how the caller was authenticated.
type Identity interface {
	// UserID returns the authenticated principal's ID.
	UserID() uuid.UUID
	// UserEmail returns the principal's email.
	UserEmail() string
	// RoleName returns the caller's role as stored on the profile.
	RoleName() string
}

// SetIdentity attaches the identity to the gin context and to the request
// context so downstream loggers pick up the user id.
func SetIdentity(c *gin.Context, id Identity) {
	c.Set(ContextIdentityKey, id)
	ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, id.UserID().String())
	c.Request = c.Request.WithContext(ctx)
}

// GetIdentity extracts the Identity from a Gin context.
func GetIdentity(c *gin.Context) (Identity, bool) {
	value, ok := c.Get(ContextIdentityKey)
	if !ok {
		return nil, false
	}
	id, ok := value.(Identity)
	if !ok || id == nil {
		return nil, false
	}
	return id, true
}
