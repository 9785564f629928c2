package authz

import (
	"user_management_backend/platform/apperr"
	"user_management_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Authenticate runs the pipeline and attaches the AuthContext to the request.
func (p *Pipeline) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authCtx, err := p.Authorize(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			if code := apperr.GetCode(err); code != "" && code != apperr.CodeInternal {
				p.reject(code)
				p.log.WithContext(c.Request.Context()).AccessDenied(string(code), c.Request.URL.Path, c.ClientIP())
			}
			httpkit.HandleError(c, err)
			return
		}

		httpkit.SetIdentity(c, authCtx)
		c.Next()
	}
}

// RequireRoles admits requests whose AuthContext role is in required.
// It must run after Authenticate.
func (p *Pipeline) RequireRoles(required RoleSet) gin.HandlerFunc {
	return func(c *gin.Context) {
		authCtx, ok := FromContext(c)
		var decision Decision
		if !ok {
			decision = Deny(apperr.CodeAuthRequired)
		} else {
			principal := authCtx.principal()
			decision = Decide(&principal, &authCtx.Profile, required)
		}

		if !decision.Allowed {
			p.reject(decision.Code)
			p.log.WithContext(c.Request.Context()).AccessDenied(string(decision.Code), c.Request.URL.Path, c.ClientIP())
			httpkit.HandleError(c, decision.Err(required))
			return
		}
		c.Next()
	}
}

// RequireAdmin admits admins only.
func (p *Pipeline) RequireAdmin() gin.HandlerFunc {
	return p.RequireRoles(AdminOnly)
}

// RequireUser admits any known role.
func (p *Pipeline) RequireUser() gin.HandlerFunc {
	return p.RequireRoles(AnyUser)
}

// FromContext returns the AuthContext attached by Authenticate.
func FromContext(c *gin.Context) (*AuthContext, bool) {
	id, ok := httpkit.GetIdentity(c)
	if !ok {
		return nil, false
	}
	authCtx, ok := id.(*AuthContext)
	return authCtx, ok && authCtx != nil
}
