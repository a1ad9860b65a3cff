package guard

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/saydemoon/internship-portal/internal/common"
	"github.com/saydemoon/internship-portal/internal/server/models"
)

// identityContextKey is the gin context key the middleware stores the
// resolved identity under.
const identityContextKey = "guard.identity"

// Middleware returns a gin handler enforcing the guard decision for the
// request path. Redirect decisions are served as 302s, matching browser
// navigation; API clients follow or surface them as they see fit.
func (g *Guard) Middleware(required models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c.Request)

		d := g.Check(c.Request.Context(), token, c.Request.URL.Path, required)
		switch d.State {
		case RedirectLogin, RedirectForbidden:
			c.Redirect(http.StatusFound, d.Location)
			c.Abort()
		default:
			if d.Identity != nil {
				c.Set(identityContextKey, d.Identity)
			}
			c.Next()
		}
	}
}

// TokenFromRequest extracts the access token from the Authorization bearer
// header, the access_token header, or the access_token cookie, in that
// order. Empty means unauthenticated.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return token
		}
	}
	if h := r.Header.Get(common.AccessTokenHeaderName); h != "" {
		return h
	}
	if c, err := r.Cookie(common.AccessTokenCookieName); err == nil {
		return c.Value
	}
	return ""
}

// IdentityFromContext returns the identity the middleware resolved for this
// request, or nil for public paths.
func IdentityFromContext(c *gin.Context) *models.Identity {
	v, ok := c.Get(identityContextKey)
	if !ok {
		return nil
	}
	ident, _ := v.(*models.Identity)
	return ident
}
