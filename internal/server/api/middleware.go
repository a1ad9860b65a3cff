package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saydemoon/internship-portal/internal/server/guard"
	"github.com/saydemoon/internship-portal/internal/server/models"
)

const identityContextKey = "api.identity"

// requireRole enforces the guard decision for API calls. Unlike the page
// middleware it answers in JSON: 401 where a page would bounce to login,
// 403 where it would land on not-authorized.
func requireRole(g *guard.Guard, required models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := guard.TokenFromRequest(c.Request)

		d := g.Check(c.Request.Context(), token, c.Request.URL.Path, required)
		switch d.State {
		case guard.RedirectLogin:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		case guard.RedirectForbidden:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not authorized"})
		default:
			if d.Identity != nil {
				c.Set(identityContextKey, d.Identity)
			}
			c.Next()
		}
	}
}

func identityFrom(c *gin.Context) *models.Identity {
	v, ok := c.Get(identityContextKey)
	if !ok {
		return nil
	}
	ident, _ := v.(*models.Identity)
	return ident
}
