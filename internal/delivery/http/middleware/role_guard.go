package middleware

import (
	"net/http"

	"go-talent-marketplace/internal/delivery/http/response"
	"go-talent-marketplace/internal/domain"

	"github.com/gin-gonic/gin"
)

// RequireRoles guards a route group by role. A denied request is never
// passed down: the client gets a 403 carrying the landing route for its
// actual role, so the frontend can redirect instead of rendering a
// half-broken page.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role := c.GetString(string(domain.KeyUserRole))
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "User not authenticated", nil)
			c.Abort()
			return
		}

		if !allowed[role] {
			response.Error(c, http.StatusForbidden, "You do not have access to this resource", gin.H{
				"redirect_to": domain.DefaultLandingRoute(role),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
