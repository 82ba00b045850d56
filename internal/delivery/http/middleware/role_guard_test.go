package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-talent-marketplace/internal/delivery/http/middleware"
	"go-talent-marketplace/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func guardedRouter(role string, guard gin.HandlerFunc, handled *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if role != "" {
			c.Set(string(domain.KeyUserRole), role)
		}
		c.Next()
	})
	r.GET("/guarded", guard, func(c *gin.Context) {
		*handled = true
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequireRoles(t *testing.T) {
	t.Run("Should return 401 and never run the handler without a role", func(t *testing.T) {
		var handled bool
		r := guardedRouter("", middleware.RequireRoles(domain.RoleAdmin), &handled)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, handled)
	})

	t.Run("Should return 403 with a redirect for the wrong role", func(t *testing.T) {
		var handled bool
		r := guardedRouter(domain.RoleCandidate, middleware.RequireRoles(domain.RoleAdmin), &handled)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, handled)

		var body struct {
			Error struct {
				RedirectTo string `json:"redirect_to"`
			} `json:"error"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "/dashboard", body.Error.RedirectTo)
	})

	t.Run("Should pass the matching role through", func(t *testing.T) {
		var handled bool
		r := guardedRouter(domain.RoleAdmin, middleware.RequireRoles(domain.RoleAdmin), &handled)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, handled)
	})

	t.Run("Should accept any of several allowed roles", func(t *testing.T) {
		var handled bool
		r := guardedRouter(domain.RoleRecruiter,
			middleware.RequireRoles(domain.RoleAdmin, domain.RoleRecruiter), &handled)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, handled)
	})
}
