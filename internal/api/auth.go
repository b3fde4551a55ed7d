package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sadopc/focusos/internal/identity"
	"github.com/sadopc/focusos/internal/store"
)

const principalKey = "principal"

// requireUser resolves the bearer token to a principal, or aborts with 401.
// Provider outages are 500s, not authentication failures.
func (s *Server) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := identity.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing Bearer token"})
			return
		}

		p, err := s.verifier.Verify(c.Request.Context(), token)
		switch {
		case err == nil && p != nil && p.ID != "":
			c.Set(principalKey, p)
			c.Next()
		case err == nil, errors.Is(err, identity.ErrInvalid):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		default:
			s.logger.Error("verify token", "err", err, "request_id", c.GetString(requestIDKey))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Auth failed"})
		}
	}
}

// provisionUser makes sure the caller has a user row and settings before any
// route logic runs.
func (s *Server) provisionUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := principal(c)
		err := s.store.EnsureUser(c.Request.Context(), store.Principal{
			ID:    p.ID,
			Email: p.Email,
			Name:  p.Name,
		})
		if err != nil {
			s.logger.Error("provision user", "err", err, "user", p.ID, "request_id", c.GetString(requestIDKey))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to provision user"})
			return
		}
		c.Next()
	}
}

func principal(c *gin.Context) (*identity.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*identity.Principal)
	return p, ok
}

// userID is empty outside the authenticated group.
func userID(c *gin.Context) string {
	p, ok := principal(c)
	if !ok || p == nil {
		return ""
	}
	return p.ID
}
