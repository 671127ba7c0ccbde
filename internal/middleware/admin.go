package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"backline/internal/domain"
	"backline/internal/pkg/response"
)

const adminIdentityKey = "admin_identity"

// AdminVerifier resolves a bearer token to an admin identity.
type AdminVerifier interface {
	Verify(ctx context.Context, token string) (*domain.AdminIdentity, error)
}

// AdminAuth guards admin-only routes. The resolved identity is stored in
// the request context once and read back with AdminFrom; services receive
// it explicitly and never consult ambient state.
func AdminAuth(verifier AdminVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid Authorization header")
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Empty token")
			c.Abort()
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			c.Abort()
			return
		}

		c.Set(adminIdentityKey, *identity)
		c.Next()
	}
}

// AdminFrom returns the identity resolved by AdminAuth. Routes not behind
// AdminAuth get a zero identity.
func AdminFrom(c *gin.Context) domain.AdminIdentity {
	if v, ok := c.Get(adminIdentityKey); ok {
		if identity, ok := v.(domain.AdminIdentity); ok {
			return identity
		}
	}
	return domain.AdminIdentity{}
}
