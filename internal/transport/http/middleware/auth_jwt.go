package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"memory-gallery/internal/core/auth"
	resp "memory-gallery/internal/transport/http/response"
)

const (
	KeySubject = "subject"
	KeyRole    = "role"
	KeyToken   = "accessToken"
)

// RoleFunc resolves a token subject to the user's current role. Tokens
// carry only subject and type, so role checks go through the store.
type RoleFunc func(ctx context.Context, subject string) (string, error)

// AuthJWT requires a valid bearer access token. requireRole narrows the
// group to one role ("" accepts any authenticated user).
func AuthJWT(j *auth.JWTer, roleOf RoleFunc, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		token := strings.TrimPrefix(ah, "Bearer ")
		claims, err := j.Parse(token, auth.TokenAccess)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		if requireRole != "" {
			role, err := roleOf(c.Request.Context(), claims.Subject)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "invalid token"))
				return
			}
			if role != requireRole {
				c.AbortWithStatusJSON(http.StatusForbidden, resp.Error(resp.CodeForbidden, "forbidden"))
				return
			}
			c.Set(KeyRole, role)
		}
		c.Set(KeySubject, claims.Subject)
		c.Set(KeyToken, token)
		c.Next()
	}
}
