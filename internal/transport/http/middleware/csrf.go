package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "memory-gallery/internal/transport/http/response"
)

// CSRFPresence checks that mutating requests carry the double-submit
// token in a header or cookie. Presence only; the token itself is
// stateless and carries no expiry.
func CSRFPresence() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		token := c.GetHeader("X-CSRF-Token")
		if token == "" {
			token, _ = c.Cookie("csrf_token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, resp.Error(resp.CodeForbidden, "CSRF token missing"))
			return
		}
		c.Next()
	}
}
