package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const bearerTokenKey = "bearerToken"

// BearerPassThrough extracts the Authorization bearer token and stores it on
// the request context. The token is never validated here; it is forwarded to
// backend calls, and an absent or expired credential surfaces as the
// backend's own auth failure.
func BearerPassThrough() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			c.Set(bearerTokenKey, strings.TrimPrefix(header, "Bearer "))
		}
		c.Next()
	}
}

// GetBearerToken returns the pass-through token for the current request, or
// an empty string when none was supplied.
func GetBearerToken(c *gin.Context) string {
	token, _ := c.Get(bearerTokenKey)
	if s, ok := token.(string); ok {
		return s
	}
	return ""
}
