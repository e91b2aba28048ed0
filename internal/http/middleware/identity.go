package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// HeaderUserID carries the caller's opaque user id. Ids are trusted as
	// given; there is no authentication layer.
	HeaderUserID = "X-User-ID"

	userIDKey = "userID"

	// AnonymousUser is used when a request carries no user id.
	AnonymousUser = "demo-user"

	maxUserIDLen = 64
)

// Identity copies X-User-ID into the Gin context so logging, rate limiting
// and idempotency key on the same identity. Overlong ids are ignored.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := strings.TrimSpace(c.GetHeader(HeaderUserID)); uid != "" && len(uid) <= maxUserIDLen {
			c.Set(userIDKey, uid)
		}
		c.Next()
	}
}

// UserID returns the identity stored by Identity, falling back to the raw
// header and finally to AnonymousUser.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader(HeaderUserID)); h != "" {
			return h
		}
	}
	return AnonymousUser
}
