package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"doctalkie/internal/pkg/jwtutil"
	"doctalkie/internal/transport/http/response"
)

const (
	ContextUserIDKey = "user_id"
	ContextEmailKey  = "email"
)

// AuthSession accepts a session token from the Authorization header or the
// session cookie. The header wins when both are present.
func AuthSession(secret, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := sessionToken(c, cookieName)
		if !ok {
			response.Error(c, 401, response.CodeUnauthorized, "Unauthorized: User not found")
			c.Abort()
			return
		}

		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			response.Error(c, 401, response.CodeUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextEmailKey, claims.Email)
		c.Next()
	}
}

// UserID returns the authenticated user set by AuthSession.
func UserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

func sessionToken(c *gin.Context, cookieName string) (string, bool) {
	if header := strings.TrimSpace(c.GetHeader("Authorization")); header != "" {
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			return "", false
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
		return token, token != ""
	}
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}
