package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
)

type botIDKey struct{}

// OriginPolicy decides whether origin may call the chat endpoints of botID.
type OriginPolicy func(ctx context.Context, botID, origin string) bool

// ChatCORS answers preflights and sets CORS headers for the public chat
// routes. The bot id comes from the :id route parameter.
func ChatCORS(allowed OriginPolicy) gin.HandlerFunc {
	policy := cors.New(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			botID, _ := r.Context().Value(botIDKey{}).(string)
			return allowed(r.Context(), botID, origin)
		},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         600,
	})

	return func(c *gin.Context) {
		req := c.Request.WithContext(context.WithValue(c.Request.Context(), botIDKey{}, c.Param("id")))
		passed := false
		policy.Handler(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, req)
		if !passed {
			c.Abort()
		}
	}
}
