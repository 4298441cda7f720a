package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinLoadIdentity adapts the net/http IdentityMiddleware to Gin.
func GinLoadIdentity(m *IdentityMiddleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		passed := false

		// Bridge handler to allow net/http middleware execution
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})

		m.LoadIdentity(next).ServeHTTP(c.Writer, c.Request)

		// If the middleware already answered, stop the Gin chain
		if !passed {
			c.Abort()
		}
	}
}
