package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSConfig holds CORS configuration. Exactly one browser origin is
// allowed; requests from anywhere else get no CORS headers and the browser
// refuses them.
type CORSConfig struct {
	AllowedOrigin string
}

// CORS returns a middleware that handles Cross-Origin Resource Sharing for
// the single configured frontend origin, with credentials allowed.
func CORS(config CORSConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if IsOriginAllowed(origin, config) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", config.AllowedOrigin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
			c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		}

		// Handle preflight requests
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// IsOriginAllowed checks if an origin is the configured one.
func IsOriginAllowed(origin string, config CORSConfig) bool {
	return origin != "" && strings.EqualFold(origin, config.AllowedOrigin)
}
