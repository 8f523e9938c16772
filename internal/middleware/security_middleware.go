package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware adds security headers to all responses
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Stop browsers from guessing the content type of JSON bodies
		c.Header("X-Content-Type-Options", "nosniff")

		// The API is never meant to be framed
		c.Header("X-Frame-Options", "DENY")

		// Legacy browsers only, modern ones rely on CSP
		c.Header("X-XSS-Protection", "1; mode=block")

		// A JSON API serves no scripts, styles or frames
		c.Header("Content-Security-Policy",
			"default-src 'none'; "+
				"frame-ancestors 'none';",
		)

		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		c.Header("Permissions-Policy",
			"camera=(), microphone=(), geolocation=(), payment=()",
		)

		c.Next()
	}
}

// HSTSMiddleware enforces HTTPS (only for production)
func HSTSMiddleware(isProduction bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isProduction {
			// one year, subdomains included
			c.Header("Strict-Transport-Security",
				"max-age=31536000; includeSubDomains; preload",
			)
		}
		c.Next()
	}
}
