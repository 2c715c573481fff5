package middlewares

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders sets baseline security headers. The API serves JSON only,
// so no CSP is needed here; the payment widget runs on the web client.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")

		c.Next()
	}
}
