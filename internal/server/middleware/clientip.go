package middleware

import "github.com/gin-gonic/gin"

// CaptureClientIP copies gin's resolved client IP into the request context so
// layers below the handler (the audit logger) can read it without a gin
// dependency.
func CaptureClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithClientIP(c.Request.Context(), c.ClientIP()))
		c.Next()
	}
}
