package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"squad-portal/backend/internal/platform/apperror"
	"squad-portal/backend/internal/security"
	"squad-portal/backend/internal/server/respond"
)

const bearerPrefix = "bearer "

// Auth returns middleware that validates the Bearer session token and puts
// the member id into the request context. Requests without a valid token are
// rejected with 401; routes that allow anonymous access simply do not mount
// this middleware.
func Auth(tokens *security.TokenProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c.GetHeader("Authorization"))
		if token == "" {
			respond.Error(c, apperror.Unauthorized("missing or invalid authorization"))
			c.Abort()
			return
		}
		memberID, err := tokens.Validate(token)
		if err != nil {
			respond.Error(c, apperror.Unauthorized("missing or invalid authorization"))
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(WithMemberID(c.Request.Context(), memberID))
		c.Next()
	}
}

// extractBearer returns the Bearer token from the header value, or "" if
// missing or malformed.
func extractBearer(header string) string {
	v := strings.TrimSpace(header)
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
