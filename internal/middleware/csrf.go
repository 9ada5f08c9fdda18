package middleware

import (
	"github.com/clubhub/clubhub-api/internal/constants"
	apierrors "github.com/clubhub/clubhub-api/internal/errors"
	"github.com/clubhub/clubhub-api/internal/services"
	"github.com/gin-gonic/gin"
)

// RequireCsrf verifies the request's CSRF header against the session token.
// It runs after RequireAuth and before any handler, so a bad token rejects
// the request before any domain state is touched. A missing header is
// treated the same as a wrong one.
func RequireCsrf(sessionService *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := CurrentSession(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		token := c.GetHeader(constants.CSRFHeaderName)
		if err := sessionService.VerifyCSRFToken(sess, token); err != nil {
			apierrors.Forbidden(c, "Invalid CSRF token")
			c.Abort()
			return
		}

		c.Next()
	}
}
