package middleware

import (
	"errors"

	"github.com/clubhub/clubhub-api/internal/constants"
	apierrors "github.com/clubhub/clubhub-api/internal/errors"
	"github.com/clubhub/clubhub-api/internal/logger"
	"github.com/clubhub/clubhub-api/internal/models"
	"github.com/clubhub/clubhub-api/internal/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RequireAuth resolves the session cookie to a live principal. On success it
// stores the user and session in the request context, rotates the session id
// when due, and publishes the CSRF token for the response envelope.
func RequireAuth(sessionService *services.SessionService, authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookieSession := sessions.Default(c)
		sessionID, _ := cookieSession.Get(constants.SessionKeySessionID).(string)

		sess, err := sessionService.Validate(sessionID)
		if err != nil {
			if errors.Is(err, services.ErrUnauthenticated) {
				apierrors.Unauthorized(c, "")
			} else {
				logger.Error("session validation failed", "error", err)
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		user, err := authService.GetUser(sess.UserID)
		if err != nil || !user.IsActive {
			// Session points at a missing or deactivated account; kill it.
			if derr := sessionService.Destroy(sess.ID); derr != nil {
				logger.Warn("failed to destroy orphaned session", "error", derr)
			}
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		sess, rotated, err := sessionService.MaybeRotate(sess)
		if err != nil {
			logger.Error("session rotation failed", "error", err)
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}
		if rotated {
			cookieSession.Set(constants.SessionKeySessionID, sess.ID)
			if err := cookieSession.Save(); err != nil {
				logger.Error("failed to save rotated session cookie", "error", err)
				apierrors.InternalError(c, "")
				c.Abort()
				return
			}
		}

		token, err := sessionService.EnsureCSRFToken(sess)
		if err != nil {
			logger.Error("failed to ensure CSRF token", "error", err)
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}
		apierrors.SetCSRFToken(c, token)

		c.Set(constants.ContextKeyPrincipal, user)
		c.Set(constants.ContextKeySession, sess)
		c.Next()
	}
}

// Principal retrieves the authenticated user from context.
func Principal(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyPrincipal)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// CurrentSession retrieves the validated session from context.
func CurrentSession(c *gin.Context) (*models.Session, bool) {
	value, exists := c.Get(constants.ContextKeySession)
	if !exists {
		return nil, false
	}
	sess, ok := value.(*models.Session)
	return sess, ok
}
