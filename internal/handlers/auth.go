package handlers

import (
	"errors"
	"fmt"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/clubhub/clubhub-api/internal/constants"
	"github.com/clubhub/clubhub-api/internal/dto"
	apierrors "github.com/clubhub/clubhub-api/internal/errors"
	"github.com/clubhub/clubhub-api/internal/logger"
	"github.com/clubhub/clubhub-api/internal/middleware"
	"github.com/clubhub/clubhub-api/internal/services"
	"github.com/clubhub/clubhub-api/internal/utils"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService    *services.AuthService
	sessionService *services.SessionService
	rateLimiter    *services.RateLimitService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, sessionService *services.SessionService, rateLimiter *services.RateLimitService) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		sessionService: sessionService,
		rateLimiter:    rateLimiter,
	}
}

// Register creates a new user account. Registration is rate limited per
// client address before any credential work happens.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Email     string `json:"email" binding:"required"`
		Password  string `json:"password" binding:"required"`
		FirstName string `json:"first_name" binding:"required,max=100"`
		LastName  string `json:"last_name" binding:"required,max=100"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	clientIP := utils.ClientIP(c.Request)
	if err := h.rateLimiter.AllowRegister(services.IPIdentity(clientIP)); err != nil {
		apierrors.TooManyRequests(c, "")
		return
	}

	user, err := h.authService.Register(services.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	apierrors.Created(c, dto.ToUserDTO(*user), "Account created successfully")
}

// Login authenticates a user and establishes the session. Attempts are rate
// limited per client address; the limiter consumes failed and successful
// attempts alike.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	clientIP := utils.ClientIP(c.Request)
	if err := h.rateLimiter.AllowLogin(services.IPIdentity(clientIP)); err != nil {
		apierrors.TooManyRequests(c, "")
		return
	}

	user, err := h.authService.Authenticate(req.Email, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	sess, err := h.sessionService.Create(user.ID, "", services.ClientContext{
		IPAddress: clientIP,
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		logger.Error("failed to create session", "error", err)
		apierrors.InternalError(c, "")
		return
	}

	token, err := h.sessionService.EnsureCSRFToken(sess)
	if err != nil {
		logger.Error("failed to issue CSRF token", "error", err)
		apierrors.InternalError(c, "")
		return
	}
	apierrors.SetCSRFToken(c, token)

	cookieSession := sessions.Default(c)
	cookieSession.Set(constants.SessionKeySessionID, sess.ID)
	if err := cookieSession.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	apierrors.OK(c, dto.ToUserDTO(*user), "Login successful")
}

// Logout destroys the server-side session and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if sess, ok := middleware.CurrentSession(c); ok {
		if err := h.sessionService.Destroy(sess.ID); err != nil {
			logger.Warn("failed to destroy session on logout", "error", err)
		}
	}

	cookieSession := sessions.Default(c)
	cookieSession.Clear()
	if err := cookieSession.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	apierrors.OK(c, nil, "Logged out successfully")
}

// Check returns the authenticated user and a fresh CSRF token.
func (h *AuthHandler) Check(c *gin.Context) {
	user, ok := middleware.Principal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	apierrors.OK(c, dto.ToUserDTO(*user), "Authenticated")
}

// ChangePassword replaces the caller's credential after re-verification.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	type ChangePasswordRequest struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, ok := middleware.Principal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.authService.ChangePassword(user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respondAuthError(c, err)
		return
	}

	apierrors.OK(c, nil, "Password changed successfully")
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidEmail):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrDuplicateIdentity):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrAccountDeactivated):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrHashingFailed):
		apierrors.InternalError(c, "")
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
